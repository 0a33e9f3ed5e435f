package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

type balanceData struct {
	Owner     string `json:"owner"`
	AccountID int32  `json:"account_id"`
}

// ownerRoutes mounts an account route behind the same chain the server uses
// for deposits, withdrawals and reports.
func ownerRoutes(maker tokenpkg.Maker, accounts AccountGetter) *gin.Engine {
	server := gin.New()

	group := server.Group("/accounts/:id", AuthMiddleware(maker), AccountOwner(accounts))
	group.GET("/balance", func(gctx *gin.Context) {
		payload := gctx.MustGet(AuthPayloadKey).(*tokenpkg.Payload)
		account := gctx.MustGet(AccountKey).(domain.Account)

		gctx.JSON(http.StatusOK, web.Response{Data: balanceData{Owner: payload.Username, AccountID: account.ID}})
	})

	return server
}

func TestAuthMiddlewareOnAccountRoutes(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)

	owner := randompkg.Owner()
	account := domain.Account{ID: 7, Owner: owner}

	accounts := accountsFunc(func(ctx context.Context, id int32) (domain.Account, error) {
		if id == account.ID {
			return account, nil
		}

		return domain.Account{}, domain.ErrAccountNotFound
	})

	for _, kind := range []string{tokenpkg.KindPaseto, tokenpkg.KindJWT} {
		kind := kind

		maker, err := tokenpkg.NewMaker(kind, randompkg.String(32))
		if err != nil {
			t.Fatalf("tokenpkg.NewMaker(%q) returned error: %v", kind, err)
		}

		foreign, err := tokenpkg.NewMaker(kind, randompkg.String(32))
		if err != nil {
			t.Fatalf("tokenpkg.NewMaker(%q) returned error: %v", kind, err)
		}

		token := func(t *testing.T, m tokenpkg.Maker, username string, d time.Duration) string {
			t.Helper()

			s, _, err := m.CreateToken(username, d)
			if err != nil {
				t.Fatalf("m.CreateToken(%v, %v) returned error: %v", username, d, err)
			}

			return s
		}

		testCases := []struct {
			name           string
			header         func(t *testing.T) string
			wantStatusCode int
			wantError      string
		}{
			{
				name:           "MissingHeader",
				header:         func(t *testing.T) string { return "" },
				wantStatusCode: http.StatusUnauthorized,
				wantError:      ErrAuthHeaderNotFound.Error(),
			},
			{
				name:           "TokenWithoutType",
				header:         func(t *testing.T) string { return token(t, maker, owner, time.Minute) },
				wantStatusCode: http.StatusUnauthorized,
				wantError:      ErrBadAuthHeaderFormat.Error(),
			},
			{
				name:           "BasicAuth",
				header:         func(t *testing.T) string { return "Basic b3duZXI6c2VjcmV0" },
				wantStatusCode: http.StatusUnauthorized,
				wantError:      ErrUnsupportedAuthType.Error(),
			},
			{
				name:           "ExpiredToken",
				header:         func(t *testing.T) string { return "Bearer " + token(t, maker, owner, -time.Minute) },
				wantStatusCode: http.StatusUnauthorized,
				wantError:      tokenpkg.ErrExpiredToken.Error(),
			},
			{
				name:           "SignedWithAnotherKey",
				header:         func(t *testing.T) string { return "Bearer " + token(t, foreign, owner, time.Minute) },
				wantStatusCode: http.StatusUnauthorized,
				wantError:      tokenpkg.ErrInvalidToken.Error(),
			},
			{
				name:           "StrangerToken",
				header:         func(t *testing.T) string { return "Bearer " + token(t, maker, randompkg.Owner(), time.Minute) },
				wantStatusCode: http.StatusUnauthorized,
				wantError:      domain.ErrAccountOwnerMismatch.Error(),
			},
			{
				name:           "OwnerToken",
				header:         func(t *testing.T) string { return "Bearer " + token(t, maker, owner, time.Minute) },
				wantStatusCode: http.StatusOK,
			},
			{
				name:           "LowercaseBearer",
				header:         func(t *testing.T) string { return "bearer " + token(t, maker, owner, time.Minute) },
				wantStatusCode: http.StatusOK,
			},
		}

		for i := range testCases {
			tc := testCases[i]

			t.Run(kind+"/"+tc.name, func(t *testing.T) {
				t.Parallel()

				server := ownerRoutes(maker, accounts)

				request, err := http.NewRequest(http.MethodGet, fmt.Sprintf("/accounts/%d/balance", account.ID), nil)
				if err != nil {
					t.Fatalf("Creating request error: %v", err)
				}

				if header := tc.header(t); header != "" {
					request.Header.Set(AuthHeaderKey, header)
				}

				recorder := httptest.NewRecorder()
				server.ServeHTTP(recorder, request)

				if recorder.Code != tc.wantStatusCode {
					t.Errorf("recorder.Code = %v, want %v", recorder.Code, tc.wantStatusCode)
				}

				got := web.Response{Data: &balanceData{}}
				if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
					t.Fatalf("Decoding response body error: %v", err)
				}

				if got.Error != tc.wantError {
					t.Errorf("got.Error = %q, want %q", got.Error, tc.wantError)
				}

				if tc.wantStatusCode != http.StatusOK {
					return
				}

				want := &balanceData{Owner: owner, AccountID: account.ID}
				if data, ok := got.Data.(*balanceData); !ok || *data != *want {
					t.Errorf("got.Data = %+v, want %+v", got.Data, want)
				}
			})
		}
	}
}

func TestAddAuthorization(t *testing.T) {
	maker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker returned error: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, "/accounts/7/deposits", nil)

	if err := AddAuthorization(request, maker, AuthTypeBearer, "alice", time.Minute); err != nil {
		t.Fatalf("AddAuthorization returned error: %v", err)
	}

	var token string
	if _, err := fmt.Sscanf(request.Header.Get(AuthHeaderKey), AuthTypeBearer+" %s", &token); err != nil {
		t.Fatalf("authorization header %q is not a bearer token: %v", request.Header.Get(AuthHeaderKey), err)
	}

	payload, err := maker.VerifyToken(token)
	if err != nil {
		t.Fatalf("maker.VerifyToken returned error: %v", err)
	}

	if payload.Username != "alice" {
		t.Errorf("payload.Username = %q, want %q", payload.Username, "alice")
	}
}
