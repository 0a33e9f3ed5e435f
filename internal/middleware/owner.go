package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
	"github.com/go-petr/pet-ledger/pkg/web"
	"github.com/rs/zerolog"
)

// AccountKey is the gin context key of the account loaded by AccountOwner.
const AccountKey = "account"

// AccountGetter loads accounts for AccountOwner.
type AccountGetter interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
}

type accountURI struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

// AccountOwner loads the account named by the :id path parameter and lets
// the request through only when the authenticated user owns it.
//
// It must run after AuthMiddleware.
func AccountOwner(accounts AccountGetter) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := gctx.Request.Context()
		l := zerolog.Ctx(ctx)

		var req accountURI
		if err := gctx.ShouldBindUri(&req); err != nil {
			l.Info().Err(err).Send()
			gctx.AbortWithStatusJSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

			return
		}

		account, err := accounts.Get(ctx, req.ID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				gctx.AbortWithStatusJSON(http.StatusNotFound, web.Error(err))
				return
			}

			gctx.AbortWithStatusJSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

			return
		}

		authPayload := gctx.MustGet(AuthPayloadKey).(*tokenpkg.Payload)
		if account.Owner != authPayload.Username {
			l.Warn().Err(domain.ErrAccountOwnerMismatch).
				Int32("account_id", account.ID).
				Str("username", authPayload.Username).
				Send()
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(domain.ErrAccountOwnerMismatch))

			return
		}

		gctx.Set(AccountKey, account)
		gctx.Next()
	}
}
