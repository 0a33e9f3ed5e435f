// Package ledgerdelivery manages delivery layer of deposits and withdrawals.
package ledgerdelivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Deposit(ctx context.Context, accountID int32, amount moneypkg.Money) (domain.Transaction, error)
	Withdraw(ctx context.Context, accountID int32, amount moneypkg.Money) (domain.Transaction, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) *Handler {
	return &Handler{service: ls}
}

// amountText keeps the amount as written in the request body.
// Both JSON strings and JSON numbers are accepted.
type amountText string

func (a *amountText) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*a = amountText(s)

		return nil
	}

	*a = amountText(b)

	return nil
}

type request struct {
	Amount amountText `json:"amount" binding:"required,money"`
}

type data struct {
	Transaction domain.Transaction `json:"transaction"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

type postFunc func(ctx context.Context, accountID int32, amount moneypkg.Money) (domain.Transaction, error)

// Deposit handles http request to deposit money to the account.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.post(gctx, h.service.Deposit)
}

// Withdraw handles http request to withdraw money from the account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.post(gctx, h.service.Withdraw)
}

func (h *Handler) post(gctx *gin.Context, post postFunc) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	amount, err := moneypkg.New(string(req.Amount))
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	account := gctx.MustGet(middleware.AccountKey).(domain.Account)

	transaction, err := post(ctx, account.ID, amount)
	if err != nil {
		switch {
		case
			errors.Is(err, domain.ErrInvalidAmount),
			errors.Is(err, domain.ErrAmountBelowMinimum),
			errors.Is(err, domain.ErrExceedsMaximumLimit),
			errors.Is(err, domain.ErrInsufficientFunds):
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		case errors.Is(err, domain.ErrAccountNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{transaction},
	}

	gctx.JSON(http.StatusOK, res)
}
