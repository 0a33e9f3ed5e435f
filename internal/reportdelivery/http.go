// Package reportdelivery manages delivery layer of account reports.
package reportdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// DateLayout is the layout of report date query parameters.
const DateLayout = "2006-01-02"

// Service provides service layer interface needed by report delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package reportdelivery
type Service interface {
	Statement(ctx context.Context, accountID int32, rng domain.DateRange) (domain.Statement, error)
	Reconcile(ctx context.Context, accountID int32) (domain.Account, moneypkg.Money, error)
}

// Handler facilitates report delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns report handler.
func NewHandler(rs Service) *Handler {
	return &Handler{service: rs}
}

type statementRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

func (r statementRequest) dateRange() domain.DateRange {
	var rng domain.DateRange

	if r.From != "" {
		from, _ := time.Parse(DateLayout, r.From)
		rng.From = &from
	}

	if r.To != "" {
		to, _ := time.Parse(DateLayout, r.To)
		rng.To = &to
	}

	return rng
}

type statementData struct {
	Statement domain.Statement `json:"statement"`
}

type statementResponse struct {
	Data statementData `json:"data,omitempty"`
}

// Statement handles http request to list account transactions.
func (h *Handler) Statement(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req statementRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	account := gctx.MustGet(middleware.AccountKey).(domain.Account)

	statement, err := h.service.Statement(ctx, account.ID, req.dateRange())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDateRange):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case errors.Is(err, domain.ErrAccountNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, statementResponse{Data: statementData{statement}})
}

// Balance is the stored account balance next to the balance its ledger adds up to.
type Balance struct {
	AccountID       int32          `json:"account_id"`
	Balance         moneypkg.Money `json:"balance"`
	ComputedBalance moneypkg.Money `json:"computed_balance"`
	Reconciled      bool           `json:"reconciled"`
}

type balanceData struct {
	Balance Balance `json:"balance"`
}

type balanceResponse struct {
	Data balanceData `json:"data,omitempty"`
}

// Balance handles http request to get the stored and computed account balance.
func (h *Handler) Balance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	account := gctx.MustGet(middleware.AccountKey).(domain.Account)

	stored, computed, err := h.service.Reconcile(ctx, account.ID)
	if err != nil && !errors.Is(err, domain.ErrBalanceMismatch) {
		if errors.Is(err, domain.ErrAccountNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := balanceResponse{
		Data: balanceData{Balance{
			AccountID:       stored.ID,
			Balance:         stored.Balance,
			ComputedBalance: computed,
			Reconciled:      err == nil,
		}},
	}

	gctx.JSON(http.StatusOK, res)
}
