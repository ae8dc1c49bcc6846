// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/basic-bank/internal/domain"
	"github.com/go-petr/basic-bank/pkg/errorspkg"
	"github.com/go-petr/basic-bank/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Get(ctx context.Context, accountNo string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	ListRecipients(ctx context.Context, accountNo string) ([]domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type accountRequest struct {
	AccountNo string `uri:"account_no" binding:"required,accountno"`
}

func bindError(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())
	l.Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
		return
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))
}

func serviceError(gctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(domain.ErrAccountNotFound))
	case errors.Is(err, domain.ErrStoreUnavailable):
		gctx.JSON(http.StatusServiceUnavailable, web.Error(domain.ErrStoreUnavailable))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req accountRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		bindError(gctx, err)
		return
	}

	account, err := h.service.Get(ctx, req.AccountNo)
	if err != nil {
		serviceError(gctx, err)
		return
	}

	res := web.Response{
		Data: struct {
			Account domain.Account `json:"account"`
		}{
			Account: account,
		},
	}

	gctx.JSON(http.StatusOK, res)
}

type accountsData struct {
	Accounts []domain.Account `json:"accounts"`
}

// List handles http request to list all accounts.
func (h *Handler) List(gctx *gin.Context) {
	accounts, err := h.service.List(gctx.Request.Context())
	if err != nil {
		serviceError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountsData{accounts}})
}

// Recipients handles http request to list the accounts the given account can send money to.
func (h *Handler) Recipients(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req accountRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		bindError(gctx, err)
		return
	}

	accounts, err := h.service.ListRecipients(ctx, req.AccountNo)
	if err != nil {
		serviceError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountsData{accounts}})
}
