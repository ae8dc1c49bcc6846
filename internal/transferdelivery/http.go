// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

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

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
	Cancel(ctx context.Context, arg domain.CancelTransferParams) (domain.TransferRecord, error)
	History(ctx context.Context) ([]domain.TransferRecord, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type uriRequest struct {
	AccountNo string `uri:"account_no" binding:"required,accountno"`
}

type createRequest struct {
	ToAccountNo string `json:"to_account_no" binding:"required,accountno"`
	Amount      string `json:"amount" binding:"required"`
}

type cancelRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type transferData struct {
	Transfer domain.TransferTxResult `json:"transfer"`
}

type recordData struct {
	Record domain.TransferRecord `json:"record"`
}

type historyData struct {
	Transfers []domain.TransferRecord `json:"transfers"`
}

// errorStatus maps a service error to the response status and the message shown to the caller.
func errorStatus(err error) (int, error) {
	// ErrStoreUnavailable may come joined with a validation error and takes precedence.
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return http.StatusServiceUnavailable, domain.ErrStoreUnavailable
	}

	for _, e := range []error{domain.ErrInvalidAmount, domain.ErrInsufficientBalance, domain.ErrSameAccount} {
		if errors.Is(err, e) {
			return http.StatusBadRequest, e
		}
	}

	for _, e := range []error{domain.ErrAccountNotFound, domain.ErrRecipientNotFound} {
		if errors.Is(err, e) {
			return http.StatusNotFound, e
		}
	}

	if errors.Is(err, domain.ErrBalanceConflict) {
		return http.StatusConflict, domain.ErrBalanceConflict
	}

	return http.StatusInternalServerError, errorspkg.ErrInternal
}

func bind(gctx *gin.Context, uri, body any) bool {
	l := zerolog.Ctx(gctx.Request.Context())

	err := gctx.ShouldBindUri(uri)
	if err == nil && body != nil {
		err = gctx.ShouldBindJSON(body)
	}

	if err == nil {
		return true
	}

	l.Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
		return false
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))

	return false
}

// Create handles http request to transfer money from the account in the path.
//
// A rejected transfer still answers with the Failure record when one was stored.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var (
		uri uriRequest
		req createRequest
	)

	if !bind(gctx, &uri, &req) {
		return
	}

	arg := domain.CreateTransferParams{
		FromAccountNo: uri.AccountNo,
		ToAccountNo:   req.ToAccountNo,
		Amount:        req.Amount,
	}

	result, err := h.service.Transfer(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()

		code, msg := errorStatus(err)
		res := web.Error(msg)

		if result.Record.ID != 0 {
			res.Data = recordData{result.Record}
		}

		gctx.JSON(code, res)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: transferData{result}})
}

// Cancel handles http request to record a transfer abandoned after the amount was entered.
func (h *Handler) Cancel(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var (
		uri uriRequest
		req cancelRequest
	)

	if !bind(gctx, &uri, &req) {
		return
	}

	record, err := h.service.Cancel(ctx, domain.CancelTransferParams{
		FromAccountNo: uri.AccountNo,
		Amount:        req.Amount,
	})
	if err != nil {
		l.Info().Err(err).Send()

		code, msg := errorStatus(err)
		gctx.JSON(code, web.Error(msg))

		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: recordData{record}})
}

// History handles http request to list the ledger.
func (h *Handler) History(gctx *gin.Context) {
	records, err := h.service.History(gctx.Request.Context())
	if err != nil {
		code, msg := errorStatus(err)
		gctx.JSON(code, web.Error(msg))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: historyData{records}})
}
