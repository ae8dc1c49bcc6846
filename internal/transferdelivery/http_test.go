package transferdelivery

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-petr/basic-bank/internal/accountdelivery"
	"github.com/go-petr/basic-bank/internal/domain"
	"github.com/go-petr/basic-bank/internal/middleware"
	"github.com/go-petr/basic-bank/pkg/errorspkg"
	"github.com/go-petr/basic-bank/pkg/randompkg"
	"github.com/go-petr/basic-bank/pkg/tokenpkg"
	"github.com/go-petr/basic-bank/pkg/web"
	"github.com/golang/mock/gomock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("accountno", accountdelivery.ValidAccountNo); err != nil {
			panic(err)
		}
	}

	os.Exit(m.Run())
}

type testServer struct {
	engine     *gin.Engine
	tokenMaker tokenpkg.Maker
}

func newTestServer(t *testing.T, service Service) testServer {
	t.Helper()

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker() returned error: %v", err)
	}

	h := NewHandler(service)

	engine := gin.New()
	engine.Use(middleware.AuthMiddleware(tokenMaker))
	engine.POST("/accounts/:account_no/transfers", h.Create)
	engine.POST("/accounts/:account_no/transfers/cancel", h.Cancel)
	engine.GET("/transfers", h.History)

	return testServer{engine: engine, tokenMaker: tokenMaker}
}

func (s testServer) do(t *testing.T, method, path string, body any, auth bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	if auth {
		if err := middleware.AddAuthorization(req, s.tokenMaker, middleware.AuthTypeBearer, "testuser", time.Minute); err != nil {
			t.Fatalf("middleware.AddAuthorization() returned error: %v", err)
		}
	}

	recorder := httptest.NewRecorder()
	s.engine.ServeHTTP(recorder, req)

	return recorder
}

func TestCreate(t *testing.T) {
	failureRecord := domain.TransferRecord{
		ID:        11,
		FromName:  "Aditya Sharma",
		ToName:    "Rohan Gupta",
		Amount:    100,
		Status:    domain.StatusFailure,
		CreatedAt: time.Now().UTC(),
	}

	okResult := domain.TransferTxResult{
		Record: domain.TransferRecord{
			ID:        12,
			FromName:  "Aditya Sharma",
			ToName:    "Rohan Gupta",
			Amount:    100,
			Status:    domain.StatusSuccess,
			CreatedAt: time.Now().UTC(),
		},
		FromAccount: domain.Account{AccountNo: "1", Name: "Aditya Sharma", Balance: 7895641138},
		ToAccount:   domain.Account{AccountNo: "2", Name: "Rohan Gupta", Balance: 4512460},
	}

	wantArg := domain.CreateTransferParams{FromAccountNo: "1", ToAccountNo: "2", Amount: "100"}

	testCases := []struct {
		name           string
		path           string
		body           gin.H
		noAuth         bool
		buildStubs     func(transferService *MockService)
		wantStatusCode int
		wantError      string
		wantResult     *domain.TransferTxResult
		wantRecord     *domain.TransferRecord
	}{
		{
			name: "OK",
			path: "/accounts/1/transfers",
			body: gin.H{"to_account_no": "2", "amount": "100"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Eq(wantArg)).Times(1).Return(okResult, nil)
			},
			wantStatusCode: http.StatusOK,
			wantResult:     &okResult,
		},
		{
			name:   "NoAuthorization",
			path:   "/accounts/1/transfers",
			body:   gin.H{"to_account_no": "2", "amount": "100"},
			noAuth: true,
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      middleware.ErrAuthHeaderNotFound.Error(),
		},
		{
			name: "InvalidFromAccountNo",
			path: "/accounts/abc/transfers",
			body: gin.H{"to_account_no": "2", "amount": "100"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "AccountNo field must be a valid account number",
		},
		{
			name: "MissingRecipient",
			path: "/accounts/1/transfers",
			body: gin.H{"amount": "100"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "ToAccountNo field is required",
		},
		{
			name: "MissingAmount",
			path: "/accounts/1/transfers",
			body: gin.H{"to_account_no": "2"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount field is required",
		},
		{
			name: "InvalidAmount",
			path: "/accounts/1/transfers",
			body: gin.H{"to_account_no": "2", "amount": "1.5"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{}, domain.ErrInvalidAmount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name: "InsufficientBalance",
			path: "/accounts/1/transfers",
			body: gin.H{"to_account_no": "2", "amount": "100"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(wantArg)).
					Times(1).
					Return(domain.TransferTxResult{Record: failureRecord}, domain.ErrInsufficientBalance)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInsufficientBalance.Error(),
			wantRecord:     &failureRecord,
		},
		{
			name: "SameAccount",
			path: "/accounts/1/transfers",
			body: gin.H{"to_account_no": "1", "amount": "100"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{Record: failureRecord}, domain.ErrSameAccount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrSameAccount.Error(),
			wantRecord:     &failureRecord,
		},
		{
			name: "RecipientNotFound",
			path: "/accounts/1/transfers",
			body: gin.H{"to_account_no": "99", "amount": "100"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{Record: failureRecord}, domain.ErrRecipientNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrRecipientNotFound.Error(),
			wantRecord:     &failureRecord,
		},
		{
			name: "SenderNotFound",
			path: "/accounts/99/transfers",
			body: gin.H{"to_account_no": "2", "amount": "100"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name: "BalanceConflict",
			path: "/accounts/1/transfers",
			body: gin.H{"to_account_no": "2", "amount": "100"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{Record: failureRecord}, domain.ErrBalanceConflict)
			},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrBalanceConflict.Error(),
			wantRecord:     &failureRecord,
		},
		{
			name: "FailureRecordNotStored",
			path: "/accounts/1/transfers",
			body: gin.H{"to_account_no": "2", "amount": "100"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{}, errors.Join(domain.ErrInsufficientBalance, domain.ErrStoreUnavailable))
			},
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      domain.ErrStoreUnavailable.Error(),
		},
		{
			name: "InternalError",
			path: "/accounts/1/transfers",
			body: gin.H{"to_account_no": "2", "amount": "100"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferTxResult{}, errors.New("unexpected"))
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			transferService := NewMockService(ctrl)
			tc.buildStubs(transferService)

			recorder := newTestServer(t, transferService).do(t, http.MethodPost, tc.path, tc.body, !tc.noAuth)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			var raw struct {
				Data  json.RawMessage `json:"data"`
				Error string          `json:"error"`
			}

			if err := json.NewDecoder(recorder.Body).Decode(&raw); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if raw.Error != tc.wantError {
				t.Errorf(`resp.Error=%q, want %q`, raw.Error, tc.wantError)
			}

			compareTime := cmpopts.EquateApproxTime(time.Second)

			switch {
			case tc.wantResult != nil:
				var data transferData
				if err := json.Unmarshal(raw.Data, &data); err != nil {
					t.Fatalf("Decoding data error: %v", err)
				}

				if diff := cmp.Diff(*tc.wantResult, data.Transfer, compareTime); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			case tc.wantRecord != nil:
				var data recordData
				if err := json.Unmarshal(raw.Data, &data); err != nil {
					t.Fatalf("Decoding data error: %v", err)
				}

				if diff := cmp.Diff(*tc.wantRecord, data.Record, compareTime); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			default:
				if len(raw.Data) != 0 {
					t.Errorf("res.Data = %s, want none", raw.Data)
				}
			}
		})
	}
}

func TestCancel(t *testing.T) {
	record := domain.TransferRecord{
		ID:        5,
		FromName:  "Aditya Sharma",
		ToName:    domain.NotSelected,
		Amount:    300,
		Status:    domain.StatusFailure,
		CreatedAt: time.Now().UTC(),
	}

	testCases := []struct {
		name           string
		path           string
		body           gin.H
		buildStubs     func(transferService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			path: "/accounts/1/transfers/cancel",
			body: gin.H{"amount": "300"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Cancel(gomock.Any(), gomock.Eq(domain.CancelTransferParams{FromAccountNo: "1", Amount: "300"})).
					Times(1).
					Return(record, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "MissingAmount",
			path: "/accounts/1/transfers/cancel",
			body: gin.H{},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Cancel(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount field is required",
		},
		{
			name: "InvalidAmount",
			path: "/accounts/1/transfers/cancel",
			body: gin.H{"amount": "-3"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Cancel(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferRecord{}, domain.ErrInvalidAmount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name: "SenderNotFound",
			path: "/accounts/99/transfers/cancel",
			body: gin.H{"amount": "300"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Cancel(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferRecord{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name: "StoreUnavailable",
			path: "/accounts/1/transfers/cancel",
			body: gin.H{"amount": "300"},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Cancel(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferRecord{}, domain.ErrStoreUnavailable)
			},
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      domain.ErrStoreUnavailable.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			transferService := NewMockService(ctrl)
			tc.buildStubs(transferService)

			recorder := newTestServer(t, transferService).do(t, http.MethodPost, tc.path, tc.body, true)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			data := &recordData{}
			res := web.Response{Data: data}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if res.Error != tc.wantError {
				t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
			}

			if tc.wantStatusCode == http.StatusCreated {
				if diff := cmp.Diff(record, data.Record, cmpopts.EquateApproxTime(time.Second)); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestHistory(t *testing.T) {
	records := []domain.TransferRecord{
		{ID: 1, FromName: "Aditya Sharma", ToName: "Rohan Gupta", Amount: 100, Status: domain.StatusSuccess},
		{ID: 2, FromName: "Suresh Kumar", ToName: domain.NotSelected, Amount: 500, Status: domain.StatusFailure},
	}

	testCases := []struct {
		name           string
		buildStubs     func(transferService *MockService)
		wantStatusCode int
		wantError      string
		wantRecords    []domain.TransferRecord
	}{
		{
			name: "OK",
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().History(gomock.Any()).Times(1).Return(records, nil)
			},
			wantStatusCode: http.StatusOK,
			wantRecords:    records,
		},
		{
			name: "StoreUnavailable",
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().History(gomock.Any()).Times(1).Return(nil, domain.ErrStoreUnavailable)
			},
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      domain.ErrStoreUnavailable.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			transferService := NewMockService(ctrl)
			tc.buildStubs(transferService)

			recorder := newTestServer(t, transferService).do(t, http.MethodGet, "/transfers", nil, true)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			data := &historyData{}
			res := web.Response{Data: data}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if res.Error != tc.wantError {
				t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
			}

			if diff := cmp.Diff(tc.wantRecords, data.Transfers); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
