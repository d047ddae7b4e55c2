//go:build integration

package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/internal/integrationtest"
	"github.com/go-vlad/payment-transfer/internal/integrationtest/helpers"
	"github.com/go-vlad/payment-transfer/internal/middleware"
	"github.com/go-vlad/payment-transfer/pkg/currencypkg"
	"github.com/go-vlad/payment-transfer/pkg/randompkg"
	"github.com/go-vlad/payment-transfer/pkg/tokenpkg"
	"github.com/go-vlad/payment-transfer/pkg/web"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCreateTransferAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	account1 := helpers.SeedAccount(t, server.DB, "1000.00", currencypkg.USD)
	account2 := helpers.SeedAccount(t, server.DB, "1000.00", currencypkg.USD)
	amount := "100.00"

	tokenMaker, err := tokenpkg.NewPasetoMaker(server.Config.TokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", server.Config.TokenSymmetricKey, err)
	}

	authType := middleware.AuthTypeBearer
	duration := server.Config.AccessTokenDuration

	type requestBody struct {
		SourceAccountID      int64  `json:"source_account_id"`
		DestinationAccountID int64  `json:"destination_account_id"`
		Amount               string `json:"amount"`
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		setupAuth      func(t *testing.T, r *http.Request) error
		wantStatusCode int
		checkData      func(req requestBody, data any)
		wantError      string
	}{
		{
			name: "OK",
			requestBody: requestBody{
				SourceAccountID:      account1.ID,
				DestinationAccountID: account2.ID,
				Amount:               amount,
			},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, "gateway", duration)
			},
			wantStatusCode: http.StatusCreated,
			checkData: func(req requestBody, data any) {
				got, ok := data.(*struct {
					Transfer domain.TransferResult `json:"transfer"`
				})
				if !ok {
					t.Errorf(`res.Data=%#v, failed type conversion`, data)
				}

				if got.Transfer.TransferID == "" {
					t.Error("res.Data transfer_id is empty")
				}

				want := domain.TransferResult{
					Status:  domain.StatusCompleted,
					Message: "Transfer completed successfully",
					Details: domain.TransferDetails{
						SourceAccountID:          account1.ID,
						SourceAccountNumber:      account1.AccountNumber,
						DestinationAccountID:     account2.ID,
						DestinationAccountNumber: account2.AccountNumber,
						Amount:                   amount,
						Currency:                 currencypkg.USD,
						Timestamp:                time.Now().UTC().Truncate(time.Second),
					},
				}

				ignoreTransferID := cmpopts.IgnoreFields(domain.TransferResult{}, "TransferID")
				compareTimestamp := cmpopts.EquateApproxTime(time.Second)

				if diff := cmp.Diff(want, got.Transfer, ignoreTransferID, compareTimestamp); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "SelfTransfer",
			requestBody: requestBody{
				SourceAccountID:      account1.ID,
				DestinationAccountID: account1.ID,
				Amount:               amount,
			},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, "gateway", duration)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "cannot transfer to the same account",
		},
		{
			name: "InsufficientFunds",
			requestBody: requestBody{
				SourceAccountID:      account1.ID,
				DestinationAccountID: account2.ID,
				Amount:               "100000.00",
			},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, "gateway", duration)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "SourceAccountNotFound",
			requestBody: requestBody{
				SourceAccountID:      account2.ID + 10000,
				DestinationAccountID: account2.ID,
				Amount:               amount,
			},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, "gateway", duration)
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "MissingAmount",
			requestBody: requestBody{
				SourceAccountID:      account1.ID,
				DestinationAccountID: account2.ID,
				Amount:               "",
			},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, "gateway", duration)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "NoAuthorization",
			requestBody: requestBody{
				SourceAccountID:      account1.ID,
				DestinationAccountID: account2.ID,
				Amount:               amount,
			},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      middleware.ErrAuthHeaderNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			// Send request
			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			// Test response
			if got := w.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{
				Data: &struct {
					Transfer domain.TransferResult `json:"transfer"`
				}{},
			}

			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode == http.StatusCreated {
				tc.checkData(tc.requestBody, res.Data)
			} else if tc.wantError != "" && res.Error != tc.wantError {
				t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
			}
		})
	}
}

func TestTransferIdempotentReplayAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	account1 := helpers.SeedAccount(t, server.DB, "200.00", currencypkg.EUR)
	account2 := helpers.SeedAccount(t, server.DB, "50.00", currencypkg.EUR)
	key := randompkg.IdempotencyKey()

	tokenMaker, err := tokenpkg.NewPasetoMaker(server.Config.TokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", server.Config.TokenSymmetricKey, err)
	}

	send := func(t *testing.T) domain.TransferResult {
		t.Helper()

		body, err := json.Marshal(map[string]any{
			"source_account_id":      account1.ID,
			"destination_account_id": account2.ID,
			"amount":                 "100.00",
		})
		if err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}

		req, err := http.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("Creating request error: %v", err)
		}

		req.Header.Set("Idempotency-Key", key)

		err = middleware.AddAuthorization(req, tokenMaker, middleware.AuthTypeBearer,
			"gateway", server.Config.AccessTokenDuration)
		if err != nil {
			t.Fatalf("middleware.AddAuthorization(%+v) returned error: %v", req, err)
		}

		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Status code: got %v, want %v, body: %v", w.Code, http.StatusCreated, w.Body.String())
		}

		data := &struct {
			Transfer domain.TransferResult `json:"transfer"`
		}{}
		res := web.Response{Data: data}

		if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
			t.Fatalf("Decoding response body error: %v", err)
		}

		return data.Transfer
	}

	first := send(t)
	if first.Message != "Transfer completed successfully" {
		t.Errorf("first.Message = %q, want %q", first.Message, "Transfer completed successfully")
	}

	second := send(t)
	if second.Message != "Transfer already processed" {
		t.Errorf("second.Message = %q, want %q", second.Message, "Transfer already processed")
	}

	if second.TransferID != first.TransferID {
		t.Errorf("second.TransferID = %v, want %v", second.TransferID, first.TransferID)
	}

	// The money moved exactly once.
	getBalance := func(t *testing.T, id int64) string {
		t.Helper()

		var balance string
		if err := server.DB.QueryRow("SELECT balance FROM accounts WHERE id = $1", id).Scan(&balance); err != nil {
			t.Fatalf("querying balance of account %v returned error: %v", id, err)
		}

		return balance
	}

	if got := getBalance(t, account1.ID); got != "100.00" {
		t.Errorf("source balance = %v, want 100.00", got)
	}

	if got := getBalance(t, account2.ID); got != "150.00" {
		t.Errorf("destination balance = %v, want 150.00", got)
	}
}
