package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Perkly/Perkly-Backend/services/monitoring/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLedgerServer is a minimal in-memory rendition of the external ledger API.
type stubLedgerServer struct {
	mux       *http.ServeMux
	authCalls int64
	earnCalls int64
	wallets   map[string]Wallet // keyed by username
	vouchers  []Voucher
	failEarn  bool
	emptyEarn bool
}

func newStubLedgerServer() *stubLedgerServer {
	s := &stubLedgerServer{
		mux:     http.NewServeMux(),
		wallets: map[string]Wallet{},
	}

	s.mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.authCalls, 1)
		var req authRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GrantType != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok-1", ExpiresIn: 3600, TokenType: "Bearer"})
	})

	s.mux.HandleFunc("GET /wallets/by-username/{username}", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(w, r) {
			return
		}
		wallet, ok := s.wallets[r.PathValue("username")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(wallet)
	})

	s.mux.HandleFunc("POST /wallets", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(w, r) {
			return
		}
		var req CreateWalletRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		wallet := Wallet{
			ID:      fmt.Sprintf("wal-%d", len(s.wallets)+1),
			OwnerID: req.Username,
			Balance: req.InitialBalance,
		}
		s.wallets[req.Username] = wallet
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(wallet)
	})

	s.mux.HandleFunc("GET /wallets/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(w, r) {
			return
		}
		for _, wallet := range s.wallets {
			if wallet.ID == r.PathValue("id") {
				json.NewEncoder(w).Encode(wallet)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})

	s.mux.HandleFunc("GET /wallets/{id}/vouchers", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(w, r) {
			return
		}
		json.NewEncoder(w).Encode(voucherPage{Content: s.vouchers})
	})

	s.mux.HandleFunc("POST /transactions/earn", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(w, r) {
			return
		}
		if s.failEarn {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		id := atomic.AddInt64(&s.earnCalls, 1)
		resp := earnResponse{TransactionID: fmt.Sprintf("earn-%d", id)}
		if s.emptyEarn {
			resp.TransactionID = ""
		}
		json.NewEncoder(w).Encode(resp)
	})

	return s
}

func (s *stubLedgerServer) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer tok-1" {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	return true
}

func newTestProvider(t *testing.T, stub *stubLedgerServer) *LedgerProvider {
	t.Helper()
	srv := httptest.NewServer(stub.mux)
	t.Cleanup(srv.Close)

	return NewLedgerProviderWithConfig(&LedgerConfig{
		LedgerName:         "LEDGER",
		LedgerBaseUrl:      srv.URL,
		LedgerAuthUrl:      srv.URL + "/oauth/token",
		LedgerClientID:     "client",
		LedgerClientSecret: "secret",
	}, logging.NewTestLogger(), NewTokenStore())
}

func TestTokenIsCachedAcrossCalls(t *testing.T) {
	ctx := context.Background()
	stub := newStubLedgerServer()
	stub.wallets["perkly-user-1"] = Wallet{ID: "wal-1", Balance: decimal.NewFromInt(10)}
	provider := newTestProvider(t, stub)

	_, err := provider.GetWalletByUsername(ctx, "perkly-user-1")
	require.NoError(t, err)
	_, err = provider.GetWallet(ctx, "wal-1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&stub.authCalls), "token must be fetched once and reused")
}

func TestGetWalletByUsernameNotFound(t *testing.T) {
	provider := newTestProvider(t, newStubLedgerServer())

	_, err := provider.GetWalletByUsername(context.Background(), "perkly-user-404")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestCreateWalletIsIdempotent(t *testing.T) {
	ctx := context.Background()
	stub := newStubLedgerServer()
	provider := newTestProvider(t, stub)

	balance := decimal.NewFromInt(25)
	wallet, status, err := provider.CreateWallet(ctx, "Perkly User 1", "perkly-user-1", balance)
	require.NoError(t, err)
	assert.Equal(t, WalletCreated, status)
	assert.True(t, balance.Equal(wallet.Balance))

	// Second call finds the existing wallet instead of double-creating
	again, status, err := provider.CreateWallet(ctx, "Perkly User 1", "perkly-user-1", balance)
	require.NoError(t, err)
	assert.Equal(t, WalletExisting, status)
	assert.Equal(t, wallet.ID, again.ID)
	assert.Len(t, stub.wallets, 1)
}

func TestListWalletVouchers(t *testing.T) {
	stub := newStubLedgerServer()
	stub.wallets["perkly-user-1"] = Wallet{ID: "wal-1"}
	stub.vouchers = []Voucher{
		{ID: "v1", Title: "Coffee", Value: decimal.NewFromInt(5), Status: "active"},
		{ID: "v2", Title: "Cinema", Value: decimal.NewFromInt(12), Status: "redeemed"},
	}
	provider := newTestProvider(t, stub)

	vouchers, err := provider.ListWalletVouchers(context.Background(), "wal-1", 20, 0)
	require.NoError(t, err)
	require.Len(t, vouchers, 2)
	assert.Equal(t, "Coffee", vouchers[0].Title)
}

func TestSubmitEarn(t *testing.T) {
	ctx := context.Background()
	stub := newStubLedgerServer()
	provider := newTestProvider(t, stub)

	id, err := provider.SubmitEarn(ctx, EarnRequest{
		WalletID:    "wal-1",
		Amount:      decimal.NewFromInt(25),
		Reference:   "opportunity:abc",
		Description: `Reward for completing "Beach Cleanup"`,
	})
	require.NoError(t, err)
	assert.Equal(t, "earn-1", id)
}

func TestSubmitEarnRejectsEmptyTransactionID(t *testing.T) {
	stub := newStubLedgerServer()
	stub.emptyEarn = true
	provider := newTestProvider(t, stub)

	_, err := provider.SubmitEarn(context.Background(), EarnRequest{WalletID: "wal-1", Amount: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty transaction id")
}

func TestSubmitEarnProviderFailure(t *testing.T) {
	stub := newStubLedgerServer()
	stub.failEarn = true
	provider := newTestProvider(t, stub)

	_, err := provider.SubmitEarn(context.Background(), EarnRequest{WalletID: "wal-1", Amount: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 502")
}
