package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Perkly/Perkly-Backend/providers"
	"github.com/Perkly/Perkly-Backend/services/monitoring/logging"
	"github.com/Perkly/Perkly-Backend/utils"
	"github.com/shopspring/decimal"
)

// ErrWalletNotFound is the structured miss returned when the provider does not
// know the wallet or username. Transport failures come back as plain errors.
var ErrWalletNotFound = fmt.Errorf("ledger wallet not found")

// Margin subtracted from the provider's expires_in so we refresh before the
// token actually dies mid-request.
const tokenExpiryMargin = 60 * time.Second

type LedgerProvider struct {
	providers.BaseProvider
	config *LedgerConfig
	tokens *TokenStore
}

func NewLedgerProvider(logger *logging.Logger, tokens *TokenStore) *LedgerProvider {

	var c LedgerConfig

	err := utils.LoadCustomConfig(utils.EnvPath, &c)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	return NewLedgerProviderWithConfig(&c, logger, tokens)
}

// NewLedgerProviderWithConfig skips the env lookup. Used when the caller already
// holds the provider config, e.g. in tests pointed at a stub server.
func NewLedgerProviderWithConfig(c *LedgerConfig, logger *logging.Logger, tokens *TokenStore) *LedgerProvider {
	return &LedgerProvider{
		BaseProvider: providers.BaseProvider{
			Name:    c.LedgerName,
			BaseURL: c.LedgerBaseUrl,
			Client: &http.Client{
				Timeout: time.Second * 30,
			},
			Logger: logger,
		},
		config: c,
		tokens: tokens,
	}
}

func (l *LedgerProvider) getToken(ctx context.Context) (string, error) {
	if token, ok := l.tokens.Get(); ok {
		return token, nil
	}

	var requiredHeaders = make(map[string]string)
	requiredHeaders["Accept"] = "application/json"

	request := authRequest{
		ClientID:     l.config.LedgerClientID,
		ClientSecret: l.config.LedgerClientSecret,
		GrantType:    "client_credentials",
	}

	resp, err := l.MakeRequest(ctx, "POST", l.config.LedgerAuthUrl, request, requiredHeaders)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		l.Logger.Error("resp", string(respBody))
		return "", fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var apiResponse tokenResponse
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&apiResponse)
	if err != nil {
		return "", fmt.Errorf("error parsing token response: %w", err)
	}

	ttl := time.Duration(apiResponse.ExpiresIn)*time.Second - tokenExpiryMargin
	if ttl <= 0 {
		ttl = time.Duration(apiResponse.ExpiresIn) * time.Second
	}
	l.tokens.Put(apiResponse.AccessToken, ttl)

	return apiResponse.AccessToken, nil
}

func (l *LedgerProvider) authHeaders(ctx context.Context) (map[string]string, error) {
	token, err := l.getToken(ctx)
	if err != nil {
		return nil, err
	}

	var requiredHeaders = make(map[string]string)
	requiredHeaders["Accept"] = "application/json"
	requiredHeaders["Authorization"] = "Bearer " + token
	return requiredHeaders, nil
}

// GetWalletByUsername performs the provider's existence check. A 404 comes back
// as ErrWalletNotFound so callers can fall through to creation.
func (l *LedgerProvider) GetWalletByUsername(ctx context.Context, username string) (*Wallet, error) {
	headers, err := l.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(l.config.LedgerBaseUrl)
	if err != nil {
		return nil, fmt.Errorf("error parsing base URL: %v", err)
	}
	base.Path += "/wallets/by-username/" + url.PathEscape(username)

	resp, err := l.MakeRequest(ctx, "GET", base.String(), nil, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrWalletNotFound
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		l.Logger.Error("resp", string(respBody))
		return nil, fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var wallet Wallet
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&wallet)
	if err != nil {
		return nil, fmt.Errorf("error parsing wallet: %w", err)
	}

	return &wallet, nil
}

// CreateWallet looks the username up first so repeated calls for the same user
// are safe. The returned status says which path was taken.
func (l *LedgerProvider) CreateWallet(ctx context.Context, ownerName string, username string, initialBalance decimal.Decimal) (*Wallet, WalletCreationStatus, error) {
	existing, err := l.GetWalletByUsername(ctx, username)
	if err == nil {
		return existing, WalletExisting, nil
	}
	if err != ErrWalletNotFound {
		return nil, "", err
	}

	headers, err := l.authHeaders(ctx)
	if err != nil {
		return nil, "", err
	}

	base, err := url.Parse(l.config.LedgerBaseUrl)
	if err != nil {
		return nil, "", fmt.Errorf("error parsing base URL: %v", err)
	}
	base.Path += "/wallets"

	request := CreateWalletRequest{
		OwnerName:      ownerName,
		Username:       username,
		InitialBalance: initialBalance,
	}

	resp, err := l.MakeRequest(ctx, "POST", base.String(), request, headers)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		l.Logger.Error("resp", string(respBody))
		return nil, "", fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var wallet Wallet
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&wallet)
	if err != nil {
		return nil, "", fmt.Errorf("error parsing wallet: %w", err)
	}

	return &wallet, WalletCreated, nil
}

func (l *LedgerProvider) GetWallet(ctx context.Context, walletID string) (*Wallet, error) {
	headers, err := l.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(l.config.LedgerBaseUrl)
	if err != nil {
		return nil, fmt.Errorf("error parsing base URL: %v", err)
	}
	base.Path += "/wallets/" + url.PathEscape(walletID)

	resp, err := l.MakeRequest(ctx, "GET", base.String(), nil, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrWalletNotFound
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		l.Logger.Error("resp", string(respBody))
		return nil, fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var wallet Wallet
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&wallet)
	if err != nil {
		return nil, fmt.Errorf("error parsing wallet: %w", err)
	}

	return &wallet, nil
}

func (l *LedgerProvider) ListWalletVouchers(ctx context.Context, walletID string, limit int, offset int) ([]Voucher, error) {
	headers, err := l.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(l.config.LedgerBaseUrl)
	if err != nil {
		return nil, fmt.Errorf("error parsing base URL: %v", err)
	}
	base.Path += "/wallets/" + url.PathEscape(walletID) + "/vouchers"

	query := base.Query()
	query.Set("limit", fmt.Sprint(limit))
	query.Set("offset", fmt.Sprint(offset))
	base.RawQuery = query.Encode()

	resp, err := l.MakeRequest(ctx, "GET", base.String(), nil, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrWalletNotFound
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		l.Logger.Error("resp", string(respBody))
		return nil, fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var page voucherPage
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&page)
	if err != nil {
		return nil, fmt.Errorf("error parsing vouchers: %w", err)
	}

	return page.Content, nil
}

// SubmitEarn credits a settled reward against the wallet and returns the
// provider's transaction id.
func (l *LedgerProvider) SubmitEarn(ctx context.Context, request EarnRequest) (string, error) {
	headers, err := l.authHeaders(ctx)
	if err != nil {
		return "", err
	}

	base, err := url.Parse(l.config.LedgerBaseUrl)
	if err != nil {
		return "", fmt.Errorf("error parsing base URL: %v", err)
	}
	base.Path += "/transactions/earn"

	resp, err := l.MakeRequest(ctx, "POST", base.String(), request, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		l.Logger.Error("resp", string(respBody))
		return "", fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var response earnResponse
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&response)
	if err != nil {
		return "", fmt.Errorf("error parsing earn response: %w", err)
	}

	if response.TransactionID == "" {
		return "", fmt.Errorf("provider returned an empty transaction id")
	}

	return response.TransactionID, nil
}
