package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kevin07696/cardvault-gateway/internal/domain"
	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
	"github.com/kevin07696/cardvault-gateway/pkg/encoding"
	pkgerrors "github.com/kevin07696/cardvault-gateway/pkg/errors"
	pkghttp "github.com/kevin07696/cardvault-gateway/pkg/http"
	"github.com/kevin07696/cardvault-gateway/pkg/observability"
	"github.com/kevin07696/cardvault-gateway/pkg/resilience"
)

// Version is reported in the User-Agent header
var Version = "dev"

// Config contains configuration for the processor client
type Config struct {
	// BaseURL of the processor API
	// Sandbox: https://api.sandbox.braintreegateway.com
	// Production: https://api.braintreegateway.com
	BaseURL string

	// Credentials
	MerchantID        string
	MerchantAccountID string // sent only when non-blank
	PublicKey         string
	PrivateKey        string

	// HTTP client timeout
	Timeout time.Duration

	// Outbound rate limit shared by all operations
	RequestsPerSecond float64
	Burst             int

	// MaxReadRetries applies to lookups and client tokens only; mutations are never retried
	MaxReadRetries int

	CircuitBreaker CircuitBreakerConfig

	UserAgent string
}

// DefaultConfig returns default configuration for the given environment
func DefaultConfig(environment string) *Config {
	baseURL := "https://api.braintreegateway.com" // Production
	if environment == "sandbox" {
		baseURL = "https://api.sandbox.braintreegateway.com"
	}

	return &Config{
		BaseURL:           baseURL,
		Timeout:           60 * time.Second,
		RequestsPerSecond: 25,
		Burst:             50,
		MaxReadRetries:    2,
		CircuitBreaker:    DefaultCircuitBreakerConfig(),
		UserAgent:         "cardvault-gateway/" + Version,
	}
}

// Client implements ports.ProcessorClient over the processor's JSON API
type Client struct {
	config         *Config
	httpClient     *http.Client
	logger         *zap.Logger
	limiter        *rate.Limiter
	circuitBreaker *CircuitBreaker
	backoff        resilience.BackoffStrategy
}

var _ ports.ProcessorClient = (*Client)(nil)

// NewClient creates a processor client. A nil httpClient uses the pooled processor transport.
func NewClient(config *Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := *config
	if strings.TrimSpace(cfg.MerchantAccountID) == "" {
		cfg.MerchantAccountID = ""
	}
	config = &cfg

	if httpClient == nil {
		httpClient = pkghttp.NewPooledClient(pkghttp.DefaultPoolConfig(), config.Timeout)
	}

	cbConfig := config.CircuitBreaker
	userHook := cbConfig.OnStateChange
	cbConfig.OnStateChange = func(state CircuitState) {
		observability.SetProcessorCircuitState(int(state))
		logger.Warn("Processor circuit breaker changed state", zap.String("state", state.String()))
		if userHook != nil {
			userHook(state)
		}
	}

	return &Client{
		config:         config,
		httpClient:     httpClient,
		logger:         logger,
		limiter:        rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		circuitBreaker: NewCircuitBreaker(cbConfig),
		backoff:        resilience.ProcessorReadBackoff(),
	}
}

// Authorize creates a sale transaction; it settles when opts.SubmitForSettlement is set
func (c *Client) Authorize(ctx context.Context, amountCents int64, opts *ports.TransactionOptions) (*domain.TransactionResult, error) {
	if opts == nil {
		opts = &ports.TransactionOptions{}
	}
	body := newTransactionRequest(amountCents, c.config.MerchantAccountID, opts)
	return c.mutate(ctx, "authorize", http.MethodPost, "/transactions", body)
}

// Capture submits an authorization for settlement
func (c *Client) Capture(ctx context.Context, amountCents int64, referenceCode string) (*domain.TransactionResult, error) {
	path := "/transactions/" + url.PathEscape(referenceCode) + "/submit_for_settlement"
	return c.mutate(ctx, "capture", http.MethodPut, path, &amountRequest{Amount: formatAmount(amountCents)})
}

// Refund refunds the full transaction amount
func (c *Client) Refund(ctx context.Context, referenceCode string) (*domain.TransactionResult, error) {
	path := "/transactions/" + url.PathEscape(referenceCode) + "/refund"
	return c.mutate(ctx, "refund", http.MethodPost, path, &amountRequest{})
}

// PartialRefund refunds part of the transaction amount
func (c *Client) PartialRefund(ctx context.Context, amountCents int64, referenceCode string) (*domain.TransactionResult, error) {
	path := "/transactions/" + url.PathEscape(referenceCode) + "/refund"
	return c.mutate(ctx, "partial_refund", http.MethodPost, path, &amountRequest{Amount: formatAmount(amountCents)})
}

// Void cancels a transaction that has not started settling
func (c *Client) Void(ctx context.Context, referenceCode string) (*domain.TransactionResult, error) {
	path := "/transactions/" + url.PathEscape(referenceCode) + "/void"
	return c.mutate(ctx, "void", http.MethodPut, path, nil)
}

// Store creates a customer and vaults the card
func (c *Client) Store(ctx context.Context, pm *domain.PaymentMethod, opts *ports.StoreOptions) (*domain.TransactionResult, error) {
	if opts == nil {
		opts = &ports.StoreOptions{}
	}
	return c.mutate(ctx, "store", http.MethodPost, "/customers", newCustomerRequest(pm, opts))
}

// Credit pays out to a vaulted card
func (c *Client) Credit(ctx context.Context, amountCents int64, pm *domain.PaymentMethod) (*domain.TransactionResult, error) {
	body := &transactionRequest{
		Type:              "credit",
		Amount:            formatAmount(amountCents),
		MerchantAccountID: c.config.MerchantAccountID,
	}
	if pm.HasVaultToken() {
		body.PaymentMethodToken = *pm.VaultToken
	}
	return c.mutate(ctx, "credit", http.MethodPost, "/transactions", body)
}

// FindTransaction looks up a transaction. A missing transaction returns domain.ErrTxnNotFound.
func (c *Client) FindTransaction(ctx context.Context, referenceCode string) (*domain.RemoteTransaction, error) {
	var record transactionRecord
	path := "/transactions/" + url.PathEscape(referenceCode)
	if err := c.read(ctx, "find_transaction", http.MethodGet, path, nil, &record); err != nil {
		if pkgerrors.CategoryOf(err) == pkgerrors.CategoryNotFound {
			return nil, fmt.Errorf("transaction %s: %w", referenceCode, domain.ErrTxnNotFound)
		}
		return nil, err
	}

	return &domain.RemoteTransaction{
		ID:     record.ID,
		Status: domain.TransactionStatus(record.Status),
		Amount: record.Amount,
	}, nil
}

// GenerateClientToken issues a client SDK token
func (c *Client) GenerateClientToken(ctx context.Context, opts *ports.ClientTokenOptions) (string, error) {
	body := &clientTokenRequest{MerchantAccountID: c.config.MerchantAccountID}
	if opts != nil {
		body.CustomerID = opts.CustomerID
		body.Version = opts.Version
		if opts.MerchantAccountID != "" {
			body.MerchantAccountID = opts.MerchantAccountID
		}
	}

	var resp clientTokenResponse
	if err := c.read(ctx, "client_token", http.MethodPost, "/client_token", body, &resp); err != nil {
		return "", err
	}
	return resp.ClientToken, nil
}

// GenerateNonce exchanges a vault token for a single-use nonce
func (c *Client) GenerateNonce(ctx context.Context, token string) (string, error) {
	var resp nonceResponse
	path := "/payment_methods/" + url.PathEscape(token) + "/nonces"
	if err := c.send(ctx, "nonce", http.MethodPost, path, nil, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		pe := pkgerrors.NewPaymentError("NONCE_REJECTED", "processor rejected the nonce request", pkgerrors.CategoryInvalidRequest, false)
		pe.GatewayMessage = resp.Message
		return "", pe
	}
	return resp.Nonce, nil
}

// Ping checks that the processor answers with the configured credentials
func (c *Client) Ping(ctx context.Context) error {
	return c.send(ctx, "ping", http.MethodGet, "/ping", nil, nil)
}

// mutate sends a state-changing request exactly once and converts the envelope
func (c *Client) mutate(ctx context.Context, endpoint, method, path string, body interface{}) (*domain.TransactionResult, error) {
	var envelope resultEnvelope
	if err := c.send(ctx, endpoint, method, path, body, &envelope); err != nil {
		return nil, err
	}

	result := envelope.toResult()
	if !result.Success() {
		c.logger.Info("Processor declined request",
			zap.String("endpoint", endpoint),
			zap.String("message", result.Message()),
		)
	}
	return result, nil
}

// read sends an idempotent request, retrying retriable failures with backoff
func (c *Client) read(ctx context.Context, endpoint, method, path string, body, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxReadRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff.NextDelay(attempt - 1)
			c.logger.Info("Retrying processor read with exponential backoff",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Duration("backoff_delay", delay),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		lastErr = c.send(ctx, endpoint, method, path, body, out)
		if lastErr == nil || !pkgerrors.IsRetriable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// send performs one request through the limiter and circuit breaker
func (c *Client) send(ctx context.Context, endpoint, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return pkgerrors.NewPaymentError("RATE_LIMITED", "processor rate limit wait aborted", pkgerrors.CategoryUnavailable, false).Wrap(err)
	}

	buf := encoding.GetBuffer()
	defer encoding.PutBuffer(buf)
	if body != nil {
		if err := encoding.EncodeJSONToBuffer(buf, body); err != nil {
			return pkgerrors.NewPaymentError("ENCODE_FAILED", "failed to encode processor request", pkgerrors.CategorySystemError, false).Wrap(err)
		}
	}

	var statusCode int
	err := c.circuitBreaker.Call(func() error {
		var callErr error
		statusCode, callErr = c.do(ctx, endpoint, method, path, buf.Bytes(), out)
		return callErr
	})

	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests) {
		observability.ObserveProcessorRequest(endpoint, 0, 0)
		return pkgerrors.NewPaymentError("CIRCUIT_OPEN", "processor temporarily unavailable", pkgerrors.CategoryUnavailable, false).Wrap(err)
	}

	var rejected *requestRejected
	if errors.As(err, &rejected) {
		return rejected.err
	}
	if err != nil {
		return err
	}

	c.logger.Debug("Processor request completed",
		zap.String("endpoint", endpoint),
		zap.Int("status_code", statusCode),
	)
	return nil
}

// requestRejected carries 4xx errors through the circuit breaker without counting them as failures
type requestRejected struct{ err error }

func (r *requestRejected) Error() string { return r.err.Error() }

// do executes the HTTP exchange. Errors that say nothing about processor health are
// returned inside requestRejected, which the breaker records as success.
func (c *Client) do(ctx context.Context, endpoint, method, path string, payload []byte, out interface{}) (int, error) {
	var bodyReader io.Reader
	if len(payload) > 0 {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.endpointURL(path), bodyReader)
	if err != nil {
		return 0, &requestRejected{err: pkgerrors.NewPaymentError("REQUEST_BUILD_FAILED", "failed to create processor request", pkgerrors.CategorySystemError, false).Wrap(err)}
	}

	requestID := uuid.New().String()
	httpReq.SetBasicAuth(c.config.PublicKey, c.config.PrivateKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	httpReq.Header.Set("X-Request-Id", requestID)
	if bodyReader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.ObserveProcessorRequest(endpoint, 0, time.Since(start))
		c.logger.Error("Failed to send processor request",
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, &requestRejected{err: domain.WrapError(domain.ErrorCodeGatewayTimeout, "processor did not answer before the deadline", err)}
		}
		if ctx.Err() != nil {
			return 0, &requestRejected{err: pkgerrors.NewPaymentError("REQUEST_CANCELLED", "processor request cancelled", pkgerrors.CategoryNetworkError, false).Wrap(err)}
		}
		return 0, pkgerrors.NewPaymentError("NETWORK_ERROR", "processor request failed", pkgerrors.CategoryNetworkError, true).Wrap(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	elapsed := time.Since(start)
	observability.ObserveProcessorRequest(endpoint, httpResp.StatusCode, elapsed)
	if err != nil {
		return httpResp.StatusCode, pkgerrors.NewPaymentError("READ_FAILED", "failed to read processor response", pkgerrors.CategoryNetworkError, true).Wrap(err)
	}

	c.logger.Info("Received processor response",
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID),
		zap.Int("status_code", httpResp.StatusCode),
		zap.Duration("elapsed", elapsed),
		zap.Int("body_length", len(respBody)),
	)

	if err := classifyStatus(httpResp.StatusCode, respBody); err != nil {
		if httpResp.StatusCode >= 500 || httpResp.StatusCode == http.StatusTooManyRequests {
			return httpResp.StatusCode, err
		}
		return httpResp.StatusCode, &requestRejected{err: err}
	}

	if out == nil || len(respBody) == 0 {
		return httpResp.StatusCode, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return httpResp.StatusCode, pkgerrors.NewPaymentError("DECODE_FAILED", "malformed processor response", pkgerrors.CategorySystemError, false).Wrap(err)
	}
	return httpResp.StatusCode, nil
}

// classifyStatus maps non-success HTTP statuses to payment errors.
// 422 carries a decline envelope and is treated as a normal response.
func classifyStatus(statusCode int, body []byte) error {
	switch {
	case statusCode >= 200 && statusCode < 300, statusCode == http.StatusUnprocessableEntity:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return pkgerrors.NewPaymentError("AUTHENTICATION_FAILED", "processor rejected the merchant credentials", pkgerrors.CategoryAuthentication, false)
	case statusCode == http.StatusNotFound:
		return pkgerrors.NewPaymentError("NOT_FOUND", "processor resource not found", pkgerrors.CategoryNotFound, false)
	case statusCode == http.StatusTooManyRequests:
		return pkgerrors.NewPaymentError("PROCESSOR_THROTTLED", "processor throttled the request", pkgerrors.CategoryUnavailable, true)
	case statusCode >= 500:
		pe := pkgerrors.NewPaymentError("PROCESSOR_ERROR", fmt.Sprintf("processor returned HTTP %d", statusCode), pkgerrors.CategorySystemError, true)
		pe.GatewayMessage = gatewayMessage(body)
		return pe
	default:
		pe := pkgerrors.NewPaymentError("INVALID_REQUEST", fmt.Sprintf("processor returned HTTP %d", statusCode), pkgerrors.CategoryInvalidRequest, false)
		pe.GatewayMessage = gatewayMessage(body)
		return pe
	}
}

func gatewayMessage(body []byte) string {
	var envelope resultEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.failureMessage()
}

func (c *Client) endpointURL(path string) string {
	return c.config.BaseURL + "/merchants/" + url.PathEscape(c.config.MerchantID) + path
}
