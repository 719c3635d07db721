// Package client is the REST client for the invoice API. It is constructed
// once with an explicit token store and threaded through call sites; there is
// no package-level singleton.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/model"
)

// TokenStore holds the bearer token between requests. session.Store is the
// persistent implementation; MemoryTokenStore serves tests.
type TokenStore interface {
	Token() string
	Save(token string) error
	Clear() error
}

// MemoryTokenStore keeps the token in memory only.
type MemoryTokenStore struct {
	token string
}

func (m *MemoryTokenStore) Token() string           { return m.token }
func (m *MemoryTokenStore) Save(token string) error { m.token = token; return nil }
func (m *MemoryTokenStore) Clear() error            { m.token = ""; return nil }

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the invoice API with bearer-token auth.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	logger     *zap.Logger
}

// New creates a new API client.
func New(cfg Config, tokens TokenStore, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}
}

// LoginRequest is the credential payload for the login endpoint.
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token, or a message when login failed.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// DuplicateRequest identifies the invoice to copy and the numbers for the
// copy.
type DuplicateRequest struct {
	InvoiceNumber    string `json:"invoiceNumber"`
	ReferenceNumber  string `json:"referenceNumber"`
	OldInvoiceNumber string `json:"oldInvoiceNumber"`
}

// VoucherRequest is the payload for voucher generation.
type VoucherRequest struct {
	Details    string  `json:"details"`
	ValidUntil string  `json:"validUntil"`
	Amount     float64 `json:"amount"`
}

// EmailRequest is the payload for sending an invoice email.
type EmailRequest struct {
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
	CCEmails []string `json:"ccEmails,omitempty"`
}

// EmailResult is the send-email response.
type EmailResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Authenticated reports whether a token is currently stored.
func (c *Client) Authenticated() bool {
	return c.tokens.Token() != ""
}

// Logout discards the stored session token.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// Login exchanges credentials for a bearer token. The token is persisted only
// when the response actually contains one; a token-less 2xx response is
// returned as-is so the caller can surface its message instead of navigating
// on.
func (c *Client) Login(ctx context.Context, userName, password string) (*LoginResponse, error) {
	body, err := c.postJSON(ctx, "/invoicesLogin", LoginRequest{UserName: userName, Password: password})
	if err != nil {
		return nil, err
	}

	var result LoginResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	if result.Token != "" {
		if err := c.tokens.Save(result.Token); err != nil {
			return nil, fmt.Errorf("failed to persist token: %w", err)
		}
		c.logger.Info("Logged in", zap.String("user", userName))
	}

	return &result, nil
}

// ListInvoices fetches the invoice summaries. The endpoint is loose about its
// envelope, so both a bare array and {"data": [...]} are accepted.
func (c *Client) ListInvoices(ctx context.Context) ([]model.ListItem, error) {
	body, err := c.getJSON(ctx, "/listForms")
	if err != nil {
		return nil, err
	}
	return decodeList(body)
}

// GetInvoice fetches the full record for the editor view.
func (c *Client) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	body, err := c.getJSON(ctx, "/displayForm/"+id)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

// GetClientInvoice fetches the full record over the read-only viewer path.
func (c *Client) GetClientInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	body, err := c.getJSON(ctx, "/clientInvoice/"+id)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

// CreateInvoice submits a new invoice and returns the stored record.
func (c *Client) CreateInvoice(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	body, err := c.postJSON(ctx, "/addForm", inv)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

// EditInvoice updates an existing invoice and returns the stored record.
func (c *Client) EditInvoice(ctx context.Context, id string, inv *model.Invoice) (*model.Invoice, error) {
	body, err := c.sendJSON(ctx, http.MethodPut, "/editForm/"+id, inv)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

// DuplicateInvoice copies an existing invoice under new numbers. Requests
// without the source or target invoice number are rejected locally.
func (c *Client) DuplicateInvoice(ctx context.Context, req DuplicateRequest) (*model.Invoice, error) {
	if req.InvoiceNumber == "" || req.OldInvoiceNumber == "" {
		return nil, ErrMissingInvoiceNumber
	}

	body, err := c.postJSON(ctx, "/duplicateForm", req)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

// GenerateInvoicePDF renders the given invoice payload into a printable
// document and returns the raw bytes.
func (c *Client) GenerateInvoicePDF(ctx context.Context, inv *model.Invoice) ([]byte, error) {
	// Normalize a nil table on a copy; the caller's invoice stays untouched.
	payload := *inv
	if payload.Table == nil {
		payload.Table = []model.Room{}
	}
	return c.postBinary(ctx, "/generateFormPdf", &payload)
}

// GenerateVoucher renders a voucher for a stored invoice and returns the raw
// bytes.
func (c *Client) GenerateVoucher(ctx context.Context, id string, req VoucherRequest) ([]byte, error) {
	return c.postBinary(ctx, "/generateVoucher/"+id, req)
}

// SendInvoiceEmail emails a stored invoice to its recipients.
func (c *Client) SendInvoiceEmail(ctx context.Context, id string, req EmailRequest) (*EmailResult, error) {
	body, err := c.postJSON(ctx, "/sendInvoiceEmail/"+id, req)
	if err != nil {
		return nil, err
	}

	var result EmailResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode email response: %w", err)
	}
	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, path string) ([]byte, error) {
	return c.sendJSON(ctx, http.MethodGet, path, nil)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.sendJSON(ctx, http.MethodPost, path, payload)
}

// sendJSON performs a request and requires a JSON response body.
func (c *Client) sendJSON(ctx context.Context, method, path string, payload any) ([]byte, error) {
	body, isJSON, err := c.do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	if !isJSON {
		return nil, fmt.Errorf("unexpected non-JSON response from %s", path)
	}
	return body, nil
}

// postBinary performs a request and returns the body uninterpreted.
func (c *Client) postBinary(ctx context.Context, path string, payload any) ([]byte, error) {
	body, _, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// do performs one HTTP round trip. Non-2xx responses become an *APIError
// carrying the status and body text; 401 additionally clears the stored token
// so every caller sees a uniformly invalidated session.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, bool, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, false, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			if clearErr := c.tokens.Clear(); clearErr != nil {
				c.logger.Warn("Failed to clear stored token", zap.Error(clearErr))
			}
		}
		c.logger.Warn("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, false, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")
	return body, isJSON, nil
}

// decodeList accepts both response envelopes the list endpoint is known to
// produce.
func decodeList(body []byte) ([]model.ListItem, error) {
	var items []model.ListItem
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var envelope struct {
		Data []model.ListItem `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode invoice list: %w", err)
	}
	return envelope.Data, nil
}

// decodeRecord unwraps a {"data": {...}} envelope, falling back to a bare
// record.
func decodeRecord(body []byte) (*model.Invoice, error) {
	var envelope struct {
		Data *model.Invoice `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}

	var inv model.Invoice
	if err := json.Unmarshal(body, &inv); err != nil {
		return nil, fmt.Errorf("failed to decode invoice: %w", err)
	}
	return &inv, nil
}
