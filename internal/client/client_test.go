package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *MemoryTokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := &MemoryTokenStore{}
	logger := zap.NewNop()
	return New(Config{BaseURL: srv.URL}, tokens, logger), tokens
}

func TestLogin(t *testing.T) {
	t.Run("persists token on success", func(t *testing.T) {
		c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/invoicesLogin", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token":"tok-abc"}`))
		}))

		resp, err := c.Login(context.Background(), "admin", "secret")

		require.NoError(t, err)
		assert.Equal(t, "tok-abc", resp.Token)
		assert.Equal(t, "tok-abc", tokens.Token())
		assert.True(t, c.Authenticated())
	})

	t.Run("token-less response is surfaced, nothing persisted", func(t *testing.T) {
		c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":"account locked"}`))
		}))

		resp, err := c.Login(context.Background(), "admin", "secret")

		require.NoError(t, err)
		assert.Empty(t, resp.Token)
		assert.Equal(t, "account locked", resp.Message)
		assert.Empty(t, tokens.Token())
	})

	t.Run("bad credentials embed status and body", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"invalid credentials"}`))
		}))

		_, err := c.Login(context.Background(), "admin", "wrong")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
		assert.Contains(t, err.Error(), "invalid credentials")
	})
}

func TestBearerHeader(t *testing.T) {
	var gotAuth string
	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))

	require.NoError(t, tokens.Save("tok-xyz"))
	_, err := c.ListInvoices(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-xyz", gotAuth)
}

func TestUnauthorizedClearsToken(t *testing.T) {
	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("token expired"))
	}))
	require.NoError(t, tokens.Save("stale"))

	_, err := c.ListInvoices(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, tokens.Token(), "401 invalidates the whole session")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "token expired", apiErr.Body)
}

func TestListInvoices_Envelopes(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"_id":"1","invoiceNumber":"INV-1","email":["a@b.co"]}]`))
		}))

		items, err := c.ListInvoices(context.Background())

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "INV-1", items[0].InvoiceNumber)
	})

	t.Run("data envelope", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":[{"_id":"1"},{"_id":"2"}]}`))
		}))

		items, err := c.ListInvoices(context.Background())

		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

func TestGetInvoice(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/displayForm/abc123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"_id":"abc123","invoiceNumber":"INV-9","table":[{"nights":2,"average":150}]}}`))
	}))

	inv, err := c.GetInvoice(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, "abc123", inv.ID)
	assert.Equal(t, "INV-9", inv.InvoiceNumber)
	require.Len(t, inv.Table, 1)
	assert.Equal(t, 2, inv.Table[0].Nights)
}

func TestGenerateInvoicePDF_Binary(t *testing.T) {
	raw := []byte("%PDF-1.7 fake binary content")
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generateFormPdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(raw)
	}))

	inv := model.DefaultInvoice()
	inv.Table = nil

	data, err := c.GenerateInvoicePDF(context.Background(), inv)

	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Nil(t, inv.Table, "caller's invoice is not modified")
}

func TestDuplicateInvoice_LocalGuard(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call expected for incomplete duplicate request")
	}))

	_, err := c.DuplicateInvoice(context.Background(), DuplicateRequest{ReferenceNumber: "R-1"})

	assert.ErrorIs(t, err, ErrMissingInvoiceNumber)
}

func TestServerError_EmbedsStatusAndBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))

	_, err := c.ListInvoices(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestSendInvoiceEmail(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sendInvoiceEmail/abc123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"sent"}`))
	}))

	result, err := c.SendInvoiceEmail(context.Background(), "abc123", EmailRequest{
		Subject: "Your invoice",
		Message: "Please find attached.",
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "sent", result.Message)
}
