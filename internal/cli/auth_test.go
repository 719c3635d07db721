package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toqasaad97/invoice/internal/session"
)

// setCLIFlags points the package-level flag vars at a test server and a
// throwaway session file, restoring them afterwards.
func setCLIFlags(t *testing.T, url string) string {
	t.Helper()
	sessFile := filepath.Join(t.TempDir(), "session.db")
	apiURL = url
	sessionPath = sessFile
	t.Cleanup(func() {
		apiURL = ""
		sessionPath = ""
		loginUser = ""
	})
	return sessFile
}

func readStoredToken(t *testing.T, path string) string {
	t.Helper()
	store, err := session.Open(path)
	require.NoError(t, err)
	defer store.Close()
	return store.Token()
}

func TestLoginCommand(t *testing.T) {
	t.Run("token-less success response fails and persists nothing", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":"Invalid username or password"}`))
		}))
		defer ts.Close()

		sessFile := setCLIFlags(t, ts.URL)
		loginUser = "admin"
		t.Setenv("INVOICE_PASSWORD", "secret")
		loginCmd.SetContext(context.Background())

		err := loginCmd.RunE(loginCmd, nil)
		require.Error(t, err)
		assert.EqualError(t, err, "Invalid username or password")
		assert.Empty(t, readStoredToken(t, sessFile))
	})

	t.Run("issued token is persisted", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token":"tok-1"}`))
		}))
		defer ts.Close()

		sessFile := setCLIFlags(t, ts.URL)
		loginUser = "admin"
		t.Setenv("INVOICE_PASSWORD", "secret")
		loginCmd.SetContext(context.Background())

		require.NoError(t, loginCmd.RunE(loginCmd, nil))
		assert.Equal(t, "tok-1", readStoredToken(t, sessFile))
	})
}
