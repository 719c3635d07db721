// Package cli implements the invoicectl command tree.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/client"
	"github.com/toqasaad97/invoice/internal/session"
)

var (
	apiURL      string
	sessionPath string
)

var rootCmd = &cobra.Command{
	Use:           "invoicectl",
	Short:         "Manage business-travel invoices from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	// A missing .env is fine; flags and the environment still apply.
	_ = gotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Error: session invalid, run `invoicectl login` again")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "base URL of the invoice API (default $INVOICE_API_URL or http://localhost:3056/api)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "path of the session token store (default ~/.invoice/session.db)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(duplicateCmd)
	rootCmd.AddCommand(pdfCmd)
	rootCmd.AddCommand(voucherCmd)
	rootCmd.AddCommand(emailCmd)
}

// newClient opens the session store and builds the API client. The returned
// closer flushes the store and must be called before exit.
func newClient() (*client.Client, func(), error) {
	base := apiURL
	if base == "" {
		base = os.Getenv("INVOICE_API_URL")
	}
	if base == "" {
		base = "http://localhost:3056/api"
	}

	path := sessionPath
	if path == "" {
		path = os.Getenv("INVOICE_SESSION_PATH")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".invoice", "session.db")
	}

	store, err := session.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}

	c := client.New(client.Config{
		BaseURL: base,
		Timeout: 30 * time.Second,
	}, store, zap.NewNop())

	return c, func() { store.Close() }, nil
}
