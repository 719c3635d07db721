package cli

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginUser string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the invoice API and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		user := loginUser
		if user == "" {
			fmt.Print("Username: ")
			if _, err := fmt.Scanln(&user); err != nil {
				return fmt.Errorf("failed to read username: %w", err)
			}
		}

		// INVOICE_PASSWORD keeps scripted use possible; otherwise prompt
		// without echo.
		password := os.Getenv("INVOICE_PASSWORD")
		if password == "" {
			fmt.Print("Password: ")
			raw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(raw)
		}

		resp, err := c.Login(cmd.Context(), user, password)
		if err != nil {
			return err
		}
		// A 2xx response without a token is still a failed login; nothing
		// was persisted.
		if resp.Token == "" {
			if resp.Message != "" {
				return errors.New(resp.Message)
			}
			return errors.New("Login failed")
		}

		fmt.Println("Logged in.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := c.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "user name (prompted when omitted)")
}
