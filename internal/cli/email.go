package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/client"
	"github.com/toqasaad97/invoice/internal/email"
)

var (
	emailSubject string
	emailBody    string
	emailCC      []string
	emailDraft   bool
)

var emailCmd = &cobra.Command{
	Use:   "email <id>",
	Short: "Send an invoice to its recipients by email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		subject, body := emailSubject, emailBody

		if emailDraft {
			apiKey := os.Getenv("OPENAI_API_KEY")
			if apiKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is required with --draft")
			}

			inv, err := c.GetInvoice(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			drafter := email.NewDrafter(apiKey, "gpt-4o-mini", 0.3, zap.NewNop())
			draft, err := drafter.Compose(cmd.Context(), inv)
			if err != nil {
				return fmt.Errorf("failed to draft email: %w", err)
			}
			if subject == "" {
				subject = draft.Subject
			}
			if body == "" {
				body = draft.Body
			}
		}

		if subject == "" || body == "" {
			return fmt.Errorf("--subject and --message are required (or use --draft)")
		}

		result, err := c.SendInvoiceEmail(cmd.Context(), args[0], client.EmailRequest{
			Subject:  subject,
			Message:  body,
			CCEmails: emailCC,
		})
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	emailCmd.Flags().StringVarP(&emailSubject, "subject", "s", "", "email subject")
	emailCmd.Flags().StringVarP(&emailBody, "message", "m", "", "email body")
	emailCmd.Flags().StringSliceVar(&emailCC, "cc", nil, "additional CC recipients")
	emailCmd.Flags().BoolVar(&emailDraft, "draft", false, "draft subject and body with the OpenAI helper")
}
