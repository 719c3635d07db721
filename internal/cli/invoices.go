package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/toqasaad97/invoice/internal/client"
	"github.com/toqasaad97/invoice/internal/form"
	"github.com/toqasaad97/invoice/internal/model"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		items, err := c.ListInvoices(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tINVOICE\tREFERENCE\tTOTAL")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f %s\n",
				item.ID, item.InvoiceNumber, item.ReferenceNumber, item.TotalAmount, item.Currency)
		}
		return w.Flush()
	},
}

var showClientView bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one invoice as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		var inv *model.Invoice
		if showClientView {
			inv, err = c.GetClientInvoice(cmd.Context(), args[0])
		} else {
			inv, err = c.GetInvoice(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}

		return printJSON(inv)
	},
}

var createFile string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := readInvoiceFile(createFile)
		if err != nil {
			return err
		}

		c, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		created, err := c.CreateInvoice(cmd.Context(), inv)
		if err != nil {
			return err
		}

		fmt.Printf("Created invoice %s (%s)\n", created.InvoiceNumber, created.ID)
		return nil
	},
}

var editFile string

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace an invoice with the contents of a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := readInvoiceFile(editFile)
		if err != nil {
			return err
		}

		c, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		updated, err := c.EditInvoice(cmd.Context(), args[0], inv)
		if err != nil {
			return err
		}

		fmt.Printf("Updated invoice %s (%s)\n", updated.InvoiceNumber, updated.ID)
		return nil
	},
}

var (
	dupNewNumber string
	dupReference string
)

var duplicateCmd = &cobra.Command{
	Use:   "duplicate <old-invoice-number>",
	Short: "Copy an invoice under a new number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		dup, err := c.DuplicateInvoice(cmd.Context(), clientDuplicateRequest(args[0]))
		if err != nil {
			return err
		}

		fmt.Printf("Duplicated %s as %s (%s)\n", args[0], dup.InvoiceNumber, dup.ID)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showClientView, "client", false, "use the read-only client view")

	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "JSON file holding the invoice (required)")
	createCmd.MarkFlagRequired("file")

	editCmd.Flags().StringVarP(&editFile, "file", "f", "", "JSON file holding the invoice (required)")
	editCmd.MarkFlagRequired("file")

	duplicateCmd.Flags().StringVarP(&dupNewNumber, "number", "n", "", "invoice number for the copy (required)")
	duplicateCmd.Flags().StringVarP(&dupReference, "reference", "r", "", "reference number for the copy")
	duplicateCmd.MarkFlagRequired("number")
}

func clientDuplicateRequest(oldNumber string) client.DuplicateRequest {
	return client.DuplicateRequest{
		InvoiceNumber:    dupNewNumber,
		ReferenceNumber:  dupReference,
		OldInvoiceNumber: oldNumber,
	}
}

// readInvoiceFile loads and locally validates an invoice payload, so obvious
// mistakes fail before the request leaves the machine.
func readInvoiceFile(path string) (*model.Invoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice file: %w", err)
	}

	inv := model.DefaultInvoice()
	if err := json.Unmarshal(data, inv); err != nil {
		return nil, fmt.Errorf("failed to parse invoice file: %w", err)
	}

	// Nights derive from the stay window before validation and row padding.
	inv.TotalNights = form.TotalNights(inv.CheckInDate, inv.CheckOutDate)

	if errs := form.Validate(inv, time.Now().UTC()); len(errs) > 0 {
		for _, fe := range errs {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
		}
		return nil, fmt.Errorf("invoice failed validation")
	}

	// Derive totals locally so the payload already carries them.
	form.Reconcile(inv, inv.TotalRooms)
	form.Refresh(inv)

	return inv, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
