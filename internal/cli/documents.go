package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toqasaad97/invoice/internal/client"
)

var pdfOut string

var pdfCmd = &cobra.Command{
	Use:   "pdf <id>",
	Short: "Download the rendered invoice document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		inv, err := c.GetInvoice(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		data, err := c.GenerateInvoicePDF(cmd.Context(), inv)
		if err != nil {
			return err
		}

		out := pdfOut
		if out == "" {
			out = fmt.Sprintf("invoice-%s.xlsx", inv.InvoiceNumber)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}

		fmt.Printf("Wrote %s (%d bytes)\n", out, len(data))
		return nil
	},
}

var (
	voucherOut        string
	voucherDetails    string
	voucherValidUntil string
	voucherAmount     float64
)

var voucherCmd = &cobra.Command{
	Use:   "voucher <id>",
	Short: "Download a voucher for an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		data, err := c.GenerateVoucher(cmd.Context(), args[0], client.VoucherRequest{
			Details:    voucherDetails,
			ValidUntil: voucherValidUntil,
			Amount:     voucherAmount,
		})
		if err != nil {
			return err
		}

		out := voucherOut
		if out == "" {
			out = fmt.Sprintf("voucher-%s.xlsx", args[0])
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write voucher: %w", err)
		}

		fmt.Printf("Wrote %s (%d bytes)\n", out, len(data))
		return nil
	},
}

func init() {
	pdfCmd.Flags().StringVarP(&pdfOut, "out", "o", "", "output path (default invoice-<number>.xlsx)")

	voucherCmd.Flags().StringVarP(&voucherOut, "out", "o", "", "output path (default voucher-<id>.xlsx)")
	voucherCmd.Flags().StringVar(&voucherDetails, "details", "", "voucher details line")
	voucherCmd.Flags().StringVar(&voucherValidUntil, "valid-until", "", "expiry date, YYYY-MM-DD")
	voucherCmd.Flags().Float64Var(&voucherAmount, "amount", 0, "voucher amount")
}
