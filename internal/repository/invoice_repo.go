package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// InvoiceRepository handles invoice database operations. The full record is
// stored as one JSON document; the indexed columns exist for lookups only.
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new invoice record. CreatedAt/UpdatedAt are stamped here.
func (r *InvoiceRepository) Create(inv *model.Invoice) error {
	now := time.Now().UTC().Format(time.RFC3339)
	inv.CreatedAt = now
	inv.UpdatedAt = now

	document, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to encode invoice: %w", err)
	}

	query := `
		INSERT INTO invoices (id, invoice_number, reference_number, customer, currency, document)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		inv.ID,
		inv.InvoiceNumber,
		inv.ReferenceNumber,
		inv.Customer,
		inv.Currency,
		string(document),
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// Update replaces the stored document for an existing invoice.
func (r *InvoiceRepository) Update(inv *model.Invoice) error {
	inv.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	document, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to encode invoice: %w", err)
	}

	query := `
		UPDATE invoices
		SET invoice_number = ?, reference_number = ?, customer = ?, currency = ?,
			document = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.db.Exec(query,
		inv.InvoiceNumber,
		inv.ReferenceNumber,
		inv.Customer,
		inv.Currency,
		string(document),
		inv.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update invoice", zap.String("id", inv.ID), zap.Error(err))
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves an invoice by its identifier.
func (r *InvoiceRepository) GetByID(id string) (*model.Invoice, error) {
	return r.getOne("SELECT document FROM invoices WHERE id = ?", id)
}

// GetByInvoiceNumber retrieves an invoice by its invoice number.
func (r *InvoiceRepository) GetByInvoiceNumber(number string) (*model.Invoice, error) {
	// created_at has second resolution; rowid breaks ties insertion-last.
	return r.getOne("SELECT document FROM invoices WHERE invoice_number = ? ORDER BY created_at DESC, rowid DESC LIMIT 1", number)
}

func (r *InvoiceRepository) getOne(query, arg string) (*model.Invoice, error) {
	var document string
	err := r.db.QueryRow(query, arg).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	var inv model.Invoice
	if err := json.Unmarshal([]byte(document), &inv); err != nil {
		return nil, fmt.Errorf("failed to decode invoice document: %w", err)
	}
	return &inv, nil
}

// List returns all invoices, newest first.
func (r *InvoiceRepository) List() ([]*model.Invoice, error) {
	rows, err := r.db.Query("SELECT document FROM invoices ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*model.Invoice
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}

		var inv model.Invoice
		if err := json.Unmarshal([]byte(document), &inv); err != nil {
			return nil, fmt.Errorf("failed to decode invoice document: %w", err)
		}
		invoices = append(invoices, &inv)
	}

	return invoices, rows.Err()
}
