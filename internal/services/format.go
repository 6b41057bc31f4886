package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"trackit/internal/core"
)

// FormatService manages CSV format definitions and their column mappings.
type FormatService struct {
	store    Store
	accounts *AccountService
}

func NewFormatService(store Store, accounts *AccountService) *FormatService {
	return &FormatService{store: store, accounts: accounts}
}

// Create registers a format for an account. Format names are globally
// unique so imports can name a format without naming the account.
func (s *FormatService) Create(ctx context.Context, accountRef string, f NewCSVFormat) (*core.CSVFormat, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return nil, core.NewValidationError("format name cannot be empty")
	}
	account, err := s.accounts.Resolve(ctx, accountRef)
	if err != nil {
		return nil, err
	}
	f.AccountID = account.ID

	if existing, err := s.store.GetFormatByName(ctx, f.Name); err == nil && existing != nil {
		return nil, core.NewConflictError("CSV format '%s' already exists", f.Name)
	} else if err != nil && !core.IsNotFound(err) {
		return nil, fmt.Errorf("check format name: %w", err)
	}

	for i := range f.Mappings {
		m := &f.Mappings[i]
		m.CSVColumnName = strings.TrimSpace(m.CSVColumnName)
		m.DBFieldName = strings.TrimSpace(m.DBFieldName)
		if m.CSVColumnName == "" {
			return nil, core.NewValidationError("mapping %d: CSV column name cannot be empty", i+1)
		}
		if !core.IsValidFieldName(m.DBFieldName) {
			return nil, core.NewValidationError(
				"mapping %d: unknown field '%s' (valid: %s)",
				i+1, m.DBFieldName, strings.Join(core.FieldNames(), ", "))
		}
	}

	format, err := s.store.CreateFormat(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("create format: %w", err)
	}
	slog.InfoContext(ctx, "CSV format created",
		"id", format.ID, "name", format.Name, "account", account.Name,
		"debit_credit", format.IsDebitCreditFormat)
	return format, nil
}

// Get fetches a format by id.
func (s *FormatService) Get(ctx context.Context, id int64) (*core.CSVFormat, error) {
	return s.store.GetFormat(ctx, id)
}

// GetByName fetches a format by its unique name.
func (s *FormatService) GetByName(ctx context.Context, name string) (*core.CSVFormat, error) {
	return s.store.GetFormatByName(ctx, strings.TrimSpace(name))
}

// List returns every format ordered by name.
func (s *FormatService) List(ctx context.Context) ([]core.CSVFormat, error) {
	return s.store.ListFormats(ctx)
}

// Update rewrites a format's flags and name.
func (s *FormatService) Update(ctx context.Context, f core.CSVFormat) error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return core.NewValidationError("format name cannot be empty")
	}
	if _, err := s.store.GetFormat(ctx, f.ID); err != nil {
		return err
	}
	if other, err := s.store.GetFormatByName(ctx, f.Name); err == nil && other != nil && other.ID != f.ID {
		return core.NewConflictError("CSV format '%s' already exists", f.Name)
	} else if err != nil && !core.IsNotFound(err) {
		return fmt.Errorf("check format name: %w", err)
	}
	if err := s.store.UpdateFormat(ctx, f); err != nil {
		return fmt.Errorf("update format: %w", err)
	}
	slog.InfoContext(ctx, "CSV format updated", "id", f.ID, "name", f.Name)
	return nil
}

// Delete removes a format and its mappings.
func (s *FormatService) Delete(ctx context.Context, id int64) error {
	format, err := s.store.GetFormat(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteFormat(ctx, id); err != nil {
		return fmt.Errorf("delete format: %w", err)
	}
	slog.InfoContext(ctx, "CSV format deleted", "id", id, "name", format.Name)
	return nil
}

// AddMapping binds a CSV header column to a canonical transaction field.
func (s *FormatService) AddMapping(ctx context.Context, formatID int64, csvColumn, field string, required bool) (*core.CSVColumnMapping, error) {
	csvColumn = strings.TrimSpace(csvColumn)
	field = strings.TrimSpace(field)
	if csvColumn == "" {
		return nil, core.NewValidationError("CSV column name cannot be empty")
	}
	if !core.IsValidFieldName(field) {
		return nil, core.NewValidationError(
			"unknown field '%s' (valid: %s)", field, strings.Join(core.FieldNames(), ", "))
	}
	if _, err := s.store.GetFormat(ctx, formatID); err != nil {
		return nil, err
	}
	m := core.CSVColumnMapping{
		FormatID:      formatID,
		CSVColumnName: csvColumn,
		DBFieldName:   field,
		IsRequired:    required,
	}
	id, err := s.store.AddColumnMapping(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("add column mapping: %w", err)
	}
	m.ID = id
	return &m, nil
}

// Mappings lists a format's column mappings in creation order.
func (s *FormatService) Mappings(ctx context.Context, formatID int64) ([]core.CSVColumnMapping, error) {
	if _, err := s.store.GetFormat(ctx, formatID); err != nil {
		return nil, err
	}
	return s.store.ListColumnMappings(ctx, formatID)
}

// ValidateFormat checks that a format's mappings can produce transactions:
// a date column plus either an amount column or both debit and credit
// columns, matching the format's debit/credit flag.
func ValidateFormat(format *core.CSVFormat, mappings []core.CSVColumnMapping) error {
	mapped := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		mapped[m.DBFieldName] = true
	}
	if !mapped[core.FieldDate] {
		return core.NewValidationError("format '%s' has no date column mapping", format.Name)
	}
	if format.IsDebitCreditFormat {
		if !mapped[core.FieldDebit] || !mapped[core.FieldCredit] {
			return core.NewValidationError(
				"format '%s' is a debit/credit format but lacks debit and credit column mappings", format.Name)
		}
		return nil
	}
	if !mapped[core.FieldAmount] {
		return core.NewValidationError("format '%s' has no amount column mapping", format.Name)
	}
	return nil
}
