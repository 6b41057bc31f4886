package services

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trackit/internal/core"
)

// ImportResult reports the outcome of one CSV import. Every input row
// lands in exactly one bucket: imported, skipped (duplicate), or errored.
type ImportResult struct {
	Imported       int
	Skipped        int
	SkippedDetails []SkippedRow
	Errors         []string
}

// SkippedRow records one skipped duplicate with the row's content, so the
// user can judge whether the skip was right.
type SkippedRow struct {
	RowNum      int
	Reason      string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

// Importer runs the CSV import pipeline: format lookup, structural
// validation, header matching, then independent per-row processing.
type Importer struct {
	store   Store
	formats *FormatService
}

func NewImporter(store Store, formats *FormatService) *Importer {
	return &Importer{store: store, formats: formats}
}

// Import reads the CSV file at path using the named format. Row-level
// failures never abort the import; they are accumulated in the result.
func (im *Importer) Import(ctx context.Context, path, formatName string) (*ImportResult, error) {
	format, err := im.formats.GetByName(ctx, formatName)
	if err != nil {
		return nil, err
	}
	mappings, err := im.store.ListColumnMappings(ctx, format.ID)
	if err != nil {
		return nil, fmt.Errorf("load column mappings: %w", err)
	}
	if err := ValidateFormat(format, mappings); err != nil {
		return nil, err
	}
	// The owning account could have been deleted since the format was
	// defined. That is a per-row condition, not an upfront abort: rows
	// still parse and report, they just cannot be inserted.
	account, err := im.store.GetAccount(ctx, format.AccountID)
	if err != nil && !core.IsNotFound(err) {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer f.Close()

	result, err := im.importFrom(ctx, f, format, mappings, account)
	if err != nil {
		return nil, err
	}
	accountName := ""
	if account != nil {
		accountName = account.Name
	}
	slog.InfoContext(ctx, "CSV import finished",
		"file", path, "format", format.Name, "account", accountName,
		"imported", result.Imported, "skipped", result.Skipped, "errors", len(result.Errors))
	return result, nil
}

func (im *Importer) importFrom(ctx context.Context, r io.Reader, format *core.CSVFormat, mappings []core.CSVColumnMapping, account *core.Account) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read CSV data: %w", err)
	}
	data = stripBOM(data)

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, core.NewValidationError("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	// Every mapped CSV column must be present before any row is touched.
	columnIndex := make(map[string]int, len(header))
	for i, name := range header {
		columnIndex[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, m := range mappings {
		if _, ok := columnIndex[m.CSVColumnName]; !ok {
			missing = append(missing, m.CSVColumnName)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewValidationError(
			"CSV file is missing mapped column(s): %s", strings.Join(missing, ", "))
	}

	fieldColumn := make(map[string]int, len(mappings))
	for _, m := range mappings {
		fieldColumn[m.DBFieldName] = columnIndex[m.CSVColumnName]
	}

	result := &ImportResult{}
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if isBlankRecord(record) {
			continue
		}

		t, err := buildTransaction(record, format, fieldColumn, format.AccountID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if account == nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: account %d no longer exists", rowNum, format.AccountID))
			continue
		}

		if _, err := im.store.InsertTransaction(ctx, *t); err != nil {
			var conflict *core.ConflictError
			if errors.As(err, &conflict) {
				result.Skipped++
				result.SkippedDetails = append(result.SkippedDetails, SkippedRow{
					RowNum:      rowNum,
					Reason:      fmt.Sprintf("duplicate transaction (unique_id '%s')", t.UniqueID),
					Date:        t.Date,
					Description: t.Description,
					Amount:      t.Amount,
				})
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// buildTransaction converts one CSV record into an uncategorized
// transaction, applying the format's amount mode and unique_id policy.
func buildTransaction(record []string, format *core.CSVFormat, fieldColumn map[string]int, accountID int64) (*core.Transaction, error) {
	field := func(name string) (string, bool) {
		idx, ok := fieldColumn[name]
		if !ok || idx >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[idx]), true
	}

	dateStr, _ := field(core.FieldDate)
	if dateStr == "" {
		return nil, core.NewValidationError("Missing date")
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	amount, err := recordAmount(record, format, field)
	if err != nil {
		return nil, err
	}

	description, _ := field(core.FieldDescription)
	reference, _ := field(core.FieldReferenceNumber)

	uniqueID, mapped := field(core.FieldUniqueID)
	if mapped {
		if uniqueID == "" {
			return nil, core.NewValidationError("Missing unique_id")
		}
	} else {
		if description == "" {
			return nil, core.NewValidationError(
				"Missing description (required when unique_id is not provided)")
		}
		uniqueID = deriveUniqueID(date, description, amount)
	}

	return &core.Transaction{
		UniqueID:        uniqueID,
		AccountID:       accountID,
		Date:            date,
		Amount:          amount,
		Description:     description,
		ReferenceNumber: reference,
	}, nil
}

// recordAmount resolves the signed amount for a row under either the
// single-amount or the debit/credit layout.
func recordAmount(record []string, format *core.CSVFormat, field func(string) (string, bool)) (decimal.Decimal, error) {
	if !format.IsDebitCreditFormat {
		s, _ := field(core.FieldAmount)
		if s == "" {
			return decimal.Zero, core.NewValidationError("Missing amount")
		}
		return core.ParseAmount(s)
	}

	debit, _ := field(core.FieldDebit)
	credit, _ := field(core.FieldCredit)
	switch {
	case debit == "" && credit == "":
		return decimal.Zero, core.NewValidationError(
			"Missing both debit and credit values (exactly one required)")
	case debit != "" && credit != "":
		return decimal.Zero, core.NewValidationError(
			"Both debit and credit have values (exactly one required)")
	case debit != "":
		amount, err := core.ParseAmount(debit)
		if err != nil {
			return decimal.Zero, err
		}
		if format.NegateDebit {
			amount = amount.Neg()
		}
		return amount, nil
	default:
		amount, err := core.ParseAmount(credit)
		if err != nil {
			return decimal.Zero, err
		}
		if format.NegateCredit {
			amount = amount.Neg()
		}
		return amount, nil
	}
}

// deriveUniqueID builds a deterministic id from the row content so
// re-importing the same file skips rows instead of duplicating them.
func deriveUniqueID(date time.Time, description string, amount decimal.Decimal) string {
	key := date.Format(core.DateLayout) + "|" + description + "|" + amount.String()
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// sniffDelimiter inspects the first line and picks semicolon when it
// outnumbers commas, the comma otherwise.
func sniffDelimiter(data []byte) rune {
	line := string(data)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
