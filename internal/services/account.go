package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"trackit/internal/core"
)

// AccountService manages bank accounts.
type AccountService struct {
	store Store
}

func NewAccountService(store Store) *AccountService {
	return &AccountService{store: store}
}

// Create adds an account with a unique name.
func (s *AccountService) Create(ctx context.Context, name, bankName string) (*core.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, core.NewValidationError("account name cannot be empty")
	}
	if existing, err := s.store.GetAccountByName(ctx, name); err == nil && existing != nil {
		return nil, core.NewConflictError("account '%s' already exists", name)
	} else if err != nil && !core.IsNotFound(err) {
		return nil, fmt.Errorf("check account name: %w", err)
	}

	account, err := s.store.CreateAccount(ctx, name, strings.TrimSpace(bankName))
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	slog.InfoContext(ctx, "Account created", "id", account.ID, "name", account.Name)
	return account, nil
}

// Get fetches an account by id.
func (s *AccountService) Get(ctx context.Context, id int64) (*core.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// List returns all accounts ordered by name.
func (s *AccountService) List(ctx context.Context) ([]core.Account, error) {
	return s.store.ListAccounts(ctx)
}

// Rename changes an account's name, keeping names unique.
func (s *AccountService) Rename(ctx context.Context, id int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return core.NewValidationError("account name cannot be empty")
	}
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	if account.Name == newName {
		return nil
	}
	if other, err := s.store.GetAccountByName(ctx, newName); err == nil && other != nil && other.ID != id {
		return core.NewConflictError("account '%s' already exists", newName)
	} else if err != nil && !core.IsNotFound(err) {
		return fmt.Errorf("check account name: %w", err)
	}
	if err := s.store.RenameAccount(ctx, id, newName); err != nil {
		return fmt.Errorf("rename account: %w", err)
	}
	slog.InfoContext(ctx, "Account renamed", "id", id, "from", account.Name, "to", newName)
	return nil
}

// Delete removes an account. Deletion is blocked while the account still
// owns transactions or CSV formats; the error reports both counts.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	txns, err := s.store.CountAccountTransactions(ctx, id)
	if err != nil {
		return fmt.Errorf("count transactions: %w", err)
	}
	formats, err := s.store.CountAccountFormats(ctx, id)
	if err != nil {
		return fmt.Errorf("count formats: %w", err)
	}
	if txns > 0 || formats > 0 {
		return core.NewDependencyError(
			"cannot delete account '%s': %d transaction(s) and %d CSV format(s) still reference it",
			account.Name, txns, formats)
	}
	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	slog.InfoContext(ctx, "Account deleted", "id", id, "name", account.Name)
	return nil
}

// Resolve accepts an account name or a numeric id and returns the account.
// Names win over ids when both would match.
func (s *AccountService) Resolve(ctx context.Context, ref string) (*core.Account, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, core.NewValidationError("account reference cannot be empty")
	}
	if account, err := s.store.GetAccountByName(ctx, ref); err == nil {
		return account, nil
	} else if !core.IsNotFound(err) {
		return nil, err
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, core.NewNotFoundError("account '%s' not found", ref)
	}
	return s.store.GetAccount(ctx, id)
}
