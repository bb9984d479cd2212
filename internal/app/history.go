package app

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/storage"
)

// HistoryClient reads and clears the local logs.
type HistoryClient interface {
	ListSearches(ctx context.Context, limit int) ([]storage.SearchRecord, error)
	ClearSearches(ctx context.Context) (int64, error)
	ListAlerts(ctx context.Context, limit int) ([]storage.AlertRow, error)
}

// HistoryUseCase coordinates the history command.
type HistoryUseCase struct {
	client HistoryClient
}

// NewHistoryUseCase creates a history use-case.
func NewHistoryUseCase(client HistoryClient) *HistoryUseCase {
	if client == nil {
		panic("NewHistoryUseCase: client dependency cannot be nil")
	}
	return &HistoryUseCase{client: client}
}

// Searches returns up to limit lookups, newest first.
func (u *HistoryUseCase) Searches(ctx context.Context, limit int) ([]storage.SearchRecord, error) {
	rows, err := u.client.ListSearches(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return rows, nil
}

// Alerts returns up to limit alerts, newest first.
func (u *HistoryUseCase) Alerts(ctx context.Context, limit int) ([]storage.AlertRow, error) {
	rows, err := u.client.ListAlerts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return rows, nil
}

// ClearInput contains clear options and the confirmation adapter.
type ClearInput struct {
	Force     bool
	ConfirmFn func() bool
}

// Clear deletes the lookup history after confirmation.
func (u *HistoryUseCase) Clear(ctx context.Context, input ClearInput) error {
	if !input.Force && input.ConfirmFn != nil && !input.ConfirmFn() {
		colors.Info("Operation cancelled")
		return nil
	}
	n, err := u.client.ClearSearches(ctx)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	colors.Success(fmt.Sprintf("Removed %d lookups", n))
	return nil
}
