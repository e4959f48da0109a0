package backend

import (
	"context"
	"fmt"
	"log/slog"

	gsheet "financeiro/internal/sheets/google"
	"financeiro/internal/sheets/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateMirror implements Factory.CreateMirror
func (f *DefaultFactory) CreateMirror(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	res := &Result{Type: config.Type, Timeout: config.Timeout}

	switch config.Type {
	case SheetsMirror:
		client, err := gsheet.NewWithCredentials(ctx, config.SpreadsheetID, config.Credentials)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets mirror: %w", err)
		}
		res.Mirror = client
		f.logger.InfoContext(ctx, "Google Sheets mirror initialized", "spreadsheet_id", config.SpreadsheetID)
	case MemoryMirror:
		res.Mirror = memory.New()
		f.logger.InfoContext(ctx, "In-memory mirror initialized")
	case NoMirror:
		f.logger.InfoContext(ctx, "Spreadsheet mirror disabled")
	default:
		return nil, fmt.Errorf("unsupported mirror backend: %s", config.Type)
	}
	return res, nil
}
