// Package backend builds the spreadsheet mirror selected by configuration.
package backend

import (
	"context"
	"time"

	"financeiro/internal/sheets"
	gsheet "financeiro/internal/sheets/google"
)

// Result holds the created mirror and its settings. Mirror is nil when
// mirroring is disabled.
type Result struct {
	Mirror  sheets.Mirror
	Type    Type
	Timeout time.Duration
}

// Factory creates mirrors based on configuration
type Factory interface {
	CreateMirror(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for mirror creation
type Config struct {
	Type Type

	// Google Sheets specific
	SpreadsheetID string
	Credentials   gsheet.Credentials

	// Per-call deadline for mirror operations
	Timeout time.Duration
}

// Type names a mirror implementation.
type Type string

const (
	SheetsMirror Type = "sheets"
	MemoryMirror Type = "memory"
	NoMirror     Type = "none"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SheetsMirror, MemoryMirror, NoMirror:
		return true
	default:
		return false
	}
}
