// Package clipboard adapts the system clipboard to the lookup trigger.
package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/msuny-c/fdb-viewer/internal/domain/lookup"
)

var (
	clipboardReadAll  = clipboard.ReadAll
	clipboardWriteAll = clipboard.WriteAll
)

// Clipboard reads queries from and writes answers to the system clipboard.
type Clipboard struct{}

// New returns the system clipboard adapter.
func New() *Clipboard {
	return &Clipboard{}
}

// Available reports whether a clipboard utility exists on this system.
func Available() bool {
	return !clipboard.Unsupported
}

// Read implements lookup.Source.
func (c *Clipboard) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := clipboardReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

// Write implements lookup.Sink.
func (c *Clipboard) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

var (
	_ lookup.Source = (*Clipboard)(nil)
	_ lookup.Sink   = (*Clipboard)(nil)
)
