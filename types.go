package finmind

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenStore wraps the single persistent slot that holds the bearer
// credential. A non-empty value means "authenticated"; the empty string is
// the absence marker. Implementations must be usable when no durable
// backend is available: Get returns the absence marker and Save/Clear are
// no-ops, never panics.
type TokenStore interface {
	Save(ctx context.Context, token string) error
	Get(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Config holds client options
type Config interface {
	GetBaseURL() string
	GetLoginRoute() string
	GetDefaultRoute() string
	GetCredentialKey() string
}

// DefaultLogger returns the stdout fallback logger used when callers do
// not provide their own.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] FINMIND "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] FINMIND "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] FINMIND "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] FINMIND "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
