package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/kitstash"
	"github.com/agentstation/kitstash/internal/cmd/output"
)

// Mock provides a mock implementation of Interface for testing.
// Unset function fields return zero values.
type Mock struct {
	ClientFunc func() (kitstash.Client, error)
	LoggerFunc func() *zerolog.Logger
	Format     output.Format
}

// Client returns a client using the mock function or nil.
func (m *Mock) Client() (kitstash.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return nil, nil
}

// Logger returns the mock logger or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the configured format, JSON when unset.
func (m *Mock) OutputFormat() output.Format {
	if m.Format == "" {
		return output.FormatJSON
	}
	return m.Format
}

// Version returns "test".
func (m *Mock) Version() string { return "test" }

// Commit returns "test".
func (m *Mock) Commit() string { return "test" }

// Date returns "test".
func (m *Mock) Date() string { return "test" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

var _ Interface = (*Mock)(nil)
