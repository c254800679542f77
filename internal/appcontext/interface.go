// Package appcontext provides the shared application context interface
// used by all commands, so command packages depend on an interface rather
// than on the concrete CLI application.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/kitstash"
	"github.com/agentstation/kitstash/internal/cmd/output"
)

// Interface defines the application context commands need.
// The App struct from cmd/kitstash/app implements it.
type Interface interface {
	// Client returns the kitstash client, creating it lazily if needed.
	Client() (kitstash.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the resolved output format.
	OutputFormat() output.Format

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
