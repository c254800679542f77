package transport

import (
	"net/http"
	"strings"
)

// Authenticator applies relay credentials to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// Auth kinds accepted by AuthenticatorFor.
const (
	AuthNone   = "none"
	AuthBearer = "bearer"
	AuthHeader = "header"
	AuthQuery  = "query"
)

// Default parameter names for header and query authentication.
const (
	DefaultAuthHeader = "X-Api-Key"
	DefaultAuthQuery  = "api_key"
)

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {
	// No authentication applied
}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set(a.Header, apiKey)
}

// QueryAuth implements API key as query parameter authentication.
type QueryAuth struct {
	Param string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request, apiKey string) {
	if req.URL == nil {
		return
	}

	// Parse existing query parameters
	query := req.URL.Query()
	query.Set(a.Param, apiKey)
	req.URL.RawQuery = query.Encode()
}

// AuthenticatorFor returns the authenticator for a configured kind. param
// names the header or query parameter; empty uses the default. Unknown kinds
// fall back to bearer.
func AuthenticatorFor(kind, param string) Authenticator {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case AuthNone:
		return &NoAuth{}
	case AuthHeader:
		if param == "" {
			param = DefaultAuthHeader
		}
		return &HeaderAuth{Header: param}
	case AuthQuery:
		if param == "" {
			param = DefaultAuthQuery
		}
		return &QueryAuth{Param: param}
	default:
		return &BearerAuth{}
	}
}
