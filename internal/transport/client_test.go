package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/kitstash/pkg/errors"
)

const target = "https://www.example.com/kits/eduard-82161"

func TestFetchPassesTargetAndCredentials(t *testing.T) {
	var gotTarget, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.URL.Query().Get("url")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("<html><h1>Spitfire</h1></html>"))
	}))
	defer server.Close()

	c := New(server.URL+"/fetch", WithAPIKey("secret"))
	body, err := c.Fetch(context.Background(), target)
	require.NoError(t, err)

	assert.Contains(t, body, "Spitfire")
	assert.Equal(t, target, gotTarget)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestFetchQueryAuthAndTargetParam(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := New(server.URL,
		WithAPIKey("secret"),
		WithAuthenticator(AuthenticatorFor(AuthQuery, "key")),
		WithTargetParam("target"),
	)
	_, err := c.Fetch(context.Background(), target)
	require.NoError(t, err)

	assert.Equal(t, []string{"secret"}, gotQuery["key"])
	assert.Equal(t, []string{target}, gotQuery["target"])
}

func TestFetchNoCredentialWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	_, err := New(server.URL).Fetch(context.Background(), target)
	require.NoError(t, err)
}

func TestFetchStatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		category errors.Category
	}{
		{"forbidden", http.StatusForbidden, errors.CategoryRelayDenied},
		{"unauthorized", http.StatusUnauthorized, errors.CategoryRelayDenied},
		{"bad gateway", http.StatusBadGateway, errors.CategoryTransport},
		{"not found", http.StatusNotFound, errors.CategoryTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "relay says no", tt.status)
			}))
			defer server.Close()

			_, err := New(server.URL).Fetch(context.Background(), target)
			require.Error(t, err)
			assert.Equal(t, tt.category, errors.Classify(err))

			var relayErr *errors.RelayError
			require.True(t, errors.As(err, &relayErr))
			assert.Equal(t, tt.status, relayErr.StatusCode)
			assert.Equal(t, "relay says no", relayErr.Message)
		})
	}
}

func TestFetchTimeoutIsDistinctFromDenial(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	_, err := New(slow.URL, WithTimeout(50*time.Millisecond)).Fetch(context.Background(), target)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))
	assert.False(t, errors.IsRelayDenied(err))
	assert.Equal(t, errors.CategoryTimeout, errors.Classify(err))

	denied := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer denied.Close()

	_, derr := New(denied.URL).Fetch(context.Background(), target)
	assert.NotEqual(t, errors.Classify(err), errors.Classify(derr))
	assert.NotEqual(t, errors.Message(err), errors.Message(derr))
}

func TestFetchCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := New(server.URL).Fetch(ctx, target)
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
}

func TestFetchNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url).Fetch(context.Background(), target)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryTransport, errors.Classify(err))
}

func TestFetchRejectsBadInput(t *testing.T) {
	_, err := New("").Fetch(context.Background(), target)
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))

	_, err = New("http://relay.invalid").Fetch(context.Background(), "not a url")
	assert.True(t, errors.IsValidationError(err))
}

func TestFetchLimitsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 9*1024*1024)))
	}))
	defer server.Close()

	body, err := New(server.URL).Fetch(context.Background(), target)
	require.NoError(t, err)
	assert.Len(t, body, 8*1024*1024)
}

func TestDefaults(t *testing.T) {
	c := New("http://relay")
	assert.Equal(t, 30*time.Second, c.Timeout())
	assert.Equal(t, 5*time.Second, New("http://relay", WithTimeout(5*time.Second)).Timeout())
	assert.Equal(t, 30*time.Second, New("http://relay", WithTimeout(0)).Timeout())
}
