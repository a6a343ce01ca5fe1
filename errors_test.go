package dompower

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomyMatchesAsUnit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		auth bool
	}{
		{name: "invalid auth", err: &InvalidAuthError{}, auth: true},
		{name: "token expired", err: &TokenExpiredError{StatusCode: http.StatusUnauthorized}, auth: true},
		{name: "browser auth required", err: &BrowserAuthRequiredError{StatusCode: http.StatusForbidden}, auth: true},
		{name: "cannot connect", err: &CannotConnectError{URL: testUsageURL, Err: errors.New("connection refused")}},
		{name: "api error", err: &APIError{StatusCode: http.StatusInternalServerError, Endpoint: testUsageURL}},
		{name: "rate limited", err: &RateLimitError{APIError{StatusCode: http.StatusTooManyRequests, Endpoint: testUsageURL}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Every taxonomy type matches the package marker, even when
			// wrapped by a caller.
			wrapped := fmt.Errorf("fetching usage: %w", tt.err)

			var clientErr Error
			require.ErrorAs(t, wrapped, &clientErr)

			var authErr AuthenticationError
			require.Equal(t, tt.auth, errors.As(wrapped, &authErr))
		})
	}
}

func TestRateLimitErrorUnwrapsToAPIError(t *testing.T) {
	var err error = &RateLimitError{APIError{StatusCode: http.StatusTooManyRequests, Endpoint: testUsageURL}}

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}
