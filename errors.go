package dompower

import "fmt"

// Error is implemented by every error type in this package, so callers
// can match any provider-client failure as a unit with errors.As. It is
// never returned directly; one of the concrete types below always is.
type Error interface {
	error
	dompowerError()
}

// AuthenticationError is implemented by errors meaning the client's
// current credentials cannot be used as they stand.
type AuthenticationError interface {
	Error
	authenticationError()
}

// InvalidAuthError means no usable token pair has been set on the client.
type InvalidAuthError struct{}

func (e *InvalidAuthError) Error() string {
	return "no access/refresh token pair is set; perform a browser login and supply the tokens"
}

func (e *InvalidAuthError) authenticationError() {}

func (e *InvalidAuthError) dompowerError() {}

// TokenExpiredError means the usage endpoint still rejected the access
// token after one refresh-and-retry. The tokens were once valid, but a
// manual browser login is needed to mint a working pair.
type TokenExpiredError struct {
	StatusCode int
}

func (e *TokenExpiredError) Error() string {
	return fmt.Sprintf("access token rejected (%d) even after a refresh; re-authenticate in a browser", e.StatusCode)
}

func (e *TokenExpiredError) authenticationError() {}

func (e *TokenExpiredError) dompowerError() {}

// BrowserAuthRequiredError means the identity endpoint rejected the
// refresh token itself. Refresh tokens are single-use, so nothing short
// of a manual browser login recovers from this.
type BrowserAuthRequiredError struct {
	StatusCode int
	Body       string
}

func (e *BrowserAuthRequiredError) Error() string {
	return fmt.Sprintf("refresh token rejected (%d): %s; re-authenticate in a browser", e.StatusCode, e.Body)
}

func (e *BrowserAuthRequiredError) authenticationError() {}

func (e *BrowserAuthRequiredError) dompowerError() {}

// CannotConnectError is a transport-level failure reaching any of the
// provider's endpoints, including the transport's own timeout or
// cancellation.
type CannotConnectError struct {
	URL string
	Err error
}

func (e *CannotConnectError) Error() string {
	return fmt.Sprintf("cannot connect to %s: %v", e.URL, e.Err)
}

func (e *CannotConnectError) Unwrap() error {
	return e.Err
}

func (e *CannotConnectError) dompowerError() {}

// APIError is a generic non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d) at %s: %s", e.StatusCode, e.Endpoint, e.Body)
}

func (e *APIError) dompowerError() {}

// RateLimitError is the 429 specialisation of APIError. It is surfaced
// without any retry; backoff policy belongs to the caller.
type RateLimitError struct {
	APIError
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (%d) at %s", e.StatusCode, e.Endpoint)
}

// Unwrap exposes the embedded APIError so errors.As matches both types.
func (e *RateLimitError) Unwrap() error {
	return &e.APIError
}
