package dompower

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-openapi/strfmt"
)

// UsageRequester builds and issues the authenticated interval-usage
// export request for one account/meter and date range.
type UsageRequester struct {
	client *http.Client
	url    string
	store  *TokenStore
	auth   *Authenticator
}

// NewUsageRequester creates a UsageRequester signing with store and
// recovering from expired access tokens through auth.
func NewUsageRequester(client *http.Client, url string, store *TokenStore, auth *Authenticator) *UsageRequester {
	return &UsageRequester{
		client: client,
		url:    url,
		store:  store,
		auth:   auth,
	}
}

// Download fetches the provider's spreadsheet export. An expired access
// token triggers exactly one refresh and one retry; a second rejection
// is terminal. 429 responses surface immediately with no retry and no
// refresh.
func (r *UsageRequester) Download(ctx context.Context, account, meter string, rng DateRange) ([]byte, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	pair, ok := r.store.Current()
	if !ok {
		return nil, &InvalidAuthError{}
	}

	body, status, err := r.attempt(ctx, account, meter, rng, pair.AccessToken)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK:
		return body, nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		// Access token expired; rotate once and retry below.
	case status == http.StatusTooManyRequests:
		return nil, &RateLimitError{APIError{StatusCode: status, Endpoint: r.url, Body: string(body)}}
	default:
		return nil, &APIError{StatusCode: status, Endpoint: r.url, Body: string(body)}
	}

	next, err := r.auth.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	body, status, err = r.attempt(ctx, account, meter, rng, next.AccessToken)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK:
		return body, nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, &TokenExpiredError{StatusCode: status}
	case status == http.StatusTooManyRequests:
		return nil, &RateLimitError{APIError{StatusCode: status, Endpoint: r.url, Body: string(body)}}
	default:
		return nil, &APIError{StatusCode: status, Endpoint: r.url, Body: string(body)}
	}
}

func (r *UsageRequester) attempt(ctx context.Context, account, meter string, rng DateRange, accessToken string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building usage request: %w", err)
	}

	q := req.URL.Query()
	q.Set("account", account)
	q.Set("meter", meter)
	q.Set("startDate", time.Time(rng.Start).Format(strfmt.RFC3339FullDate))
	q.Set("endDate", time.Time(rng.End).Format(strfmt.RFC3339FullDate))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, &CannotConnectError{URL: r.url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &CannotConnectError{URL: r.url, Err: err}
	}

	return body, resp.StatusCode, nil
}
