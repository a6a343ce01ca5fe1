// Package dompower is a client for the Dominion Energy metering API. It
// manages the rotating access/refresh token pair and downloads and
// parses the provider's interval-usage spreadsheet export. The initial
// token pair must come from a manual browser login; the client only
// rotates it from there.
package dompower

import (
	"context"
	"net/http"
)

// Production endpoints. Options can override both, which the tests use.
const (
	DefaultUsageURL   = "https://mya.dominionenergy.com/api/usage/interval/download"
	DefaultRefreshURL = "https://login.dominionenergy.com/oauth2/token/refresh"
)

// Options configures a Client. Zero-valued URLs fall back to the
// production endpoints; Tokens is the pair from the caller's last
// browser login; OnRotate, if set, is invoked exactly once after every
// successful rotation so the caller can persist the new pair.
type Options struct {
	UsageURL   string
	RefreshURL string
	Tokens     TokenPair
	OnRotate   TokenNotifyFunc
}

// Client is the facade over the token store, authenticator, usage
// requester and parser. One Client holds one token pair; multiple
// meters under the same account share the Client, never ambient global
// token state.
type Client struct {
	store *TokenStore
	auth  *Authenticator
	usage *UsageRequester
}

// NewClient builds a Client on top of the supplied transport. The
// transport is owned by the caller and shared by all requests; nil
// means http.DefaultTransport.
func NewClient(rt http.RoundTripper, opts Options) *Client {
	if rt == nil {
		rt = http.DefaultTransport
	}
	if opts.UsageURL == "" {
		opts.UsageURL = DefaultUsageURL
	}
	if opts.RefreshURL == "" {
		opts.RefreshURL = DefaultRefreshURL
	}

	hc := &http.Client{Transport: rt}
	store := NewTokenStore(opts.Tokens)
	auth := NewAuthenticator(hc, opts.RefreshURL, store, opts.OnRotate)

	return &Client{
		store: store,
		auth:  auth,
		usage: NewUsageRequester(hc, opts.UsageURL, store, auth),
	}
}

// GetIntervalUsage downloads and parses the interval usage for one
// meter over rng. Identical calls issue independent requests; nothing
// is cached at this layer.
func (c *Client) GetIntervalUsage(ctx context.Context, account, meter string, rng DateRange) ([]IntervalUsageRecord, error) {
	doc, err := c.usage.Download(ctx, account, meter, rng)
	if err != nil {
		return nil, err
	}
	return ParseIntervalUsage(doc)
}

// GetRawDocument downloads the untouched spreadsheet export.
func (c *Client) GetRawDocument(ctx context.Context, account, meter string, rng DateRange) ([]byte, error) {
	return c.usage.Download(ctx, account, meter, rng)
}

// SetTokens installs a pair directly, bypassing the authenticator.
func (c *Client) SetTokens(pair TokenPair) {
	c.store.Replace(pair)
}

// ForceRefresh rotates the pair immediately regardless of access-token
// age, for caller-driven maintenance rotation.
func (c *Client) ForceRefresh(ctx context.Context) (TokenPair, error) {
	return c.auth.Refresh(ctx)
}

// Tokens returns the current pair, if a complete one is set.
func (c *Client) Tokens() (TokenPair, bool) {
	return c.store.Current()
}
