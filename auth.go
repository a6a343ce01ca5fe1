package dompower

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/singleflight"
)

// TokenNotifyFunc receives every rotated pair so the caller can persist
// it. The client itself never writes tokens anywhere.
type TokenNotifyFunc func(accessToken, refreshToken string)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Authenticator exchanges the current refresh token for a new pair at
// the identity endpoint and installs the result into the TokenStore.
type Authenticator struct {
	client *http.Client
	url    string
	store  *TokenStore
	notify TokenNotifyFunc

	group singleflight.Group
}

// NewAuthenticator creates an Authenticator. notify may be nil.
func NewAuthenticator(client *http.Client, url string, store *TokenStore, notify TokenNotifyFunc) *Authenticator {
	return &Authenticator{
		client: client,
		url:    url,
		store:  store,
		notify: notify,
	}
}

// Refresh rotates the token pair. Concurrent callers collapse onto a
// single in-flight exchange and share its outcome: a refresh token is
// single-use, and spending it twice invalidates both resulting pairs.
func (a *Authenticator) Refresh(ctx context.Context) (TokenPair, error) {
	v, err, _ := a.group.Do("refresh", func() (interface{}, error) {
		return a.refresh(ctx)
	})
	if err != nil {
		return TokenPair{}, err
	}
	return v.(TokenPair), nil
}

func (a *Authenticator) refresh(ctx context.Context) (TokenPair, error) {
	current, ok := a.store.Current()
	if !ok {
		return TokenPair{}, &InvalidAuthError{}
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: current.RefreshToken})
	if err != nil {
		return TokenPair{}, fmt.Errorf("encoding refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return TokenPair{}, fmt.Errorf("building refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return TokenPair{}, &CannotConnectError{URL: a.url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenPair{}, &CannotConnectError{URL: a.url, Err: err}
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		// The refresh token itself was rejected; the store keeps the old
		// pair untouched and only a manual browser login can recover.
		return TokenPair{}, &BrowserAuthRequiredError{StatusCode: resp.StatusCode, Body: string(respBody)}
	default:
		return TokenPair{}, &APIError{StatusCode: resp.StatusCode, Endpoint: a.url, Body: string(respBody)}
	}

	var payload refreshResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return TokenPair{}, fmt.Errorf("decoding refresh response: %w", err)
	}

	next := TokenPair{AccessToken: payload.AccessToken, RefreshToken: payload.RefreshToken}
	if !next.valid() {
		return TokenPair{}, fmt.Errorf("refresh response missing token values")
	}

	// Install before notifying so the callback only ever sees durable state.
	a.store.Replace(next)
	if a.notify != nil {
		a.notify(next.AccessToken, next.RefreshToken)
	}

	return next, nil
}
