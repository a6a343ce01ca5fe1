package dompower

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreCurrent(t *testing.T) {
	tests := []struct {
		name string
		pair TokenPair
		ok   bool
	}{
		{name: "complete pair", pair: TokenPair{AccessToken: "a1", RefreshToken: "r1"}, ok: true},
		{name: "empty", pair: TokenPair{}, ok: false},
		{name: "access token only", pair: TokenPair{AccessToken: "a1"}, ok: false},
		{name: "refresh token only", pair: TokenPair{RefreshToken: "r1"}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, ok := NewTokenStore(tt.pair).Current()
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, tt.pair, pair)
			}
		})
	}
}

func TestTokenStoreReplaceWholePairs(t *testing.T) {
	store := NewTokenStore(TokenPair{AccessToken: "a0", RefreshToken: "r0"})

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Replace(TokenPair{
				AccessToken:  fmt.Sprintf("a%d", i),
				RefreshToken: fmt.Sprintf("r%d", i),
			})
		}(i)
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pair, ok := store.Current()
			assert.True(t, ok)
			// Both halves must come from the same rotation.
			assert.Equal(t,
				strings.TrimPrefix(pair.AccessToken, "a"),
				strings.TrimPrefix(pair.RefreshToken, "r"))
		}()
	}
	wg.Wait()
}
