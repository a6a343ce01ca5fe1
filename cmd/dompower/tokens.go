package main

import (
	"encoding/json"
	"os"

	"github.com/YeomansIII/dompower"
)

// storedTokens is the on-disk token file. The library never persists
// tokens itself; this file is written through the rotation callback.
type storedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func loadTokens(path string) (dompower.TokenPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dompower.TokenPair{}, err
	}

	var st storedTokens
	if err := json.Unmarshal(data, &st); err != nil {
		return dompower.TokenPair{}, err
	}

	return dompower.TokenPair{AccessToken: st.AccessToken, RefreshToken: st.RefreshToken}, nil
}

func saveTokens(path, access, refresh string) error {
	data, err := json.MarshalIndent(storedTokens{AccessToken: access, RefreshToken: refresh}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
