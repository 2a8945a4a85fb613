// Package config loads the environment configuration and the provider
// credentials file. Environment variables control where data lives and
// which optional services are wired in; config.json in the data directory
// decides which aggregation provider fetches run against.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// PlaceholderAccessURL is the sentinel written by setup. While config.json
// still holds it, every fetch is blocked with an instruction to edit the
// file.
const PlaceholderAccessURL = "YOUR_SIMPLEFIN_ACCESS_URL"

// Provider kinds as stored in config.json.
const (
	ProviderSimpleFIN = "simplefin"
	ProviderSandbox   = "sandbox"
)

var (
	ErrConfigMissing = errors.New("config.json not found; run: budgeteer setup")
	ErrUnconfigured  = errors.New("config.json still holds the placeholder; edit it and paste your access URL or sandbox credentials")
)

// Provider is the contents of config.json. Exactly one credential set is
// expected: access_url for the URL-based provider, or client_id +
// sandbox_secret (+ api_url) for the token-based one.
type Provider struct {
	AccessURL     string `json:"access_url,omitempty"`
	ClientID      string `json:"client_id,omitempty"`
	SandboxSecret string `json:"sandbox_secret,omitempty"`
	APIURL        string `json:"api_url,omitempty"`
}

// LoadProvider reads and validates config.json. A missing file and a
// still-placeholder file are distinct errors so the CLI can name the right
// fix.
func LoadProvider(path string) (Provider, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Provider{}, ErrConfigMissing
	}
	if err != nil {
		return Provider{}, fmt.Errorf("read %s: %w", path, err)
	}

	var p Provider
	if err := json.Unmarshal(data, &p); err != nil {
		return Provider{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return Provider{}, err
	}
	return p, nil
}

// SaveProvider writes a provider config, used by setup for the template.
func SaveProvider(path string, p Provider) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode provider config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (p Provider) validate() error {
	switch {
	case p.AccessURL == PlaceholderAccessURL:
		return ErrUnconfigured
	case p.AccessURL != "":
		return nil
	case p.ClientID != "" && p.SandboxSecret != "":
		if p.APIURL == "" {
			return errors.New("api_url is required with client_id/sandbox_secret")
		}
		return nil
	default:
		return ErrUnconfigured
	}
}

// Kind reports which provider the credentials select.
func (p Provider) Kind() string {
	if p.AccessURL != "" {
		return ProviderSimpleFIN
	}
	return ProviderSandbox
}
