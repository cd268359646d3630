// Package hmppsauth obtains system tokens used to call upstream APIs on
// behalf of the service.
package hmppsauth

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config describes the client-credentials grant against HMPPS Auth.
type Config struct {
	AuthURL      string
	ClientID     string
	ClientSecret string
}

// NewTokenSource returns a caching token source, or nil when no client id is
// configured (local development against unauthenticated stubs).
func NewTokenSource(ctx context.Context, cfg Config) oauth2.TokenSource {
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     strings.TrimRight(cfg.AuthURL, "/") + "/oauth/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	return cc.TokenSource(ctx)
}
