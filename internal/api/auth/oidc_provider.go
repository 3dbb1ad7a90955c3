package auth

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/yatube/yatube/internal/config"
	"github.com/yatube/yatube/internal/database"
	"golang.org/x/oauth2"
)

// OIDCProvider logs users in through an external OpenID Connect issuer.
type OIDCProvider struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	config   *oauth2.Config
	cfg      *config.OIDCConfig
	db       database.DB
}

func NewOIDCProvider(ctx context.Context, cfg *config.OIDCConfig, db database.DB) (*OIDCProvider, error) {
	p := OIDCProvider{
		cfg: cfg,
		db:  db,
	}
	var err error
	p.provider, err = oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	p.config = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     p.provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	p.verifier = p.provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	return &p, nil
}

// Name is the provider name shown on the login page.
func (p *OIDCProvider) Name() string {
	return p.cfg.Name
}
