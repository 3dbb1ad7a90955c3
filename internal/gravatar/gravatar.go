package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/yatube/yatube/internal/config"
)

const baseURL = "https://www.gravatar.com/avatar/"

// Resolver builds avatar URLs for author emails.
type Resolver struct {
	cfg *config.GravatarConfig
}

// New creates a Resolver. A nil or disabled config yields empty URLs.
func New(cfg *config.GravatarConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Enabled reports whether avatars are rendered at all.
func (r *Resolver) Enabled() bool {
	return r != nil && r.cfg != nil && r.cfg.Enabled
}

// URL returns the avatar URL for email using the configured size.
func (r *Resolver) URL(email string) string {
	if !r.Enabled() {
		return ""
	}
	return r.SizedURL(email, r.cfg.Size)
}

// SizedURL returns the avatar URL for email with an explicit size in pixels.
// Returns an empty string if Gravatar is disabled or email is empty.
func (r *Resolver) SizedURL(email string, size int) string {
	if !r.Enabled() {
		return ""
	}
	hash := Hash(email)
	if hash == "" {
		return ""
	}

	params := url.Values{}
	if r.cfg.DefaultImage != "" {
		params.Add("d", r.cfg.DefaultImage)
	}
	if r.cfg.Rating != "" {
		params.Add("r", r.cfg.Rating)
	}
	if size > 0 {
		params.Add("s", strconv.Itoa(size))
	}

	if len(params) == 0 {
		return baseURL + hash
	}
	return baseURL + hash + "?" + params.Encode()
}

// Hash returns the hex SHA-256 of the normalized email, or "" for an empty one.
func Hash(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
