package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// Config holds the configuration for the Yatube server.
type Config struct {
	// Listen is the address the Yatube server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// ServerURL is the public base URL of the Yatube server.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// SessionKey is the key used to sign session cookies.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// PostsPerPage is the number of posts shown on a single listing page.
	PostsPerPage int `yaml:"posts_per_page" mapstructure:"posts_per_page"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Media holds the configuration for uploaded post images.
	Media *MediaConfig `yaml:"media" mapstructure:"media"`
	// Auth holds the authentication configuration.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`
	// Cache holds the configuration of the store backing login throttling.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Gravatar holds the configuration for author avatars.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// MediaConfig holds the configuration for uploaded images.
type MediaConfig struct {
	// Root is the directory uploaded files are stored in.
	Root string `yaml:"root" mapstructure:"root"`
	// MaxWidth is the maximum width of a stored image in pixels.
	MaxWidth int `yaml:"max_width" mapstructure:"max_width"`
	// MaxHeight is the maximum height of a stored image in pixels.
	MaxHeight int `yaml:"max_height" mapstructure:"max_height"`
}

// AuthConfig holds the authentication configuration.
type AuthConfig struct {
	// MaxLoginAttempts is the number of failed logins allowed per username within Lockout.
	MaxLoginAttempts int `yaml:"max_login_attempts" mapstructure:"max_login_attempts"`
	// Lockout is how long failed login attempts are remembered.
	Lockout time.Duration `yaml:"lockout" mapstructure:"lockout"`
	// OIDC holds the OpenID Connect configuration.
	OIDC *OIDCConfig `yaml:"oidc" mapstructure:"oidc"`
}

// OIDCConfig holds the OpenID Connect configuration.
type OIDCConfig struct {
	// Enabled indicates whether OIDC authentication is enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Name is the display name for the OIDC provider.
	Name string `yaml:"name" mapstructure:"name"`
	// Issuer is the OIDC issuer URL.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// ClientID is the OIDC client ID.
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	// ClientSecret is the OIDC client secret.
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
	// RedirectURL is the redirect URL for the oidc flow.
	RedirectURL string `yaml:"redirect_url" mapstructure:"redirect_url"`
}

// CacheConfig holds the configuration for the cache engine.
type CacheConfig struct {
	// Type is the type of cache engine to use (e.g., "memory", "redis").
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the address of the Redis server if using Redis.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
}

// GravatarConfig holds the configuration for Gravatar profile pictures.
type GravatarConfig struct {
	// Enabled indicates whether Gravatar support is enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the default image to use when no Gravatar is found.
	// Valid values: "404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating for Gravatar images.
	// Valid values: "g", "pg", "r", "x"
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the size of the Gravatar image in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

// OIDCCallbackPath is where the issuer sends users back after login.
const OIDCCallbackPath = "/auth/oidc/callback/"

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("YATUBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.yatube")
		v.AddConfigPath("/etc/yatube")
	}

	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug("No config file found, using defaults and environment")
	} else {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:8000")
	v.SetDefault("server_url", "http://localhost:8000")
	v.SetDefault("session_key", "")
	v.SetDefault("session_max_age", 1209600) // two weeks
	v.SetDefault("posts_per_page", 10)

	// Database defaults
	v.SetDefault("database.path", "./data/yatube.db")

	// Media defaults
	v.SetDefault("media.root", "./data/media")
	v.SetDefault("media.max_width", 960)
	v.SetDefault("media.max_height", 960)

	// Auth defaults
	v.SetDefault("auth.max_login_attempts", 5)
	v.SetDefault("auth.lockout", 15*time.Minute)
	v.SetDefault("auth.oidc.enabled", false)
	v.SetDefault("auth.oidc.name", "OIDC")
	v.SetDefault("auth.oidc.issuer", "")
	v.SetDefault("auth.oidc.client_id", "")
	v.SetDefault("auth.oidc.client_secret", "")
	v.SetDefault("auth.oidc.redirect_url", "")

	// Cache defaults
	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")

	// Gravatar defaults
	v.SetDefault("gravatar.enabled", false)
	v.SetDefault("gravatar.default_image", "identicon")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 80)
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing yatube config")
	}

	if c.SessionKey == "" {
		return fmt.Errorf("session key is required")
	}

	if c.PostsPerPage <= 0 {
		return fmt.Errorf("posts per page must be greater than 0")
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Media == nil || c.Media.Root == "" {
		return fmt.Errorf("media root is required")
	}
	if c.Media.MaxWidth <= 0 || c.Media.MaxHeight <= 0 {
		return fmt.Errorf("media max width and height must be greater than 0")
	}

	if c.Auth == nil {
		return fmt.Errorf("missing auth config")
	}
	if c.Auth.MaxLoginAttempts <= 0 {
		return fmt.Errorf("max login attempts must be greater than 0")
	}

	if c.Auth.OIDC != nil && c.Auth.OIDC.Enabled {
		if c.Auth.OIDC.Issuer == "" {
			return fmt.Errorf("OIDC issuer is required when OIDC is enabled")
		}
		if c.Auth.OIDC.ClientID == "" {
			return fmt.Errorf("OIDC client ID is required when OIDC is enabled")
		}
		if c.Auth.OIDC.ClientSecret == "" {
			return fmt.Errorf("OIDC client secret is required when OIDC is enabled")
		}
		if c.Auth.OIDC.RedirectURL == "" {
			return fmt.Errorf("OIDC redirect URL is required when OIDC is enabled")
		}
	}

	if c.Cache != nil {
		if c.Cache.Type == "" {
			return fmt.Errorf("cache type is required when cache is enabled")
		}
		if c.Cache.Type == CacheTypeRedis && c.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
		}
	} else {
		c.Cache = &CacheConfig{
			Type: CacheTypeMemory,
		}
	}

	if c.Gravatar != nil && c.Gravatar.Enabled {
		if c.Gravatar.DefaultImage != "" && !validGravatarDefaults[c.Gravatar.DefaultImage] {
			return fmt.Errorf("invalid gravatar default image %q", c.Gravatar.DefaultImage)
		}
		if c.Gravatar.Rating != "" && !validGravatarRatings[c.Gravatar.Rating] {
			return fmt.Errorf("invalid gravatar rating %q", c.Gravatar.Rating)
		}
		if c.Gravatar.Size < 1 || c.Gravatar.Size > 2048 {
			return fmt.Errorf("gravatar size must be between 1 and 2048")
		}
	}

	return nil
}

var validGravatarDefaults = map[string]bool{
	"404":       true,
	"mp":        true,
	"identicon": true,
	"monsterid": true,
	"wavatar":   true,
	"retro":     true,
	"robohash":  true,
	"blank":     true,
}

var validGravatarRatings = map[string]bool{
	"g":  true,
	"pg": true,
	"r":  true,
	"x":  true,
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = urlSanitize(c.Listen)

	if c.ServerURL != "" {
		c.ServerURL = urlSanitize(c.ServerURL)
	}

	if c.Auth != nil && c.Auth.OIDC != nil {
		c.Auth.OIDC.Issuer = urlSanitize(c.Auth.OIDC.Issuer)
		if c.Auth.OIDC.RedirectURL == "" && c.ServerURL != "" {
			c.Auth.OIDC.RedirectURL = c.ServerURL + OIDCCallbackPath
		}
	}
}

func urlSanitize(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}
