package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig contains local persistence settings.
type StorageConfig struct {
	// SQLitePath is the path of the local snapshot database.
	// ":memory:" is accepted for ephemeral runs.
	SQLitePath string `mapstructure:"sqlite_path" validate:"required"`
}

// SyncConfig contains cloud-sync settings. An empty DatabaseURL disables
// sync entirely; the app then runs local-only.
type SyncConfig struct {
	DatabaseURL string `mapstructure:"database_url" validate:"omitempty,url"`
	DebounceMS  int    `mapstructure:"debounce_ms"  validate:"gte=0"`
}

// AuthConfig contains the magic-link identity-provider settings. An empty
// IssuerURL disables sign-in; JWTSecret verifies the issuer's access tokens.
type AuthConfig struct {
	IssuerURL string `mapstructure:"issuer_url" validate:"omitempty,url"`
	JWTSecret string `mapstructure:"jwt_secret" validate:"required_with=IssuerURL,omitempty,min=32"`
}

// SyncEnabled reports whether a remote document store is configured.
func (c *Config) SyncEnabled() bool {
	return c.Sync.DatabaseURL != ""
}

// AuthEnabled reports whether an identity provider is configured.
func (c *Config) AuthEnabled() bool {
	return c.Auth.IssuerURL != ""
}
