// Package config resolves everything the engines are handed already-validated:
// per-environment GraphQL endpoints, bearer tokens, the TLS-verification
// switch and the directory project stores live in.
//
// Resolution order for each value: explicit environment variable, then the
// optional tasa.yaml config file, then the built-in default. A local .env
// file is loaded first so tokens can be kept out of the shell profile.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tasa-sync/tasa/internal/store"
)

// defaultEndpoints maps each environment to its ARVA GraphQL endpoint.
// Overridable per environment via endpoints.<env> in the config file.
var defaultEndpoints = map[store.Env]string{
	store.EnvDev:  "https://arva-main.dev.riaint.ee/graphql",
	store.EnvTest: "https://arva-main.test.riaint.ee/graphql",
	store.EnvProd: "https://arva-main.prod.riaint.ee/graphql",
}

// Config is the resolved configuration surface handed to the CLI.
type Config struct {
	v *viper.Viper
}

// Load reads .env (if present) and the optional tasa.yaml config file from
// the working directory or ~/.config/tasa, and applies defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("tasa")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "tasa"))
	}

	for env, url := range defaultEndpoints {
		v.SetDefault("endpoints."+string(env), url)
	}
	v.SetDefault("verify_tls", true)
	v.SetDefault("data_dir", ".")
	v.SetDefault("log_file", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// Endpoint returns the GraphQL endpoint for an environment.
func (c *Config) Endpoint(env store.Env) string {
	return c.v.GetString("endpoints." + string(env))
}

// VerifyTLS reports whether outbound calls verify server certificates.
// Defaults to true; set verify_tls: false (or pass --insecure) to talk to
// endpoints with private certificates.
func (c *Config) VerifyTLS() bool {
	return c.v.GetBool("verify_tls")
}

// DataDir returns the directory project store files live in.
func (c *Config) DataDir() string {
	return c.v.GetString("data_dir")
}

// LogFile returns the rotated log file path, or "" for console-only logging.
func (c *Config) LogFile() string {
	return c.v.GetString("log_file")
}

// TokenVar returns the environment variable name a bearer token is looked up
// under, e.g. ARVA_TOKEN_PROD.
func TokenVar(env store.Env) string {
	return "ARVA_TOKEN_" + strings.ToUpper(string(env))
}

// Token resolves the bearer token for an environment: the ARVA_TOKEN_<ENV>
// environment variable first, then tokens.<env> in the config file. The
// second return value is false when neither is set.
func (c *Config) Token(env store.Env) (string, bool) {
	if token := os.Getenv(TokenVar(env)); token != "" {
		return token, true
	}
	if token := c.v.GetString("tokens." + string(env)); token != "" {
		return token, true
	}
	return "", false
}

// RememberToken keeps an interactively entered token in the process
// environment so later operations in the same session skip the prompt.
func RememberToken(env store.Env, token string) {
	_ = os.Setenv(TokenVar(env), token)
}
