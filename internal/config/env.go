// Package config reads the unprefixed deployment variables (REDIS_HOST, BASE_URL, ...)
// from the process environment and an optional dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Variable names understood by Env.
const (
	RedisHost  = "REDIS_HOST"
	RedisPort  = "REDIS_PORT"
	BaseURL    = "BASE_URL"
	TTLSeconds = "TTL_SECONDS"
	LogFormat  = "LOG_FORMAT"
	LogLevel   = "LOG_LEVEL"
)

var keys = []string{RedisHost, RedisPort, BaseURL, TTLSeconds, LogFormat, LogLevel}

// Env exposes only the variables that are actually set, so callers can layer them over
// their own defaults.
type Env struct {
	v *viper.Viper
}

// LoadEnv reads dotenvPath when it exists and binds the process environment on top of it.
// An empty path skips the file.
func LoadEnv(dotenvPath string) (*Env, error) {
	v := viper.New()

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if dotenvPath != "" {
		v.SetConfigFile(dotenvPath)
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
	}

	return &Env{v: v}, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError

	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// String copies key into dst when set.
func (e *Env) String(key string, dst *string) {
	if e.v.IsSet(key) {
		*dst = e.v.GetString(key)
	}
}

// Int copies key into dst when set. Values that are not integers are reported.
func (e *Env) Int(key string, dst *int) error {
	if !e.v.IsSet(key) {
		return nil
	}

	raw := e.v.GetString(key)

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, raw)
	}

	*dst = n

	return nil
}
