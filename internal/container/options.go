package container

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/serroba/ttl-shortener/internal/config"
)

// Store backends.
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Options are read by humacli from flags and SERVICE_* environment variables.
type Options struct {
	Port          int    `default:"5000"                  help:"Port to listen on"                               short:"p"`
	BaseURL       string `default:"http://localhost:5000" help:"Public base URL of short links"`
	RedisHost     string `default:"localhost"             help:"Redis host"`
	RedisPort     int    `default:"6379"                  help:"Redis port"`
	TTLSeconds    int    `default:"86400"                 help:"Lifetime of a mapping in seconds"`
	CodeLength    int    `default:"6"                     help:"Length of generated short codes"                 short:"c"`
	MaxAttempts   int    `default:"10"                    help:"Code generation attempts before giving up"`
	Store         string `default:"redis"                 help:"Mapping store backend: redis or memory"`
	ConsumerGroup string `default:"reverse-index-repair"  help:"Redis stream consumer group of the repair worker"`
	LogFormat     string `default:"console"               help:"Log format: console or json"`
	LogLevel      string `default:"info"                  help:"Minimum log level"`
	EnvFile       string `default:".env"                  help:"Dotenv file with REDIS_HOST, BASE_URL, ..."`
}

// ApplyEnv overlays the unprefixed deployment variables, which take precedence over
// flags and SERVICE_* variables.
func (o *Options) ApplyEnv(env *config.Env) error {
	env.String(config.RedisHost, &o.RedisHost)
	env.String(config.BaseURL, &o.BaseURL)
	env.String(config.LogFormat, &o.LogFormat)
	env.String(config.LogLevel, &o.LogLevel)

	if err := env.Int(config.RedisPort, &o.RedisPort); err != nil {
		return err
	}

	return env.Int(config.TTLSeconds, &o.TTLSeconds)
}

// Validate reports options the server cannot start with.
func (o *Options) Validate() error {
	switch {
	case o.Store != StoreRedis && o.Store != StoreMemory:
		return fmt.Errorf("unknown store %q: want %s or %s", o.Store, StoreRedis, StoreMemory)
	case o.TTLSeconds <= 0:
		return fmt.Errorf("ttl must be positive, got %d seconds", o.TTLSeconds)
	case o.CodeLength <= 0:
		return fmt.Errorf("code length must be positive, got %d", o.CodeLength)
	case o.MaxAttempts <= 0:
		return fmt.Errorf("max attempts must be positive, got %d", o.MaxAttempts)
	}

	return nil
}

// TTL is the mapping lifetime.
func (o *Options) TTL() time.Duration {
	return time.Duration(o.TTLSeconds) * time.Second
}

// RedisAddr is the host:port of the Redis server.
func (o *Options) RedisAddr() string {
	return net.JoinHostPort(o.RedisHost, strconv.Itoa(o.RedisPort))
}
