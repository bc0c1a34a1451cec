package config

import (
	"fmt"
	"strings"
	"time"
)

// TokenStoreKind selects where the bearer token is persisted between runs.
type TokenStoreKind string

const (
	// TokenStoreMemory keeps the token for the lifetime of the process only.
	TokenStoreMemory TokenStoreKind = "memory"
	// TokenStoreRedis persists the token in Redis.
	TokenStoreRedis TokenStoreKind = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for TokenStoreKind.
func (k *TokenStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis":
		*k = TokenStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid TokenStoreKind: %q (valid options: memory, redis)", v)
	}
}

// TokenStoreConfig contains token persistence configuration.
type TokenStoreConfig struct {
	Kind TokenStoreKind `env:"TOKEN_STORE" envDefault:"memory"`

	// KeyPrefix and Profile build the Redis key ("console:token:default" by default).
	KeyPrefix string `env:"TOKEN_STORE_KEY_PREFIX" envDefault:"console:token:"`
	Profile   string `env:"TOKEN_STORE_KEY"        envDefault:"default"`

	// TTL expires a persisted token; zero keeps it until logout.
	TTL time.Duration `env:"TOKEN_STORE_TTL" envDefault:"168h"`
}

// Sanitize applies guardrails to token store configuration values.
func (t *TokenStoreConfig) Sanitize() {
	if t.Kind == "" {
		t.Kind = TokenStoreMemory
	}
	t.Profile = strings.TrimSpace(t.Profile)
	if t.Profile == "" {
		t.Profile = "default"
	}
	if t.TTL < 0 {
		t.TTL = 0
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
