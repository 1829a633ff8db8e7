package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	z "github.com/Oudwins/zog"
	"liyu1981.xyz/vigilant/pkg/common"
)

const (
	DBTypeFile   = "file"
	DBTypeMemory = "memory"

	DefaultPort = "8000"
)

// Config is the server configuration read from the environment.
type Config struct {
	APIKey string

	HTTPHostPort string
	// GRPCHostPort is empty when the gRPC listener is disabled.
	GRPCHostPort string

	DBType string
	DBPath string

	// DefaultRate of zero disables per-rig rate limiting.
	DefaultRate  float64
	DefaultBurst int

	StaleAfter time.Duration
}

func (c *Config) RateLimitEnabled() bool {
	return c.DefaultRate > 0
}

var (
	apiKeyValidator = z.String().Min(1).Required()
	dbTypeValidator = z.String().OneOf([]string{DBTypeFile, DBTypeMemory})
)

// Load reads the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads configuration through getenv, applying defaults and
// validation.
func LoadFrom(getenv func(string) string) (*Config, error) {
	env := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}

	cfg := &Config{
		APIKey:       env(common.EnvKeyVigilantAPIKey),
		HTTPHostPort: env(common.EnvKeyVigilantHttpHostPort),
		GRPCHostPort: env(common.EnvKeyVigilantGrpcHostPort),
		DBType:       env(common.EnvKeyVigilantDBType),
		DBPath:       env(common.EnvKeyVigilantDbPath),
	}

	if issues := apiKeyValidator.Validate(&cfg.APIKey); issues != nil {
		return nil, fmt.Errorf("%s must be set: %s", common.EnvKeyVigilantAPIKey, issueMessages(issues))
	}

	if cfg.HTTPHostPort == "" {
		port := env(common.EnvKeyPort)
		if port == "" {
			port = DefaultPort
		}
		cfg.HTTPHostPort = ":" + port
	}

	if cfg.DBType == "" {
		cfg.DBType = DBTypeFile
	}
	if issues := dbTypeValidator.Validate(&cfg.DBType); issues != nil {
		return nil, fmt.Errorf("unknown %s %q: %s", common.EnvKeyVigilantDBType, cfg.DBType, issueMessages(issues))
	}

	var err error
	if v := env(common.EnvKeyVigilantDefaultRate); v != "" {
		if cfg.DefaultRate, err = strconv.ParseFloat(v, 64); err != nil || cfg.DefaultRate < 0 {
			return nil, fmt.Errorf("invalid %s %q, should be a non-negative float", common.EnvKeyVigilantDefaultRate, v)
		}
	}
	if v := env(common.EnvKeyVigilantDefaultBurst); v != "" {
		if cfg.DefaultBurst, err = strconv.Atoi(v); err != nil || cfg.DefaultBurst < 0 {
			return nil, fmt.Errorf("invalid %s %q, should be a non-negative int", common.EnvKeyVigilantDefaultBurst, v)
		}
	}
	if cfg.RateLimitEnabled() && cfg.DefaultBurst == 0 {
		// a zero burst would reject every request
		cfg.DefaultBurst = 1
	}

	if v := env(common.EnvKeyVigilantStaleAfter); v != "" {
		if cfg.StaleAfter, err = time.ParseDuration(v); err != nil || cfg.StaleAfter < 0 {
			return nil, fmt.Errorf("invalid %s %q, should be a duration like 5m", common.EnvKeyVigilantStaleAfter, v)
		}
	}

	return cfg, nil
}

func issueMessages(issues z.ZogIssueList) string {
	msgs := common.Mapper(issues, func(issue *z.ZogIssue) string { return issue.Message })
	return strings.Join(msgs, "; ")
}
