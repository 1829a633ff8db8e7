package agent

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	z "github.com/Oudwins/zog"
	"github.com/tidwall/jsonc"
)

const (
	DefaultTimeoutSeconds = 15

	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
	SchemeGRPC  = "grpc"
)

type Config struct {
	RigID          string         `json:"rig_id"`
	ServerURL      string         `json:"server_url"`
	APIKey         string         `json:"api_key"`
	ProcessNames   []string       `json:"process_names"`
	Metadata       map[string]any `json:"metadata"`
	DiskPath       string         `json:"disk_path"`
	TimeoutSeconds int            `json:"timeout_seconds"`
}

var configSchema = z.Struct(z.Shape{
	"RigID":          z.String().Min(1).Required(),
	"ServerURL":      z.String().Min(1).Required(),
	"APIKey":         z.String().Min(1).Required(),
	"TimeoutSeconds": z.Int().GTE(1),
})

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Scheme returns the lower-cased scheme of ServerURL.
func (c *Config) Scheme() string {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// Validate applies defaults, then checks required fields and the server URL.
func (c *Config) Validate() error {
	c.RigID = strings.TrimSpace(c.RigID)
	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.DiskPath == "" {
		c.DiskPath = defaultDiskPath()
	}
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}

	if issues := configSchema.Validate(c); issues != nil {
		return fmt.Errorf("invalid agent config: %s", describeIssues(issues))
	}

	switch c.Scheme() {
	case SchemeHTTP, SchemeHTTPS, SchemeGRPC:
	default:
		return fmt.Errorf("invalid agent config: server_url %q must start with http://, https:// or grpc://", c.ServerURL)
	}
	return nil
}

// LoadConfig reads a JSON config file. Comments and trailing commas are
// tolerated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func defaultDiskPath() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

func describeIssues(issues map[string][]*z.ZogIssue) string {
	var parts []string
	for field, list := range issues {
		if strings.HasPrefix(field, "$") {
			continue
		}
		for _, issue := range list {
			parts = append(parts, field+": "+issue.Message)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
