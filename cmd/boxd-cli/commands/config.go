package commands

import (
	"os"

	"boxd/lib/configutil"
	"boxd/lib/letterboxd/core"

	"dario.cat/mergo"
)

const DefaultConfigFile = "boxd.json5"

type Config struct {
	BaseUrl           string  `json:"base_url"`
	Username          string  `json:"username"`
	Password          string  `json:"password"`
	UserAgent         string  `json:"user_agent"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	CloudflareBypass  bool    `json:"cloudflare_bypass"`
}

var defaultConfig = Config{
	BaseUrl:           core.DefaultBaseUrl,
	UserAgent:         core.DefaultUserAgent,
	RequestsPerSecond: core.DefaultRequestsPerSecond,
}

// loadConfig reads the config file and its .local variant, a missing file
// leaves every setting at its default.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}
	err = mergo.Merge(&cfg, defaultConfig)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
