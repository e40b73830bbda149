package project

import (
	"strings"

	"github.com/nightconcept/webpackext/internal/core/config"
)

// BuildConfig is the "build" table of the generated config file. It is the
// only channel through which host settings reach webpack.config.js.
type BuildConfig struct {
	Debug      bool   `json:"debug"`
	Context    string `json:"context"`
	AssetsPath string `json:"assetsPath"`
	AssetsURL  string `json:"assetsURL"`
	StaticPath string `json:"staticPath"`
	StaticURL  string `json:"staticURL"`
}

// Payload is the whole generated config file.
type Payload struct {
	Build   BuildConfig       `json:"build"`
	Entry   map[string]string `json:"entry,omitempty"`
	Aliases map[string]string `json:"aliases,omitempty"`
}

// ConfigFunc produces the build settings for a project rooted at context.
// It is called on every lifecycle operation so changes to the host
// configuration are picked up immediately.
type ConfigFunc func(context string) (BuildConfig, error)

// FromConfig reads cfg each time the returned function is called.
func FromConfig(cfg *config.Config) ConfigFunc {
	return func(context string) (BuildConfig, error) {
		return BuildConfig{
			Debug:      cfg.Debug,
			Context:    context,
			AssetsPath: cfg.Webpack.DistDir,
			AssetsURL:  NormalizeURL(cfg.Webpack.DistURL),
			StaticPath: cfg.StaticFolder,
			StaticURL:  NormalizeURL(cfg.StaticURLPath),
		}, nil
	}
}

// NormalizeURL makes a URL prefix end with "/".
func NormalizeURL(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
