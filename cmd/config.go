// File configuration: headers, cookies and endpoints are loaded from an
// optional YAML file and applied to every outbound request.
package cmd

import (
	"fmt"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adsharma/knowledge-graph-of-thoughts/core/fetch"
)

// fileConfig is the YAML configuration schema.
type fileConfig struct {
	SearxURL        string            `yaml:"searx_url"`
	DownloadsFolder string            `yaml:"downloads_folder"`
	ViewportSize    int               `yaml:"viewport_size"`
	UserAgent       string            `yaml:"user_agent"`
	Headers         map[string]string `yaml:"headers"`
	Cookies         []struct {
		Name   string `yaml:"name"`
		Value  string `yaml:"value"`
		Domain string `yaml:"domain"`
	} `yaml:"cookies"`
}

// loadConfig reads the YAML config file; an empty path yields defaults.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// fetchOptions translates the file config into fetcher options.
func (c *fileConfig) fetchOptions() fetch.Options {
	opts := fetch.Options{
		UserAgent: c.UserAgent,
		Headers:   c.Headers,
	}
	for _, ck := range c.Cookies {
		opts.Cookies = append(opts.Cookies, &http.Cookie{
			Name:   ck.Name,
			Value:  ck.Value,
			Domain: ck.Domain,
		})
	}
	return opts
}
