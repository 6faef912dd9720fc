// Package source defines scraping source descriptors and the catalog
// of preconfigured threat-monitoring sources.
package source

import (
	"fmt"
	"net/url"
	"strings"

	"riskradar/internal/common"
)

// Descriptor configures one external source to monitor.
type Descriptor struct {
	Name        string            `yaml:"name" json:"name"`
	Type        common.SourceType `yaml:"type" json:"type"`
	URL         string            `yaml:"url" json:"url"`
	Keywords    []string          `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Selectors   map[string]string `yaml:"selectors,omitempty" json:"selectors,omitempty"`
	RateLimit   int               `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty"` // requests per minute
	Reliability float64           `yaml:"reliability,omitempty" json:"reliability,omitempty"`
	Enabled     bool              `yaml:"enabled" json:"enabled"`
}

// Selector returns the named selector or a default when unset.
func (d Descriptor) Selector(key, def string) string {
	if v, ok := d.Selectors[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// Validation is the result of checking a descriptor before use.
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate checks the fields a scraper depends on. Errors make the
// descriptor unusable; warnings flag configurations that will run but
// probably not do what the operator intended.
func (d Descriptor) Validate() Validation {
	v := Validation{Valid: true}

	if strings.TrimSpace(d.Name) == "" {
		v.Errors = append(v.Errors, "name is required")
	}
	if !d.Type.Valid() {
		v.Errors = append(v.Errors, fmt.Sprintf("unsupported source type %q", d.Type))
	}
	if strings.TrimSpace(d.URL) == "" {
		v.Errors = append(v.Errors, "url is required")
	} else if u, err := url.Parse(d.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		v.Errors = append(v.Errors, fmt.Sprintf("url %q must be http or https", d.URL))
	}
	if d.Reliability < 0 || d.Reliability > 1 {
		v.Errors = append(v.Errors, fmt.Sprintf("reliability %.2f outside [0,1]", d.Reliability))
	}
	if d.RateLimit < 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("rate_limit %d must not be negative", d.RateLimit))
	}

	if len(d.Keywords) == 0 {
		v.Warnings = append(v.Warnings, "no keywords configured; every item will match")
	}
	if d.RateLimit == 0 {
		v.Warnings = append(v.Warnings, "rate_limit unset; the default will be used")
	}

	v.Valid = len(v.Errors) == 0
	return v
}

// Enabled filters a catalog down to the sources that should run.
func Enabled(sources []Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(sources))
	for _, s := range sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
