package goquery

import (
	"bytes"
	_ "embed"
	"io"
	"strings"

	"github.com/fwojciec/rankmdx"
	"gopkg.in/yaml.v3"
)

//go:embed sites.yaml
var defaultSites []byte

// SiteRule holds fixed selectors for scraping prices on one site.
// Price, Label, Image and Link are evaluated inside each Item.
type SiteRule struct {
	Host  string `yaml:"host"`
	Item  string `yaml:"item"`
	Price string `yaml:"price"`
	Label string `yaml:"label"`
	Image string `yaml:"image"`
	Link  string `yaml:"link"`
}

// Validate returns an error if the rule cannot be used.
func (r SiteRule) Validate() error {
	if r.Host == "" {
		return rankmdx.Errorf(rankmdx.EINVALID, "site rule host required")
	}
	if r.Item == "" || r.Price == "" {
		return rankmdx.Errorf(rankmdx.EINVALID, "site rule %s: item and price selectors required", r.Host)
	}
	return nil
}

// Registry maps site hosts to their rules. A rule for "example.com" also
// applies to "www.example.com" and other subdomains.
type Registry struct {
	rules map[string]SiteRule
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]SiteRule)}
}

// DefaultRegistry returns a Registry holding the built-in site rules.
func DefaultRegistry() *Registry {
	rules, err := LoadSiteRules(bytes.NewReader(defaultSites))
	if err != nil {
		panic("goquery: invalid built-in site rules: " + err.Error())
	}
	r := NewRegistry()
	for _, rule := range rules {
		r.Register(rule)
	}
	return r
}

// LoadSiteRules decodes a YAML document with a top-level "sites" list.
func LoadSiteRules(r io.Reader) ([]SiteRule, error) {
	var doc struct {
		Sites []SiteRule `yaml:"sites"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, rankmdx.Errorf(rankmdx.EINVALID, "failed to parse site rules: %v", err)
	}
	for _, rule := range doc.Sites {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Sites, nil
}

// Register adds a rule. A rule already registered for the host is replaced.
func (r *Registry) Register(rule SiteRule) {
	r.rules[normalizeHost(rule.Host)] = rule
}

// Get returns the rule for host, trying parent domains in turn.
func (r *Registry) Get(host string) (SiteRule, bool) {
	host = normalizeHost(host)
	for host != "" {
		if rule, ok := r.rules[host]; ok {
			return rule, true
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			break
		}
		host = host[i+1:]
		if !strings.Contains(host, ".") {
			break
		}
	}
	return SiteRule{}, false
}

// Hosts returns the hosts with a registered rule.
func (r *Registry) Hosts() []string {
	hosts := make([]string, 0, len(r.rules))
	for h := range r.rules {
		hosts = append(hosts, h)
	}
	return hosts
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(host, "www.")
}
