package templates

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_templates.yaml
var defaultPullList []byte

// PullItem is one template to download. An empty Name is derived from the URL.
type PullItem struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	URL  string `yaml:"url" json:"url"`
}

// PullList is the YAML document read by "templates pull -f".
type PullList struct {
	Templates []PullItem `yaml:"templates"`
}

// LoadPullList reads a pull list file.
func LoadPullList(path string) ([]PullItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("templates: read pull list: %w", err)
	}
	return ParsePullList(data)
}

// DefaultPullList returns the built-in list of popular templates.
func DefaultPullList() ([]PullItem, error) {
	return ParsePullList(defaultPullList)
}

// ParsePullList decodes a pull list document. Every item needs a URL.
func ParsePullList(data []byte) ([]PullItem, error) {
	var list PullList
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("templates: parse pull list: %w", err)
	}
	for i, item := range list.Templates {
		if item.URL == "" {
			return nil, fmt.Errorf("templates: pull list entry %d has no url", i)
		}
	}
	return list.Templates, nil
}

// Dedupe drops repeated (name, url) pairs, keeping the first occurrence.
func Dedupe(items []PullItem) []PullItem {
	seen := make(map[PullItem]struct{}, len(items))
	out := make([]PullItem, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
