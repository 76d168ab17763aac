package clickresolve

import (
	"fmt"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/samber/lo"
)

// Vocabulary is the set of host page conventions treated as "interactive".
// It can be extended per deployment with a YAML file.
type Vocabulary struct {
	Tags              []string `json:"tags"`
	Classes           []string `json:"classes"`
	IDs               []string `json:"ids"`
	Roles             []string `json:"roles"`
	DataAttributes    []string `json:"dataAttributes"`
	HandlerAttributes []string `json:"handlerAttributes"`
	TabAttributes     []string `json:"tabAttributes"`

	ContainerTags    []string `json:"containerTags"`
	ContainerRoles   []string `json:"containerRoles"`
	ContainerClasses []string `json:"containerClasses"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Tags: []string{"a", "button", "input", "select", "textarea"},
		Classes: []string{
			"btn", "button", "clickable", "nav-link", "nav-item", "menu-item",
			"dropdown-item", "tab", "tab-button", "tab-link", "list-group-item", "card-link",
		},
		IDs:               []string{"menu-toggle", "sidebar-toggle", "submit", "login", "logout", "search-button"},
		Roles:             []string{"button", "tab", "menuitem"},
		DataAttributes:    []string{"data-toggle", "data-bs-toggle", "data-action", "data-tab", "data-target", "data-bs-target", "data-href", "data-url"},
		HandlerAttributes: []string{"onclick", "onmousedown", "onmouseup"},
		TabAttributes:     []string{"data-tab", "data-tab-id", "data-bs-target", "aria-controls"},
		ContainerTags:     []string{"nav", "menu"},
		ContainerRoles:    []string{"navigation", "menu", "menubar", "tablist"},
		ContainerClasses:  []string{"nav", "navbar", "menu", "tabs", "nav-tabs", "tab-list", "sidebar"},
	}
}

// LoadVocabulary reads a YAML (or JSON) file and merges it over the defaults:
// listed entries are added, nothing is removed.
func LoadVocabulary(path string) (Vocabulary, error) {
	v := DefaultVocabulary()
	if path == "" {
		return v, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("read vocabulary: %w", err)
	}
	var extra Vocabulary
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return v, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return v.Merge(extra), nil
}

// Merge returns the union of v and other, lower-cased and de-duplicated.
func (v Vocabulary) Merge(other Vocabulary) Vocabulary {
	union := func(a, b []string) []string {
		return lo.Uniq(lo.Map(append(append([]string(nil), a...), b...), func(s string, _ int) string {
			return strings.ToLower(strings.TrimSpace(s))
		}))
	}
	return Vocabulary{
		Tags:              union(v.Tags, other.Tags),
		Classes:           union(v.Classes, other.Classes),
		IDs:               union(v.IDs, other.IDs),
		Roles:             union(v.Roles, other.Roles),
		DataAttributes:    union(v.DataAttributes, other.DataAttributes),
		HandlerAttributes: union(v.HandlerAttributes, other.HandlerAttributes),
		TabAttributes:     union(v.TabAttributes, other.TabAttributes),
		ContainerTags:     union(v.ContainerTags, other.ContainerTags),
		ContainerRoles:    union(v.ContainerRoles, other.ContainerRoles),
		ContainerClasses:  union(v.ContainerClasses, other.ContainerClasses),
	}
}
