package model

import (
	"fmt"
	"sort"
	"strings"
)

// Mapping is a comma-separated mapping such as "DEP001=foo,DEP002=bar|baz".
type Mapping map[string][]string

// DefaultPackageModuleNames lists distributions whose import name differs
// from the package name. These entries always override user mappings.
var DefaultPackageModuleNames = map[string]string{
	"pillow":         "PIL",
	"beautifulsoup4": "bs4",
	"progressbar2":   "progressbar",
	"PyYAML":         "yaml",
}

// ParseCommaList splits a comma-separated value, trimming items and dropping empty ones.
func ParseCommaList(values ...string) []string {
	var out []string

	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}

			out = append(out, item)
		}
	}

	return out
}

// ParseMapping parses "key=a|b,other=c" into a Mapping.
func ParseMapping(value string) (Mapping, error) {
	out := Mapping{}

	for _, item := range ParseCommaList(value) {
		key, rawValues, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMapping, item)
		}

		var values []string

		for _, v := range strings.Split(rawValues, "|") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}

		out[key] = values
	}

	return out, nil
}

// String serialises the mapping with sorted keys.
func (m Mapping) String() string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	items := make([]string, 0, len(keys))
	for _, key := range keys {
		items = append(items, key+"="+strings.Join(m[key], "|"))
	}

	return strings.Join(items, ",")
}

// Merge copies entries from other over m.
func (m Mapping) Merge(other Mapping) {
	for key, values := range other {
		m[key] = append([]string(nil), values...)
	}
}

// DepsOptions are the dependency checker options forwarded on the command line.
type DepsOptions struct {
	Roots                        []Path
	Config                       Path
	NoANSI                       bool
	Verbose                      bool
	Ignore                       []string
	PerRuleIgnores               Mapping
	Exclude                      []string
	ExtendExclude                []string
	IgnoreNotebooks              bool
	RequirementsFiles            []string
	RequirementsFilesDev         []string
	KnownFirstParty              []string
	JSONOutput                   Path
	PackageModuleNameMap         Mapping
	PEP621DevDependencyGroups    []string
	ExperimentalNamespacePackage bool
}

// Pyproject holds the pyproject.toml fields pyrig reads.
type Pyproject struct {
	Path                 Path
	Found                bool
	Name                 string
	PackageModuleNameMap Mapping
}
