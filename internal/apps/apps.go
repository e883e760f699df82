// Package apps provides the read-only table mapping generic app names to
// platform-specific package identifiers.
package apps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Entry holds the package identifiers of one app. An empty field means the
// app is not available on that platform.
type Entry struct {
	IOS     string `mapstructure:"ios" json:"ios,omitempty"`
	Android string `mapstructure:"android" json:"android,omitempty"`
}

// Named pairs an app name with its entry.
type Named struct {
	Name string
	Entry
}

// Table is the lookup consumed by the prompt assembler.
type Table interface {
	// ByName returns the entry for a generic app name.
	ByName(name string) (Entry, bool)

	// All enumerates every app in ascending name order.
	All() []Named
}

// StaticTable is an immutable in-memory Table.
type StaticTable struct {
	entries map[string]Entry
	sorted  []Named
}

// NewStaticTable copies entries into a Table. Names are lowercased and
// trimmed; empty names are ignored.
func NewStaticTable(entries map[string]Entry) *StaticTable {
	t := &StaticTable{entries: make(map[string]Entry, len(entries))}
	for name, e := range entries {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		t.entries[name] = e
	}

	t.sorted = make([]Named, 0, len(t.entries))
	for name, e := range t.entries {
		t.sorted = append(t.sorted, Named{Name: name, Entry: e})
	}
	sort.Slice(t.sorted, func(i, j int) bool { return t.sorted[i].Name < t.sorted[j].Name })
	return t
}

// ByName implements Table.
func (t *StaticTable) ByName(name string) (Entry, bool) {
	e, ok := t.entries[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

// All implements Table.
func (t *StaticTable) All() []Named {
	out := make([]Named, len(t.sorted))
	copy(out, t.sorted)
	return out
}

// Len returns the number of apps in the table.
func (t *StaticTable) Len() int { return len(t.sorted) }

// Default returns the built-in table of common apps.
func Default() *StaticTable {
	return NewStaticTable(defaultEntries)
}

// LoadFile reads a YAML, JSON or TOML file of the form
//
//	apps:
//	  chrome:
//	    ios: com.google.chrome.ios
//	    android: com.android.chrome
//
// and merges it over the built-in table. File entries win.
func LoadFile(path string) (*StaticTable, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading app table: %w", err)
	}

	var file struct {
		Apps map[string]Entry `mapstructure:"apps"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("unmarshalling app table: %w", err)
	}

	merged := make(map[string]Entry, len(defaultEntries)+len(file.Apps))
	for name, e := range defaultEntries {
		merged[name] = e
	}
	for name, e := range file.Apps {
		merged[name] = e
	}
	return NewStaticTable(merged), nil
}

// Resolve rewrites a "launch <name>" argument to the package identifier for
// platform when the table knows the app. Unknown names are returned as is.
func Resolve(t Table, name, platform string) string {
	e, ok := t.ByName(name)
	if !ok {
		return name
	}
	switch platform {
	case "ios":
		if e.IOS != "" {
			return e.IOS
		}
	case "android":
		if e.Android != "" {
			return e.Android
		}
	}
	return name
}
