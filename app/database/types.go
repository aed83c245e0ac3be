package database

import (
	"encoding/json"
	"fmt"
)

// Filters carries request-scoped article query criteria. Never persisted.
type Filters struct {
	Keyword  string
	Category string
	Source   string
	Author   string
	Date     string // calendar day, YYYY-MM-DD
}

// HasExplicit reports whether the caller supplied any of the three
// filters that override stored preferences.
func (f Filters) HasExplicit() bool {
	return f.Category != "" || f.Source != "" || f.Author != ""
}

// PreferenceSet is the typed form of the stored preference blob.
type PreferenceSet struct {
	Sources    []string `json:"sources"`
	Categories []string `json:"categories"`
	Authors    []string `json:"authors"`
}

// ParsePreferenceSet decodes a raw preference blob. The raw JSON never
// travels past this boundary.
func ParsePreferenceSet(raw string) (*PreferenceSet, error) {
	var prefs PreferenceSet
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return &prefs, nil
}
