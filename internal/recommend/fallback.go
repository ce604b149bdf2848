// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package recommend

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fallback_catalog.yaml
var defaultFallbackYAML []byte

// DefaultFallbackCatalog returns the embedded fallback dataset.
func DefaultFallbackCatalog() []CatalogItem {
	items, err := ParseFallbackCatalog(defaultFallbackYAML)
	if err != nil {
		// The embedded file is part of the build.
		panic(fmt.Sprintf("embedded fallback catalog: %v", err))
	}
	return items
}

// LoadFallbackCatalog reads a fallback dataset from a YAML file.
func LoadFallbackCatalog(path string) ([]CatalogItem, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read fallback catalog: %w", err)
	}
	return ParseFallbackCatalog(data)
}

// ParseFallbackCatalog decodes a YAML list of catalog items. Every item needs
// an ID and a name, and IDs must be unique.
func ParseFallbackCatalog(data []byte) ([]CatalogItem, error) {
	var items []CatalogItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse fallback catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" || it.Name == "" {
			return nil, fmt.Errorf("fallback catalog item %d: id and name are required", i)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("fallback catalog item %d: duplicate id %q", i, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return items, nil
}
