// Package parser reads the recorded trace files: it decodes static map
// and dynamic tick documents (plain JSON or single-entry zip archives)
// and parses the filename conventions that carry map name and seed.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrUnknownFilenameFormat is returned for filenames matching neither
	// the static nor the dynamic convention.
	ErrUnknownFilenameFormat = errors.New("unknown filename format")

	// ErrNotADynamicFile is returned when a seed is requested from a
	// static-data filename.
	ErrNotADynamicFile = errors.New("not a dynamic data file")
)

const (
	staticPrefix  = "static_data_"
	dynamicPrefix = "dynamic_data_"
	seedMarker    = "_seed"

	// defaultMapName is used for empty filenames in test fixtures.
	defaultMapName = "test_case"
)

// MapNameFromFile extracts the map name from a trace filename.
// Empty filenames yield the test fixture map name.
func MapNameFromFile(filename string) (string, error) {
	if filename == "" {
		return defaultMapName, nil
	}
	name := filepath.Base(filename)
	if strings.HasPrefix(name, staticPrefix) && strings.HasSuffix(name, ".zip") {
		return strings.TrimSuffix(strings.TrimPrefix(name, staticPrefix), ".zip"), nil
	}
	if strings.HasPrefix(name, dynamicPrefix) {
		rest := strings.TrimPrefix(name, dynamicPrefix)
		if idx := strings.Index(rest, seedMarker); idx > 0 {
			return rest[:idx], nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilenameFormat, filename)
}

// SeedFromFile extracts the integer seed from a dynamic-data filename.
// Empty filenames yield seed 0; static-data filenames carry no seed.
func SeedFromFile(filename string) (int, error) {
	if filename == "" {
		return 0, nil
	}
	name := filepath.Base(filename)
	if strings.HasPrefix(name, staticPrefix) && strings.HasSuffix(name, ".zip") {
		return 0, fmt.Errorf("%w: %q", ErrNotADynamicFile, filename)
	}
	if strings.HasPrefix(name, dynamicPrefix) {
		rest := strings.TrimPrefix(name, dynamicPrefix)
		idx := strings.Index(rest, seedMarker)
		if idx > 0 {
			seedPart := rest[idx+len(seedMarker):]
			if dot := strings.IndexByte(seedPart, '.'); dot >= 0 {
				seedPart = seedPart[:dot]
			}
			seed, err := strconv.Atoi(seedPart)
			if err == nil {
				return seed, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFilenameFormat, filename)
}
