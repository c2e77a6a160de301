package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapNameFromFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  error
	}{
		{"static zip", "static_data_town01.zip", "town01", nil},
		{"static zip with path", "/data/static_data_town10HD.zip", "town10HD", nil},
		{"dynamic json", "dynamic_data_town01_seed4.json", "town01", nil},
		{"dynamic zip", "dynamic_data_town02_seed12.zip", "town02", nil},
		{"empty is test fixture", "", "test_case", nil},
		{"unrelated file", "notes.txt", "", ErrUnknownFilenameFormat},
		{"dynamic without seed", "dynamic_data_town01.json", "", ErrUnknownFilenameFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapNameFromFile(tt.filename)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeedFromFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     int
		wantErr  error
	}{
		{"dynamic json", "dynamic_data_town01_seed4.json", 4, nil},
		{"dynamic zip large seed", "dynamic_data_town02_seed1234.zip", 1234, nil},
		{"dynamic with path", "/runs/dynamic_data_town01_seed0.json", 0, nil},
		{"empty is seed zero", "", 0, nil},
		{"static has no seed", "static_data_town01.zip", 0, ErrNotADynamicFile},
		{"unrelated file", "whatever.json", 0, ErrUnknownFilenameFormat},
		{"non-numeric seed", "dynamic_data_town01_seedX.json", 0, ErrUnknownFilenameFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SeedFromFile(tt.filename)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
