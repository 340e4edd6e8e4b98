package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cder-viz/cder/internal/config"
	"github.com/cder-viz/cder/internal/report"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in        string
		png, html bool
		wantErr   bool
	}{
		{"png,html", true, true, false},
		{"png", true, false, false},
		{" html ", false, true, false},
		{"html,,png", true, true, false},
		{"", false, false, true},
		{"svg", false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			png, html, err := parseFormats(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.png, png)
			assert.Equal(t, tt.html, html)
		})
	}
}

func TestSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	written, err := snapshot(config.DefaultDisplayConfig(), options{
		OutDir:  dir,
		Events:  2,
		PNG:     true,
		HTML:    true,
		Binning: report.DefaultBinning(),
	})
	require.NoError(t, err)
	require.Len(t, written, 4)

	assert.Equal(t, filepath.Join(dir, "event_0000.png"), written[0])
	assert.Equal(t, filepath.Join(dir, "event_0000.html"), written[1])
	for _, path := range written {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), path)
	}
}

func TestSnapshot_Invalid(t *testing.T) {
	_, err := snapshot(config.DefaultDisplayConfig(), options{OutDir: t.TempDir(), Events: 0, PNG: true, Binning: report.DefaultBinning()})
	assert.Error(t, err)

	_, err = snapshot(config.DefaultDisplayConfig(), options{OutDir: t.TempDir(), Events: 1, PNG: true})
	assert.ErrorIs(t, err, report.ErrInvalidBinning)
}
