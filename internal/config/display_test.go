package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestDefaultDisplayConfig(t *testing.T) {
	cfg := DefaultDisplayConfig()

	// Test that defaults are set via pointers
	if cfg.DisplayEM == nil || *cfg.DisplayEM != true {
		t.Errorf("Expected DisplayEM true, got %v", cfg.DisplayEM)
	}
	if cfg.EMPhiDivisions == nil || *cfg.EMPhiDivisions != 30 {
		t.Errorf("Expected EMPhiDivisions 30, got %v", cfg.EMPhiDivisions)
	}
	if cfg.RefreshRate == nil || *cfg.RefreshRate != 30 {
		t.Errorf("Expected RefreshRate 30, got %v", cfg.RefreshRate)
	}
	if !reflect.DeepEqual(cfg.HADGapSlots, []int{2, 7}) {
		t.Errorf("Expected HADGapSlots [2 7], got %v", cfg.HADGapSlots)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
	if cfg.GetFrameInterval() != time.Second/30 {
		t.Errorf("GetFrameInterval() = %v, want %v", cfg.GetFrameInterval(), time.Second/30)
	}
}

func TestLoadDisplayConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "display_had": true,
  "em_phi_divisions": 64,
  "had_gap_slots": [3],
  "rotation_speed_deg": 25,
  "event_seed": 99,
  "min_pt_gev": 5
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadDisplayConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !cfg.GetDisplayHAD() {
		t.Errorf("Expected DisplayHAD true")
	}
	if cfg.GetEMPhiDivisions() != 64 {
		t.Errorf("Expected EMPhiDivisions 64, got %d", cfg.GetEMPhiDivisions())
	}
	if !reflect.DeepEqual(cfg.GetHADGapSlots(), []int{3}) {
		t.Errorf("Expected HADGapSlots [3], got %v", cfg.GetHADGapSlots())
	}
	if cfg.GetRotationSpeedDeg() != 25 {
		t.Errorf("Expected RotationSpeedDeg 25, got %f", cfg.GetRotationSpeedDeg())
	}
	if cfg.GetEventSeed() != 99 {
		t.Errorf("Expected EventSeed 99, got %d", cfg.GetEventSeed())
	}
	if cfg.GetMinPtGeV() != 5 {
		t.Errorf("Expected MinPtGeV 5, got %f", cfg.GetMinPtGeV())
	}

	// Defaults for omitted keys
	if !cfg.GetDisplayEM() {
		t.Errorf("Expected default DisplayEM true")
	}
	if cfg.GetEMEtaDivisions() != 13 {
		t.Errorf("Expected default EMEtaDivisions 13, got %d", cfg.GetEMEtaDivisions())
	}
	if cfg.GetMaxZoom() != 30 {
		t.Errorf("Expected default MaxZoom 30, got %f", cfg.GetMaxZoom())
	}
}

func TestLoadDisplayConfigMissing(t *testing.T) {
	_, err := LoadDisplayConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadDisplayConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")

	invalidJSON := `{
  "em_inner_radius": "wide"
`
	if err := os.WriteFile(configPath, []byte(invalidJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadDisplayConfig(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestLoadDisplayConfigRejectsInvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad_values.json")

	if err := os.WriteFile(configPath, []byte(`{"em_inner_radius": 3.0}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadDisplayConfig(configPath)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DisplayConfig)
		wantErr bool
	}{
		{"defaults", func(*DisplayConfig) {}, false},
		{"empty config is valid", func(c *DisplayConfig) { *c = DisplayConfig{} }, false},
		{"em radii inverted", func(c *DisplayConfig) { c.EMInnerRadius = ptrFloat64(2.0) }, true},
		{"had radii equal", func(c *DisplayConfig) { c.HADInnerRadius = ptrFloat64(3.0) }, true},
		{"negative inner radius", func(c *DisplayConfig) { c.EMInnerRadius = ptrFloat64(-1) }, true},
		{"zero eta range", func(c *DisplayConfig) { c.EMMaxAbsEta = ptrFloat64(0) }, true},
		{"zero z range", func(c *DisplayConfig) { c.HADMaxAbsZ = ptrFloat64(0) }, true},
		{"endcap thickness 1", func(c *DisplayConfig) { c.EMEndcapThickness = ptrFloat64(1) }, true},
		{"one eta division", func(c *DisplayConfig) { c.EMEtaDivisions = ptrInt(1) }, true},
		{"zero phi divisions", func(c *DisplayConfig) { c.HADPhiDivisions = ptrInt(0) }, true},
		{"gap slot out of range", func(c *DisplayConfig) { c.HADGapSlots = []int{10} }, true},
		{"base opacity above 1", func(c *DisplayConfig) { c.BaseOpacity = ptrFloat64(1.2) }, true},
		{"zero base opacity", func(c *DisplayConfig) { c.BaseOpacity = ptrFloat64(0) }, false},
		{"negative particle speed", func(c *DisplayConfig) { c.ParticleSpeed = ptrFloat64(-0.01) }, true},
		{"zero particle speed", func(c *DisplayConfig) { c.ParticleSpeed = ptrFloat64(0) }, false},
		{"negative ceiling", func(c *DisplayConfig) { c.HADCeiling = ptrFloat64(-0.1) }, true},
		{"zero refresh rate", func(c *DisplayConfig) { c.RefreshRate = ptrInt(0) }, true},
		{"pitch beyond vertical", func(c *DisplayConfig) { c.MaxPitch = ptrFloat64(120) }, true},
		{"pitch range inverted", func(c *DisplayConfig) { c.MinPitch = ptrFloat64(10); c.MaxPitch = ptrFloat64(5) }, true},
		{"zero min zoom", func(c *DisplayConfig) { c.MinZoom = ptrFloat64(0) }, true},
		{"zoom range inverted", func(c *DisplayConfig) { c.MinZoom = ptrFloat64(40) }, true},
		{"no events", func(c *DisplayConfig) { c.EventCount = ptrInt(0) }, true},
		{"negative jets", func(c *DisplayConfig) { c.MaxJets = ptrInt(-1) }, true},
		{"btag probability", func(c *DisplayConfig) { c.BTagProbability = ptrFloat64(2) }, true},
		{"zero min pt", func(c *DisplayConfig) { c.MinPtGeV = ptrFloat64(0) }, true},
		{"zero event eta", func(c *DisplayConfig) { c.MaxAbsEta = ptrFloat64(0) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDisplayConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want wrapped ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	cfg, err := LoadDisplayConfig("../../config/cder.defaults.json")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}

	// The file and the getters must agree.
	if !reflect.DeepEqual(cfg, DefaultDisplayConfig()) {
		t.Errorf("config/cder.defaults.json drifted from the getter defaults:\nfile: %+v\ngetters: %+v",
			cfg, DefaultDisplayConfig())
	}
}

func TestLoadExampleConfigFile(t *testing.T) {
	cfg, err := LoadDisplayConfig("../../config/cder.example.json")
	if err != nil {
		t.Fatalf("Failed to load example: %v", err)
	}
	if !cfg.GetDisplayHAD() {
		t.Errorf("Expected DisplayHAD true")
	}
	if cfg.GetEMPhiDivisions() != 64 {
		t.Errorf("Expected 64, got %d", cfg.GetEMPhiDivisions())
	}
	if cfg.GetEventCount() != 25 {
		t.Errorf("Expected 25, got %d", cfg.GetEventCount())
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetEMEtaDivisions() != 13 {
		t.Errorf("Expected 13, got %d", cfg.GetEMEtaDivisions())
	}
}

func TestLoadDisplayConfigRejectsNonJSON(t *testing.T) {
	_, err := LoadDisplayConfig("/some/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-.json extension, got nil")
	}
}

func TestLoadDisplayConfigRejectsLargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "large.json")

	largeData := make([]byte, 2*1024*1024) // 2MB
	if err := os.WriteFile(configPath, largeData, 0644); err != nil {
		t.Fatalf("Failed to write large file: %v", err)
	}

	_, err := LoadDisplayConfig(configPath)
	if err == nil {
		t.Error("Expected error for file size > 1MB, got nil")
	}
}

func TestGetHADGapSlotsReturnsCopy(t *testing.T) {
	cfg := &DisplayConfig{HADGapSlots: []int{1, 4}}
	slots := cfg.GetHADGapSlots()
	slots[0] = 9
	if cfg.HADGapSlots[0] != 1 {
		t.Errorf("GetHADGapSlots leaked its backing array")
	}
}
