package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical display defaults file.
// This is the single source of truth for all default values.
const DefaultConfigPath = "config/cder.defaults.json"

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// DisplayConfig represents the root configuration of the viewer and the
// snapshot tool. Every field is optional; the Get* methods fall back to the
// defaults in DefaultConfigPath.
type DisplayConfig struct {
	// Calorimeters to show
	DisplayEM         *bool `json:"display_em,omitempty"`
	DisplayHAD        *bool `json:"display_had,omitempty"`
	AssemblyAnimation *bool `json:"assembly_animation,omitempty"`

	// Particle trail growth per 1/30 s for each unit of ln(pt/GeV); 0 draws
	// trails at full length straight away.
	ParticleSpeed *float64 `json:"particle_speed,omitempty"`

	// Electromagnetic calorimeter geometry
	EMInnerRadius     *float64 `json:"em_inner_radius,omitempty"`
	EMOuterRadius     *float64 `json:"em_outer_radius,omitempty"`
	EMMaxAbsEta       *float64 `json:"em_max_abs_eta,omitempty"`
	EMEtaDivisions    *int     `json:"em_eta_divisions,omitempty"`
	EMPhiDivisions    *int     `json:"em_phi_divisions,omitempty"`
	EMEndcapThickness *float64 `json:"em_endcap_thickness,omitempty"`

	// Hadronic calorimeter geometry
	HADInnerRadius  *float64 `json:"had_inner_radius,omitempty"`
	HADOuterRadius  *float64 `json:"had_outer_radius,omitempty"`
	HADMaxAbsZ      *float64 `json:"had_max_abs_z,omitempty"`
	HADZDivisions   *int     `json:"had_z_divisions,omitempty"`
	HADPhiDivisions *int     `json:"had_phi_divisions,omitempty"`
	HADGapSlots     []int    `json:"had_gap_slots,omitempty"`

	// Cell opacity
	BaseOpacity *float64 `json:"base_opacity,omitempty"`
	EMCeiling   *float64 `json:"em_ceiling,omitempty"`
	HADCeiling  *float64 `json:"had_ceiling,omitempty"`

	// Camera
	RefreshRate      *int     `json:"refresh_rate,omitempty"` // frames per second
	YawSpeed         *float64 `json:"yaw_speed,omitempty"`
	PitchSpeed       *float64 `json:"pitch_speed,omitempty"`
	ZoomSpeed        *float64 `json:"zoom_speed,omitempty"`
	MinPitch         *float64 `json:"min_pitch,omitempty"` // degrees
	MaxPitch         *float64 `json:"max_pitch,omitempty"` // degrees
	MinZoom          *float64 `json:"min_zoom,omitempty"`
	MaxZoom          *float64 `json:"max_zoom,omitempty"`
	RotationSpeedDeg *float64 `json:"rotation_speed_deg,omitempty"` // degrees per second

	// Event generator
	EventSeed       *int64   `json:"event_seed,omitempty"`
	EventCount      *int     `json:"event_count,omitempty"`
	MaxJets         *int     `json:"max_jets,omitempty"`
	MaxTaus         *int     `json:"max_taus,omitempty"`
	MaxElectrons    *int     `json:"max_electrons,omitempty"`
	MaxMuons        *int     `json:"max_muons,omitempty"`
	MaxPhotons      *int     `json:"max_photons,omitempty"`
	BTagProbability *float64 `json:"btag_probability,omitempty"`
	MinPtGeV        *float64 `json:"min_pt_gev,omitempty"`
	PtScaleGeV      *float64 `json:"pt_scale_gev,omitempty"`
	MaxAbsEta       *float64 `json:"max_abs_eta,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }

// EmptyDisplayConfig returns a DisplayConfig with all fields set to nil.
// Use LoadDisplayConfig to load actual values from the defaults file.
func EmptyDisplayConfig() *DisplayConfig {
	return &DisplayConfig{}
}

// DefaultDisplayConfig returns a DisplayConfig with every field set to the
// value its getter falls back to.
func DefaultDisplayConfig() *DisplayConfig {
	e := EmptyDisplayConfig()
	return &DisplayConfig{
		DisplayEM:         ptrBool(e.GetDisplayEM()),
		DisplayHAD:        ptrBool(e.GetDisplayHAD()),
		AssemblyAnimation: ptrBool(e.GetAssemblyAnimation()),
		ParticleSpeed:     ptrFloat64(e.GetParticleSpeed()),

		EMInnerRadius:     ptrFloat64(e.GetEMInnerRadius()),
		EMOuterRadius:     ptrFloat64(e.GetEMOuterRadius()),
		EMMaxAbsEta:       ptrFloat64(e.GetEMMaxAbsEta()),
		EMEtaDivisions:    ptrInt(e.GetEMEtaDivisions()),
		EMPhiDivisions:    ptrInt(e.GetEMPhiDivisions()),
		EMEndcapThickness: ptrFloat64(e.GetEMEndcapThickness()),

		HADInnerRadius:  ptrFloat64(e.GetHADInnerRadius()),
		HADOuterRadius:  ptrFloat64(e.GetHADOuterRadius()),
		HADMaxAbsZ:      ptrFloat64(e.GetHADMaxAbsZ()),
		HADZDivisions:   ptrInt(e.GetHADZDivisions()),
		HADPhiDivisions: ptrInt(e.GetHADPhiDivisions()),
		HADGapSlots:     e.GetHADGapSlots(),

		BaseOpacity: ptrFloat64(e.GetBaseOpacity()),
		EMCeiling:   ptrFloat64(e.GetEMCeiling()),
		HADCeiling:  ptrFloat64(e.GetHADCeiling()),

		RefreshRate:      ptrInt(e.GetRefreshRate()),
		YawSpeed:         ptrFloat64(e.GetYawSpeed()),
		PitchSpeed:       ptrFloat64(e.GetPitchSpeed()),
		ZoomSpeed:        ptrFloat64(e.GetZoomSpeed()),
		MinPitch:         ptrFloat64(e.GetMinPitch()),
		MaxPitch:         ptrFloat64(e.GetMaxPitch()),
		MinZoom:          ptrFloat64(e.GetMinZoom()),
		MaxZoom:          ptrFloat64(e.GetMaxZoom()),
		RotationSpeedDeg: ptrFloat64(e.GetRotationSpeedDeg()),

		EventSeed:       ptrInt64(e.GetEventSeed()),
		EventCount:      ptrInt(e.GetEventCount()),
		MaxJets:         ptrInt(e.GetMaxJets()),
		MaxTaus:         ptrInt(e.GetMaxTaus()),
		MaxElectrons:    ptrInt(e.GetMaxElectrons()),
		MaxMuons:        ptrInt(e.GetMaxMuons()),
		MaxPhotons:      ptrInt(e.GetMaxPhotons()),
		BTagProbability: ptrFloat64(e.GetBTagProbability()),
		MinPtGeV:        ptrFloat64(e.GetMinPtGeV()),
		PtScaleGeV:      ptrFloat64(e.GetPtScaleGeV()),
		MaxAbsEta:       ptrFloat64(e.GetMaxAbsEta()),
	}
}

// LoadDisplayConfig loads a DisplayConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file fall back to their defaults, so
// partial configs are safe.
func LoadDisplayConfig(path string) (*DisplayConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyDisplayConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *DisplayConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,          // from cmd/
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/render/term/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadDisplayConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. Geometry is
// checked again, in full, when the calorimeters are built.
func (c *DisplayConfig) Validate() error {
	if c.GetEMInnerRadius() < 0 || c.GetEMInnerRadius() >= c.GetEMOuterRadius() {
		return fmt.Errorf("%w: em_inner_radius %g must be in [0, em_outer_radius %g)",
			ErrInvalidConfig, c.GetEMInnerRadius(), c.GetEMOuterRadius())
	}
	if c.GetHADInnerRadius() < 0 || c.GetHADInnerRadius() >= c.GetHADOuterRadius() {
		return fmt.Errorf("%w: had_inner_radius %g must be in [0, had_outer_radius %g)",
			ErrInvalidConfig, c.GetHADInnerRadius(), c.GetHADOuterRadius())
	}
	if c.GetEMMaxAbsEta() <= 0 {
		return fmt.Errorf("%w: em_max_abs_eta must be positive, got %g", ErrInvalidConfig, c.GetEMMaxAbsEta())
	}
	if c.GetHADMaxAbsZ() <= 0 {
		return fmt.Errorf("%w: had_max_abs_z must be positive, got %g", ErrInvalidConfig, c.GetHADMaxAbsZ())
	}
	if t := c.GetEMEndcapThickness(); t <= 0 || t >= 1 {
		return fmt.Errorf("%w: em_endcap_thickness must be in (0, 1), got %g", ErrInvalidConfig, t)
	}

	divisions := []struct {
		key string
		v   int
		min int
	}{
		{"em_eta_divisions", c.GetEMEtaDivisions(), 2},
		{"em_phi_divisions", c.GetEMPhiDivisions(), 1},
		{"had_z_divisions", c.GetHADZDivisions(), 2},
		{"had_phi_divisions", c.GetHADPhiDivisions(), 1},
	}
	for _, d := range divisions {
		if d.v < d.min {
			return fmt.Errorf("%w: %s must be at least %d, got %d", ErrInvalidConfig, d.key, d.min, d.v)
		}
	}
	for _, slot := range c.GetHADGapSlots() {
		if slot < 0 || slot >= c.GetHADZDivisions() {
			return fmt.Errorf("%w: had_gap_slots entry %d outside [0, %d)", ErrInvalidConfig, slot, c.GetHADZDivisions())
		}
	}

	fractions := []struct {
		key string
		v   float64
	}{
		{"base_opacity", c.GetBaseOpacity()},
		{"em_ceiling", c.GetEMCeiling()},
		{"had_ceiling", c.GetHADCeiling()},
		{"btag_probability", c.GetBTagProbability()},
	}
	for _, f := range fractions {
		if f.v < 0 || f.v > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1, got %g", ErrInvalidConfig, f.key, f.v)
		}
	}

	if v := c.GetParticleSpeed(); v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: particle_speed must be finite and non-negative, got %g", ErrInvalidConfig, v)
	}

	if c.GetRefreshRate() <= 0 {
		return fmt.Errorf("%w: refresh_rate must be positive, got %d", ErrInvalidConfig, c.GetRefreshRate())
	}
	if c.GetMinPitch() < -90 || c.GetMaxPitch() > 90 || c.GetMinPitch() > c.GetMaxPitch() {
		return fmt.Errorf("%w: pitch range [%g, %g] must lie within [-90, 90]",
			ErrInvalidConfig, c.GetMinPitch(), c.GetMaxPitch())
	}
	if c.GetMinZoom() <= 0 || c.GetMinZoom() > c.GetMaxZoom() {
		return fmt.Errorf("%w: zoom range [%g, %g] must be positive and ordered",
			ErrInvalidConfig, c.GetMinZoom(), c.GetMaxZoom())
	}

	if c.GetEventCount() < 1 {
		return fmt.Errorf("%w: event_count must be at least 1, got %d", ErrInvalidConfig, c.GetEventCount())
	}
	counts := []struct {
		key string
		v   int
	}{
		{"max_jets", c.GetMaxJets()},
		{"max_taus", c.GetMaxTaus()},
		{"max_electrons", c.GetMaxElectrons()},
		{"max_muons", c.GetMaxMuons()},
		{"max_photons", c.GetMaxPhotons()},
	}
	for _, n := range counts {
		if n.v < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %d", ErrInvalidConfig, n.key, n.v)
		}
	}
	if c.GetMinPtGeV() <= 0 || c.GetPtScaleGeV() < 0 {
		return fmt.Errorf("%w: min_pt_gev %g must be positive and pt_scale_gev %g non-negative",
			ErrInvalidConfig, c.GetMinPtGeV(), c.GetPtScaleGeV())
	}
	if c.GetMaxAbsEta() <= 0 {
		return fmt.Errorf("%w: max_abs_eta must be positive, got %g", ErrInvalidConfig, c.GetMaxAbsEta())
	}

	return nil
}

// GetFrameInterval returns the frame period derived from refresh_rate.
func (c *DisplayConfig) GetFrameInterval() time.Duration {
	return time.Second / time.Duration(c.GetRefreshRate())
}

// GetDisplayEM returns the display_em value or the default.
func (c *DisplayConfig) GetDisplayEM() bool {
	if c.DisplayEM == nil {
		return true
	}
	return *c.DisplayEM
}

// GetDisplayHAD returns the display_had value or the default.
func (c *DisplayConfig) GetDisplayHAD() bool {
	if c.DisplayHAD == nil {
		return false
	}
	return *c.DisplayHAD
}

// GetAssemblyAnimation returns the assembly_animation value or the default.
func (c *DisplayConfig) GetAssemblyAnimation() bool {
	if c.AssemblyAnimation == nil {
		return true
	}
	return *c.AssemblyAnimation
}

// GetParticleSpeed returns the particle_speed value or the default.
func (c *DisplayConfig) GetParticleSpeed() float64 {
	if c.ParticleSpeed == nil {
		return 0.01
	}
	return *c.ParticleSpeed
}

// GetEMInnerRadius returns the em_inner_radius value or the default.
func (c *DisplayConfig) GetEMInnerRadius() float64 {
	if c.EMInnerRadius == nil {
		return 1.5
	}
	return *c.EMInnerRadius
}

// GetEMOuterRadius returns the em_outer_radius value or the default.
func (c *DisplayConfig) GetEMOuterRadius() float64 {
	if c.EMOuterRadius == nil {
		return 1.95
	}
	return *c.EMOuterRadius
}

// GetEMMaxAbsEta returns the em_max_abs_eta value or the default.
func (c *DisplayConfig) GetEMMaxAbsEta() float64 {
	if c.EMMaxAbsEta == nil {
		return 1.475
	}
	return *c.EMMaxAbsEta
}

// GetEMEtaDivisions returns the em_eta_divisions value or the default.
func (c *DisplayConfig) GetEMEtaDivisions() int {
	if c.EMEtaDivisions == nil {
		return 13
	}
	return *c.EMEtaDivisions
}

// GetEMPhiDivisions returns the em_phi_divisions value or the default.
func (c *DisplayConfig) GetEMPhiDivisions() int {
	if c.EMPhiDivisions == nil {
		return 30
	}
	return *c.EMPhiDivisions
}

// GetEMEndcapThickness returns the em_endcap_thickness value or the default.
func (c *DisplayConfig) GetEMEndcapThickness() float64 {
	if c.EMEndcapThickness == nil {
		return 0.2
	}
	return *c.EMEndcapThickness
}

// GetHADInnerRadius returns the had_inner_radius value or the default.
func (c *DisplayConfig) GetHADInnerRadius() float64 {
	if c.HADInnerRadius == nil {
		return 2.2
	}
	return *c.HADInnerRadius
}

// GetHADOuterRadius returns the had_outer_radius value or the default.
func (c *DisplayConfig) GetHADOuterRadius() float64 {
	if c.HADOuterRadius == nil {
		return 3.0
	}
	return *c.HADOuterRadius
}

// GetHADMaxAbsZ returns the had_max_abs_z value or the default.
func (c *DisplayConfig) GetHADMaxAbsZ() float64 {
	if c.HADMaxAbsZ == nil {
		return 4.3
	}
	return *c.HADMaxAbsZ
}

// GetHADZDivisions returns the had_z_divisions value or the default.
func (c *DisplayConfig) GetHADZDivisions() int {
	if c.HADZDivisions == nil {
		return 10
	}
	return *c.HADZDivisions
}

// GetHADPhiDivisions returns the had_phi_divisions value or the default.
func (c *DisplayConfig) GetHADPhiDivisions() int {
	if c.HADPhiDivisions == nil {
		return 15
	}
	return *c.HADPhiDivisions
}

// GetHADGapSlots returns a copy of had_gap_slots or the default. An explicit
// empty list in JSON is indistinguishable from an omitted one.
func (c *DisplayConfig) GetHADGapSlots() []int {
	if len(c.HADGapSlots) == 0 {
		return []int{2, 7}
	}
	return append([]int(nil), c.HADGapSlots...)
}

// GetBaseOpacity returns the base_opacity value or the default.
func (c *DisplayConfig) GetBaseOpacity() float64 {
	if c.BaseOpacity == nil {
		return 0.05
	}
	return *c.BaseOpacity
}

// GetEMCeiling returns the em_ceiling value or the default.
func (c *DisplayConfig) GetEMCeiling() float64 {
	if c.EMCeiling == nil {
		return 0.4
	}
	return *c.EMCeiling
}

// GetHADCeiling returns the had_ceiling value or the default.
func (c *DisplayConfig) GetHADCeiling() float64 {
	if c.HADCeiling == nil {
		return 0.2
	}
	return *c.HADCeiling
}

// GetRefreshRate returns the refresh_rate value or the default.
func (c *DisplayConfig) GetRefreshRate() int {
	if c.RefreshRate == nil {
		return 30
	}
	return *c.RefreshRate
}

// GetYawSpeed returns the yaw_speed value or the default.
func (c *DisplayConfig) GetYawSpeed() float64 {
	if c.YawSpeed == nil {
		return 0.5
	}
	return *c.YawSpeed
}

// GetPitchSpeed returns the pitch_speed value or the default.
func (c *DisplayConfig) GetPitchSpeed() float64 {
	if c.PitchSpeed == nil {
		return 0.5
	}
	return *c.PitchSpeed
}

// GetZoomSpeed returns the zoom_speed value or the default.
func (c *DisplayConfig) GetZoomSpeed() float64 {
	if c.ZoomSpeed == nil {
		return 0.5
	}
	return *c.ZoomSpeed
}

// GetMinPitch returns the min_pitch value or the default.
func (c *DisplayConfig) GetMinPitch() float64 {
	if c.MinPitch == nil {
		return -90
	}
	return *c.MinPitch
}

// GetMaxPitch returns the max_pitch value or the default.
func (c *DisplayConfig) GetMaxPitch() float64 {
	if c.MaxPitch == nil {
		return 90
	}
	return *c.MaxPitch
}

// GetMinZoom returns the min_zoom value or the default.
func (c *DisplayConfig) GetMinZoom() float64 {
	if c.MinZoom == nil {
		return 3
	}
	return *c.MinZoom
}

// GetMaxZoom returns the max_zoom value or the default.
func (c *DisplayConfig) GetMaxZoom() float64 {
	if c.MaxZoom == nil {
		return 30
	}
	return *c.MaxZoom
}

// GetRotationSpeedDeg returns the rotation_speed_deg value or the default.
func (c *DisplayConfig) GetRotationSpeedDeg() float64 {
	if c.RotationSpeedDeg == nil {
		return 10
	}
	return *c.RotationSpeedDeg
}

// GetEventSeed returns the event_seed value or the default.
func (c *DisplayConfig) GetEventSeed() int64 {
	if c.EventSeed == nil {
		return 1
	}
	return *c.EventSeed
}

// GetEventCount returns the event_count value or the default.
func (c *DisplayConfig) GetEventCount() int {
	if c.EventCount == nil {
		return 100
	}
	return *c.EventCount
}

// GetMaxJets returns the max_jets value or the default.
func (c *DisplayConfig) GetMaxJets() int {
	if c.MaxJets == nil {
		return 6
	}
	return *c.MaxJets
}

// GetMaxTaus returns the max_taus value or the default.
func (c *DisplayConfig) GetMaxTaus() int {
	if c.MaxTaus == nil {
		return 2
	}
	return *c.MaxTaus
}

// GetMaxElectrons returns the max_electrons value or the default.
func (c *DisplayConfig) GetMaxElectrons() int {
	if c.MaxElectrons == nil {
		return 2
	}
	return *c.MaxElectrons
}

// GetMaxMuons returns the max_muons value or the default.
func (c *DisplayConfig) GetMaxMuons() int {
	if c.MaxMuons == nil {
		return 2
	}
	return *c.MaxMuons
}

// GetMaxPhotons returns the max_photons value or the default.
func (c *DisplayConfig) GetMaxPhotons() int {
	if c.MaxPhotons == nil {
		return 2
	}
	return *c.MaxPhotons
}

// GetBTagProbability returns the btag_probability value or the default.
func (c *DisplayConfig) GetBTagProbability() float64 {
	if c.BTagProbability == nil {
		return 0.2
	}
	return *c.BTagProbability
}

// GetMinPtGeV returns the min_pt_gev value or the default.
func (c *DisplayConfig) GetMinPtGeV() float64 {
	if c.MinPtGeV == nil {
		return 20
	}
	return *c.MinPtGeV
}

// GetPtScaleGeV returns the pt_scale_gev value or the default.
func (c *DisplayConfig) GetPtScaleGeV() float64 {
	if c.PtScaleGeV == nil {
		return 40
	}
	return *c.PtScaleGeV
}

// GetMaxAbsEta returns the max_abs_eta value or the default.
func (c *DisplayConfig) GetMaxAbsEta() float64 {
	if c.MaxAbsEta == nil {
		return 2.5
	}
	return *c.MaxAbsEta
}
