package display

import (
	"fmt"

	"github.com/cder-viz/cder/internal/calorimeter"
	"github.com/cder-viz/cder/internal/config"
	"github.com/cder-viz/cder/internal/event"
	"github.com/cder-viz/cder/internal/particle"
	"github.com/cder-viz/cder/internal/units"
)

// EMGeometry reads the electromagnetic layout from cfg.
func EMGeometry(cfg *config.DisplayConfig) calorimeter.EMGeometry {
	return calorimeter.EMGeometry{
		InnerRadius:     cfg.GetEMInnerRadius(),
		OuterRadius:     cfg.GetEMOuterRadius(),
		MaxAbsEta:       cfg.GetEMMaxAbsEta(),
		EtaDivisions:    cfg.GetEMEtaDivisions(),
		PhiDivisions:    cfg.GetEMPhiDivisions(),
		EndcapThickness: cfg.GetEMEndcapThickness(),
	}
}

// HADGeometry reads the hadronic layout from cfg.
func HADGeometry(cfg *config.DisplayConfig) calorimeter.HADGeometry {
	return calorimeter.HADGeometry{
		InnerRadius:  cfg.GetHADInnerRadius(),
		OuterRadius:  cfg.GetHADOuterRadius(),
		MaxAbsZ:      cfg.GetHADMaxAbsZ(),
		ZDivisions:   cfg.GetHADZDivisions(),
		PhiDivisions: cfg.GetHADPhiDivisions(),
		GapSlots:     cfg.GetHADGapSlots(),
	}
}

// CameraLimitsFrom reads camera bounds and speeds from cfg.
func CameraLimitsFrom(cfg *config.DisplayConfig) CameraLimits {
	return CameraLimits{
		MinPitch:      cfg.GetMinPitch(),
		MaxPitch:      cfg.GetMaxPitch(),
		MinZoom:       cfg.GetMinZoom(),
		MaxZoom:       cfg.GetMaxZoom(),
		YawSpeed:      cfg.GetYawSpeed(),
		PitchSpeed:    cfg.GetPitchSpeed(),
		ZoomSpeed:     cfg.GetZoomSpeed(),
		RotationSpeed: cfg.GetRotationSpeedDeg(),
	}
}

// GeneratorConfig reads the event generator settings from cfg. Particles
// stop at the configured electromagnetic envelope.
func GeneratorConfig(cfg *config.DisplayConfig) event.GeneratorConfig {
	return event.GeneratorConfig{
		Seed: cfg.GetEventSeed(),
		Max: event.Multiplicity{
			Jets:      cfg.GetMaxJets(),
			Taus:      cfg.GetMaxTaus(),
			Electrons: cfg.GetMaxElectrons(),
			Muons:     cfg.GetMaxMuons(),
			Photons:   cfg.GetMaxPhotons(),
		},
		BTagProbability: cfg.GetBTagProbability(),
		MinPt:           units.ToMeV(cfg.GetMinPtGeV(), units.GeV),
		PtScale:         units.ToMeV(cfg.GetPtScaleGeV(), units.GeV),
		MaxAbsEta:       cfg.GetMaxAbsEta(),
		Envelope:        particle.EnvelopeFor(EMGeometry(cfg)),
	}
}

// Calorimeters builds the calorimeters enabled in cfg, EM first. With all
// set, both are built regardless of the display flags and start assembled,
// which is what batch tools want.
func Calorimeters(cfg *config.DisplayConfig, all bool) ([]*calorimeter.Calorimeter, error) {
	var specs []calorimeter.Spec

	if all || cfg.GetDisplayEM() {
		s, err := calorimeter.EMSpec(EMGeometry(cfg))
		if err != nil {
			return nil, err
		}
		s.Options.Ceiling = cfg.GetEMCeiling()
		specs = append(specs, s)
	}
	if all || cfg.GetDisplayHAD() {
		s, err := calorimeter.HADSpec(HADGeometry(cfg))
		if err != nil {
			return nil, err
		}
		s.Options.Ceiling = cfg.GetHADCeiling()
		specs = append(specs, s)
	}

	calos := make([]*calorimeter.Calorimeter, 0, len(specs))
	base := cfg.GetBaseOpacity()
	for _, s := range specs {
		s.Options.BaseOpacity = &base
		s.Options.Assemble = cfg.GetAssemblyAnimation() && !all
		for i := range s.Rings {
			s.Rings[i].Opacity = base
		}
		c, err := calorimeter.Build(s)
		if err != nil {
			return nil, fmt.Errorf("build %s calorimeter: %w", s.Kind, err)
		}
		calos = append(calos, c)
	}
	return calos, nil
}

// NewSceneFromConfig builds the displayed calorimeters and a camera from cfg.
func NewSceneFromConfig(cfg *config.DisplayConfig) (*Scene, error) {
	calos, err := Calorimeters(cfg, false)
	if err != nil {
		return nil, err
	}
	s, err := NewScene(NewCamera(CameraLimitsFrom(cfg)), calos...)
	if err != nil {
		return nil, err
	}
	s.ParticleSpeed = cfg.GetParticleSpeed()
	return s, nil
}
