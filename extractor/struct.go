package extractor

import (
	"fmt"

	"dvine-asset/config"
	"dvine-asset/utils/dvcodecs/anm"
)

type DvineAnimationPreset string

const (
	DvineAnimationPresetDefault DvineAnimationPreset = "default"
	DvineAnimationPresetLenient DvineAnimationPreset = "lenient"
	DvineAnimationPresetStrict  DvineAnimationPreset = "strict"
)

func ParseAnimationPreset(s string) (anm.Config, error) {
	switch DvineAnimationPreset(s) {
	case DvineAnimationPresetDefault, "":
		return anm.DefaultConfig, nil
	case DvineAnimationPresetLenient:
		return anm.LenientConfig, nil
	case DvineAnimationPresetStrict:
		return anm.StrictConfig, nil
	default:
		return anm.Config{}, fmt.Errorf("invalid animation preset: %s", s)
	}
}

// ConfiguredPreset resolves the preset named in the export
// configuration, falling back to the default on an unknown name.
func ConfiguredPreset() anm.Config {
	cfg, err := ParseAnimationPreset(config.Cfg.Export.Preset)
	if err != nil {
		return anm.DefaultConfig
	}
	return cfg
}

type DvineExtractPayload struct {
	Preset string `json:"preset,omitempty"`
}

type DvineExtractSummary struct {
	Animations int      `json:"animations"`
	Effects    int      `json:"effects"`
	Failed     int      `json:"failed"`
	Files      []string `json:"files,omitempty"`
}
