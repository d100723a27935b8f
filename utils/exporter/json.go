package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"dvine-asset/utils/dvcodecs/anm"
	"dvine-asset/utils/dvcodecs/itm"
	"dvine-asset/utils/dvcodecs/se"
)

// StepJSON is the wire form of one playback step. Type is "frame",
// "sound" or "event"; only the fields for that type are populated.
type StepJSON struct {
	Type     string `json:"type"`
	ImageID  uint16 `json:"imageId,omitempty"`
	Duration uint16 `json:"duration,omitempty"`
	SoundID  uint16 `json:"soundId,omitempty"`
	Code     uint16 `json:"code,omitempty"`
}

type SequenceJSON struct {
	ID          int        `json:"id"`
	Termination string     `json:"termination"`
	Steps       []StepJSON `json:"steps"`
}

type EffectJSON struct {
	ID          int    `json:"id"`
	SoundType   uint8  `json:"soundType"`
	Priority    uint8  `json:"priority"`
	Channels    uint16 `json:"channels"`
	SampleRate  uint32 `json:"sampleRate"`
	SampleCount uint32 `json:"sampleCount"`
}

type ItemJSON struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Kind  uint16 `json:"kind"`
	Value uint16 `json:"value"`
	Icon  uint16 `json:"icon"`
	Flags uint16 `json:"flags"`
}

// SequenceToJSON flattens a sequence for serialization.
func SequenceToJSON(id int, seq anm.Sequence) SequenceJSON {
	out := SequenceJSON{
		ID:          id,
		Termination: seq.Termination.String(),
		Steps:       make([]StepJSON, 0, len(seq.Steps)),
	}
	for _, step := range seq.Steps {
		switch s := step.(type) {
		case anm.FrameStep:
			out.Steps = append(out.Steps, StepJSON{Type: "frame", ImageID: s.ImageID, Duration: s.Duration})
		case anm.SoundStep:
			out.Steps = append(out.Steps, StepJSON{Type: "sound", SoundID: s.SoundID})
		case anm.EventStep:
			out.Steps = append(out.Steps, StepJSON{Type: "event", Code: s.Code})
		}
	}
	return out
}

// EffectToJSON summarizes a decoded effect without its PCM payload.
func EffectToJSON(sound *se.Sound) EffectJSON {
	return EffectJSON{
		ID:          sound.ID,
		SoundType:   sound.Header.SoundType,
		Priority:    sound.Header.Priority,
		Channels:    sound.Adpcm.Channels,
		SampleRate:  sound.Adpcm.SampleRate,
		SampleCount: sound.Adpcm.SampleCount,
	}
}

func ItemsToJSON(items []itm.Item) []ItemJSON {
	out := make([]ItemJSON, 0, len(items))
	for i, item := range items {
		out = append(out, ItemJSON{
			Index: i,
			Name:  item.Name,
			Kind:  item.Kind,
			Value: item.Value,
			Icon:  item.Icon,
			Flags: item.Flags,
		})
	}
	return out
}

// ExportJSON marshals v and writes it under outputDir.
func ExportJSON(v interface{}, outputDir string, name string) (string, error) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	jsonFile := filepath.Join(outputDir, name)
	if err := os.WriteFile(jsonFile, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return jsonFile, nil
}
