package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"dvine-asset/utils/dvcodecs/se"
	"dvine-asset/utils/dvcodecs/wav"
)

// ExportSoundWav writes a decoded effect as a RIFF wave file named
// se_<id>.wav under outputDir and returns the written path.
func ExportSoundWav(sound *se.Sound, outputDir string) (string, error) {
	wavFile := filepath.Join(outputDir, fmt.Sprintf("se_%03d.wav", sound.ID))

	wave := wav.FromPCM(sound.PCM, sound.Adpcm.Channels, sound.Adpcm.SampleRate)
	file, err := os.Create(wavFile)
	if err != nil {
		return "", fmt.Errorf("failed to create WAV file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)
	if err := wave.Serialize(file); err != nil {
		return "", fmt.Errorf("failed to serialize WAV file: %w", err)
	}
	return wavFile, nil
}
