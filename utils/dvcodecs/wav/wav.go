// Package wav serializes 16-bit PCM into a canonical RIFF WAVE file.
package wav

import (
	"encoding/binary"
	"io"
)

const formatPCM = 1

// Wave is a single-chunk PCM file ready for serialization.
type Wave struct {
	Channels   uint16
	SampleRate uint32
	Samples    []int16
}

// FromPCM wraps decoded samples; a zero channel count is widened to
// mono so a header with unparsed fields still yields a playable file.
func FromPCM(samples []int16, channels uint16, sampleRate uint32) *Wave {
	if channels == 0 {
		channels = 1
	}
	return &Wave{Channels: channels, SampleRate: sampleRate, Samples: samples}
}

// Serialize writes the RIFF/fmt/data layout with a 16-bit PCM format
// chunk.
func (w *Wave) Serialize(out io.Writer) error {
	dataBytes := len(w.Samples) * 2

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataBytes))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], w.Channels)
	binary.LittleEndian.PutUint32(header[24:28], w.SampleRate)
	binary.LittleEndian.PutUint32(header[28:32], w.SampleRate*uint32(w.Channels)*2)
	binary.LittleEndian.PutUint16(header[32:34], w.Channels*2)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataBytes))

	if _, err := out.Write(header); err != nil {
		return err
	}

	data := make([]byte, dataBytes)
	for i, sample := range w.Samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(sample))
	}
	_, err := out.Write(data)
	return err
}
