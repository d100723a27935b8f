// Package se reads the game's sound effect bank: a 256-slot offset
// index over a single blob, one ADPCM-compressed effect per occupied
// slot. Decoding goes through the adpcm package; a damaged effect
// yields an error for its slot only and never blocks the rest of the
// bank.
package se

import (
	"encoding/binary"
	"fmt"
	"iter"

	"dvine-asset/utils/dvcodecs/adpcm"
	"dvine-asset/utils/dvcodecs/slottab"
)

const (
	indexSlots = 256
	indexSize  = indexSlots * 4

	soundHeaderSize = 4
	adpcmHeaderSize = 192
)

// SoundHeader is the 4-byte per-effect record preceding the codec
// header. Unknown and Reserved are carried byte-for-byte.
type SoundHeader struct {
	SoundType uint8
	Unknown   uint8
	Priority  uint8
	Reserved  uint8
}

// AdpcmHeader is the fixed 192-byte codec parameter block. The
// quantization step table is embedded at the front; SampleCount at
// +0xBC counts decoded samples per channel-interleaved stream. Raw
// keeps the whole region so fields that are still guesswork survive a
// re-encode untouched.
type AdpcmHeader struct {
	StepTable   [adpcm.StepTableSize]int16
	Channels    uint16
	SampleRate  uint32
	BlockSize   uint16
	SampleCount uint32
	Raw         [adpcmHeaderSize]byte
}

// Sound is one fully decoded effect. Owned by the caller; the bank
// does not cache it.
type Sound struct {
	ID     int
	Header SoundHeader
	Adpcm  AdpcmHeader
	PCM    []int16
}

// DecodeResult is one element of the decode enumeration: either a
// sound or the error that slot produced.
type DecodeResult struct {
	ID    int
	Sound *Sound
	Err   error
}

// Bank is a parsed effect blob. Read-only after Parse.
type Bank struct {
	Index *slottab.Table
	data  []byte
}

// Parse reads the effect blob. Offsets are relative to the blob start;
// an offset of zero marks an unused slot.
func Parse(data []byte) (*Bank, error) {
	if len(data) < indexSize {
		return nil, fmt.Errorf("se: blob too short for index table: %d bytes", len(data))
	}

	slots := make([]uint32, indexSlots)
	for i := range slots {
		slots[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	return &Bank{
		Index: slottab.New(slots, 0),
		data:  data,
	}, nil
}

// Effects iterates the occupied slots as (id, offset) pairs in
// ascending id order without touching the compressed payloads.
func (b *Bank) Effects() iter.Seq2[int, uint32] {
	return b.Index.All()
}

// Decode extracts and decodes the effect in slot id. An id outside
// [0, 256) panics; an empty slot, truncated headers or a truncated
// payload are errors.
func (b *Bank) Decode(id int) (*Sound, error) {
	offset, ok := b.Index.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("se: slot %d holds no effect", id)
	}
	return b.decodeAt(id, offset)
}

// DecodeAll lazily decodes every occupied slot in ascending id order.
// A failing slot yields its error and iteration moves on; callers that
// stop early pay only for what they consumed.
func (b *Bank) DecodeAll() iter.Seq[DecodeResult] {
	return func(yield func(DecodeResult) bool) {
		for id, offset := range b.Index.All() {
			sound, err := b.decodeAt(id, offset)
			if !yield(DecodeResult{ID: id, Sound: sound, Err: err}) {
				return
			}
		}
	}
}

func (b *Bank) decodeAt(id int, offset uint32) (*Sound, error) {
	pos := int(offset)
	if pos+soundHeaderSize+adpcmHeaderSize > len(b.data) {
		return nil, fmt.Errorf("se: slot %d: headers truncated at offset %#x", id, offset)
	}

	sound := Sound{ID: id}
	sound.Header = SoundHeader{
		SoundType: b.data[pos],
		Unknown:   b.data[pos+1],
		Priority:  b.data[pos+2],
		Reserved:  b.data[pos+3],
	}
	pos += soundHeaderSize

	parseAdpcmHeader(b.data[pos:pos+adpcmHeaderSize], &sound.Adpcm)
	pos += adpcmHeaderSize

	channels := int(sound.Adpcm.Channels)
	if channels == 0 {
		channels = 1
	}

	pcm, err := adpcm.Decode(
		b.data[pos:],
		sound.Adpcm.StepTable[:],
		channels,
		int(sound.Adpcm.SampleCount),
	)
	if err != nil {
		return nil, fmt.Errorf("se: slot %d: %w", id, err)
	}
	sound.PCM = pcm

	return &sound, nil
}

func parseAdpcmHeader(raw []byte, h *AdpcmHeader) {
	copy(h.Raw[:], raw)
	for i := range h.StepTable {
		h.StepTable[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	h.Channels = binary.LittleEndian.Uint16(raw[0xB2:])
	h.SampleRate = binary.LittleEndian.Uint32(raw[0xB4:])
	h.BlockSize = binary.LittleEndian.Uint16(raw[0xB8:])
	h.SampleCount = binary.LittleEndian.Uint32(raw[0xBC:])
}
