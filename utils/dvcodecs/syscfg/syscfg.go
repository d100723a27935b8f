// Package syscfg decodes the 64-byte startup configuration record the
// game keeps next to its data files.
package syscfg

import (
	"bytes"
	"fmt"

	"dvine-asset/utils"
)

const RecordSize = 64

// Settings mirrors the record one-to-one. Tail preserves everything
// past the understood prefix.
type Settings struct {
	WindowMode   uint8
	BGMVolume    uint8
	SEVolume     uint8
	TextSpeed    uint8
	LastSaveSlot uint8
	Flags        uint16
	Tail         [57]byte
}

// Parse decodes the startup record.
func Parse(data []byte) (*Settings, error) {
	if len(data) != RecordSize {
		return nil, fmt.Errorf("syscfg: size %d, want %d", len(data), RecordSize)
	}

	bs := utils.NewBinaryStream(bytes.NewReader(data), "little")

	var s Settings
	s.WindowMode, _ = bs.ReadUChar()
	s.BGMVolume, _ = bs.ReadUChar()
	s.SEVolume, _ = bs.ReadUChar()
	s.TextSpeed, _ = bs.ReadUChar()
	s.LastSaveSlot, _ = bs.ReadUChar()
	s.Flags, _ = bs.ReadUInt16()
	tail, err := bs.ReadBytes(len(s.Tail))
	if err != nil {
		return nil, err
	}
	copy(s.Tail[:], tail)
	return &s, nil
}
