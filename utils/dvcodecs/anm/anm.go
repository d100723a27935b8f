// Package anm parses the game's animation files and replays their
// frame-sequencer encoding. An animation is a table of 4-byte frame
// descriptors; four reserved control values turn a descriptor into an
// end/jump/sound/event instruction instead of a displayed frame, which
// makes the table a directed graph the original engine walks at
// runtime. Interpret replays that walk with hard bounds so malformed
// or deliberately cyclic data always terminates.
package anm

import (
	"encoding/binary"
	"fmt"
	"iter"

	"dvine-asset/utils/dvcodecs/slottab"
)

// File region layout.
const (
	indexOffset    = 0x20
	indexSlots     = 256
	indexSize      = indexSlots * 2
	dataOffset     = indexOffset + indexSize
	DescriptorSize = 4
)

// NoAnimation marks an unused index slot. The same value doubles as
// the end-of-sequence control marker inside the descriptor table.
const NoAnimation = 0xFFFF

// Reserved control values.
const (
	MarkerEnd   = 0xFFFF
	MarkerJump  = 0xFFFE
	MarkerSound = 0xFFFD
	MarkerEvent = 0xFFFC
)

// File is a parsed animation file: an opaque 32-byte header, the slot
// index table and the frame descriptor region. Immutable after Parse.
type File struct {
	Header [indexOffset]byte
	Index  *slottab.Table
	Data   []byte
}

// Parse reads an animation file image. The data region may be empty;
// a file shorter than the index table is malformed.
func Parse(data []byte) (*File, error) {
	if len(data) < dataOffset {
		return nil, fmt.Errorf("anm: file too short: %d bytes, need at least %d", len(data), dataOffset)
	}

	var f File
	copy(f.Header[:], data[:indexOffset])

	slots := make([]uint16, indexSlots)
	for i := range slots {
		slots[i] = binary.LittleEndian.Uint16(data[indexOffset+i*2:])
	}
	f.Index = slottab.NewFromUint16(slots, NoAnimation)
	f.Data = data[dataOffset:]

	return &f, nil
}

// Slots iterates the occupied animation slots as (id, data offset)
// pairs in ascending id order.
func (f *File) Slots() iter.Seq2[int, uint32] {
	return f.Index.All()
}

// Sequence resolves slot id through the index table and interprets the
// animation starting at the stored offset. Absent slots are an error;
// id outside [0, 256) panics.
func (f *File) Sequence(id int, cfg Config) (*Sequence, error) {
	offset, ok := f.Index.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("anm: slot %d holds no animation", id)
	}
	seq := Interpret(f.Data, int(offset), cfg)
	return &seq, nil
}
