package anm

import (
	"encoding/binary"
	"testing"
)

// buildFile assembles a file image: 32-byte header, 256-slot index,
// then the descriptor region.
func buildFile(offsets map[int]uint16, data []byte) []byte {
	file := make([]byte, 0x220)
	for i := 0; i < 0x20; i++ {
		file[i] = byte(i)
	}
	for slot := 0; slot < 256; slot++ {
		v := uint16(NoAnimation)
		if off, ok := offsets[slot]; ok {
			v = off
		}
		binary.LittleEndian.PutUint16(file[0x20+slot*2:], v)
	}
	return append(file, data...)
}

func TestParse(t *testing.T) {
	data := buildFile(map[int]uint16{0: 0, 9: 8}, table(
		desc(1, 2),
		desc(MarkerEnd, 0),
		desc(4, 4),
		desc(MarkerEnd, 0),
	))

	f, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 0x20; i++ {
		if f.Header[i] != byte(i) {
			t.Fatalf("header byte %d not preserved: got %#x", i, f.Header[i])
		}
	}

	var ids []int
	for id := range f.Slots() {
		ids = append(ids, id)
	}
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 9 {
		t.Errorf("slots: got %v, want [0 9]", ids)
	}
}

func TestParseTooShort(t *testing.T) {
	if _, err := Parse(make([]byte, 0x21F)); err == nil {
		t.Error("expected error for file shorter than the index table")
	}
}

func TestSequenceStartsAtSlotOffset(t *testing.T) {
	data := buildFile(map[int]uint16{3: 4}, table(
		desc(1, 1),
		desc(8, 2), // slot 3 starts here
		desc(MarkerEnd, 0),
	))

	f, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	seq, err := f.Sequence(3, DefaultConfig)
	if err != nil {
		t.Fatal(err)
	}
	if seq.Termination != Ended {
		t.Errorf("termination: got %v, want %v", seq.Termination, Ended)
	}
	if len(seq.Steps) != 1 || seq.Steps[0] != (FrameStep{ImageID: 8, Duration: 2}) {
		t.Errorf("steps: got %#v, want one FrameStep{8, 2}", seq.Steps)
	}
}

func TestSequenceAbsentSlot(t *testing.T) {
	f, err := Parse(buildFile(nil, table(desc(MarkerEnd, 0))))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Sequence(12, DefaultConfig); err == nil {
		t.Error("expected error for an empty slot")
	}
}
