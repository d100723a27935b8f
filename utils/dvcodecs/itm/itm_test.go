package itm

import (
	"encoding/binary"
	"testing"
)

func record(name []byte, kind, value, icon, flags uint16, reserved [4]byte) []byte {
	rec := make([]byte, RecordSize)
	copy(rec, name)
	binary.LittleEndian.PutUint16(rec[20:], kind)
	binary.LittleEndian.PutUint16(rec[22:], value)
	binary.LittleEndian.PutUint16(rec[24:], icon)
	binary.LittleEndian.PutUint16(rec[26:], flags)
	copy(rec[28:], reserved[:])
	return rec
}

func TestParse(t *testing.T) {
	data := append(
		record([]byte("ELIXIR"), 2, 500, 31, 0x0001, [4]byte{0xDE, 0xAD, 0xBE, 0xEF}),
		record([]byte{0x83, 0x41}, 1, 10, 4, 0, [4]byte{})..., // Shift-JIS "ア"
	)

	items, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first := items[0]
	if first.Name != "ELIXIR" || first.Kind != 2 || first.Value != 500 || first.Icon != 31 || first.Flags != 1 {
		t.Errorf("item 0: got %+v", first)
	}
	if first.Reserved != [4]byte{0xDE, 0xAD, 0xBE, 0xEF} {
		t.Errorf("item 0 reserved bytes not preserved: %v", first.Reserved)
	}

	if items[1].Name != "ア" {
		t.Errorf("item 1 name: got %q, want %q", items[1].Name, "ア")
	}
}

func TestParseRejectsPartialRecord(t *testing.T) {
	if _, err := Parse(make([]byte, RecordSize+1)); err == nil {
		t.Error("expected error for partial record")
	}
}

func TestParseEmptyTable(t *testing.T) {
	items, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}
