package se

import (
	"encoding/binary"
	"errors"
	"testing"

	"dvine-asset/utils/dvcodecs/adpcm"
)

// effectBytes builds one on-disk effect: sound header, codec header
// with the IMA table embedded, then the payload.
func effectBytes(soundType, priority byte, channels uint16, sampleCount uint32, payload []byte) []byte {
	b := make([]byte, soundHeaderSize+adpcmHeaderSize)
	b[0] = soundType
	b[1] = 0xAA
	b[2] = priority
	b[3] = 0xBB

	h := b[soundHeaderSize:]
	for i, step := range adpcm.IMAStepTable {
		binary.LittleEndian.PutUint16(h[i*2:], uint16(step))
	}
	binary.LittleEndian.PutUint16(h[0xB2:], channels)
	binary.LittleEndian.PutUint32(h[0xB4:], 22050)
	binary.LittleEndian.PutUint16(h[0xB8:], 512)
	binary.LittleEndian.PutUint32(h[0xBC:], sampleCount)

	return append(b, payload...)
}

// buildBank lays the given effects into a blob behind a 256-slot index.
func buildBank(t *testing.T, effects map[int][]byte) *Bank {
	t.Helper()

	blob := make([]byte, indexSize)
	for slot := 0; slot < indexSlots; slot++ {
		if data, ok := effects[slot]; ok {
			binary.LittleEndian.PutUint32(blob[slot*4:], uint32(len(blob)))
			blob = append(blob, data...)
		}
	}

	bank, err := Parse(blob)
	if err != nil {
		t.Fatal(err)
	}
	return bank
}

func TestParseTooShort(t *testing.T) {
	if _, err := Parse(make([]byte, indexSize-1)); err == nil {
		t.Error("expected error for blob shorter than the index table")
	}
}

func TestEffectsEnumerationOrder(t *testing.T) {
	blob := make([]byte, indexSize)
	binary.LittleEndian.PutUint32(blob[3*4:], 100)
	binary.LittleEndian.PutUint32(blob[200*4:], 50)

	bank, err := Parse(blob)
	if err != nil {
		t.Fatal(err)
	}

	var ids []int
	var offsets []uint32
	for id, off := range bank.Effects() {
		ids = append(ids, id)
		offsets = append(offsets, off)
	}

	if len(ids) != 2 || ids[0] != 3 || ids[1] != 200 {
		t.Fatalf("ids: got %v, want [3 200]", ids)
	}
	if offsets[0] != 100 || offsets[1] != 50 {
		t.Errorf("offsets: got %v, want [100 50]", offsets)
	}
}

func TestDecode(t *testing.T) {
	payload := []byte{0x00, 0x00, 0x00, 0x00, 0x71, 0x88, 0x11, 0x11}
	bank := buildBank(t, map[int][]byte{
		7: effectBytes(2, 5, 1, 5, payload),
	})

	sound, err := bank.Decode(7)
	if err != nil {
		t.Fatal(err)
	}

	if sound.Header.SoundType != 2 || sound.Header.Priority != 5 {
		t.Errorf("sound header: got %+v", sound.Header)
	}
	if sound.Header.Unknown != 0xAA || sound.Header.Reserved != 0xBB {
		t.Errorf("unknown/reserved bytes not preserved: %+v", sound.Header)
	}
	if sound.Adpcm.Channels != 1 || sound.Adpcm.SampleRate != 22050 || sound.Adpcm.SampleCount != 5 {
		t.Errorf("adpcm header: got %+v", sound.Adpcm)
	}
	// channels * sample_count bounds the output exactly even though
	// the payload carries more nibbles.
	if len(sound.PCM) != 5 {
		t.Errorf("got %d samples, want 5", len(sound.PCM))
	}
}

func TestDecodeHeaderRawPreserved(t *testing.T) {
	bank := buildBank(t, map[int][]byte{
		0: effectBytes(1, 1, 1, 1, []byte{0, 0, 0, 0}),
	})

	sound, err := bank.Decode(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.LittleEndian.Uint32(sound.Adpcm.Raw[0xBC:]); got != 1 {
		t.Errorf("raw header sample count: got %d, want 1", got)
	}
	if got := int16(binary.LittleEndian.Uint16(sound.Adpcm.Raw[0:])); got != adpcm.IMAStepTable[0] {
		t.Errorf("raw header step 0: got %d, want %d", got, adpcm.IMAStepTable[0])
	}
}

func TestDecodeEmptySlot(t *testing.T) {
	bank := buildBank(t, nil)
	if _, err := bank.Decode(0); err == nil {
		t.Error("expected error for an empty slot")
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	bank := buildBank(t, map[int][]byte{
		4: effectBytes(1, 1, 1, 10, []byte{0x00, 0x00}), // 2-byte seed
	})

	_, err := bank.Decode(4)
	if !errors.Is(err, adpcm.ErrInvalidData) {
		t.Errorf("got %v, want adpcm.ErrInvalidData", err)
	}
}

func TestDecodeAllIsolatesFailures(t *testing.T) {
	// Slot 3 points at a truncated header region, slot 200 is valid;
	// the error must not suppress the later item.
	valid := effectBytes(1, 1, 1, 3, []byte{0x00, 0x00, 0x00, 0x00, 0x11})

	blob := make([]byte, indexSize)
	binary.LittleEndian.PutUint32(blob[200*4:], uint32(len(blob)))
	blob = append(blob, valid...)
	binary.LittleEndian.PutUint32(blob[3*4:], uint32(len(blob)-2)) // inside valid's tail

	bank, err := Parse(blob)
	if err != nil {
		t.Fatal(err)
	}

	var results []DecodeResult
	for r := range bank.DecodeAll() {
		results = append(results, r)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != 3 || results[0].Err == nil {
		t.Errorf("result 0: got id=%d err=%v, want id=3 with error", results[0].ID, results[0].Err)
	}
	if results[1].ID != 200 || results[1].Err != nil || results[1].Sound == nil {
		t.Errorf("result 1: got id=%d err=%v, want decoded id=200", results[1].ID, results[1].Err)
	}
}

func TestDecodeCorruptCountsStaysBounded(t *testing.T) {
	// A corrupt header claiming 0xFFFF channels and a full uint32
	// sample count must not take down the enumeration; the decode is
	// bounded by the payload actually present in the blob.
	bank := buildBank(t, map[int][]byte{
		5: effectBytes(1, 1, 0xFFFF, 0xFFFFFFFF, []byte{0x00, 0x00, 0x00, 0x00, 0x11, 0x22}),
	})

	var results []DecodeResult
	for r := range bank.DecodeAll() {
		results = append(results, r)
	}

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("slot 5: %v", results[0].Err)
	}
	if got := len(results[0].Sound.PCM); got != 5 {
		t.Errorf("got %d samples, want 5", got)
	}
}

func TestDecodeAllStopsEarly(t *testing.T) {
	bank := buildBank(t, map[int][]byte{
		1: effectBytes(1, 1, 1, 1, []byte{0, 0, 0, 0}),
		2: effectBytes(1, 1, 1, 1, []byte{0, 0, 0, 0}),
	})

	n := 0
	for range bank.DecodeAll() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("consumed %d results, want 1", n)
	}
}
