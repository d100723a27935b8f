// Package itm decodes the item table: fixed 32-byte records with a
// Shift-JIS name followed by little-endian attribute words.
package itm

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/japanese"

	"dvine-asset/utils"
)

const (
	RecordSize = 32
	nameSize   = 20
)

// Item is one decoded record. Reserved carries the four trailing bytes
// untouched so a partially understood table can round-trip.
type Item struct {
	Name     string
	Kind     uint16
	Value    uint16
	Icon     uint16
	Flags    uint16
	Reserved [4]byte
}

// Parse decodes the whole table. Record names are Shift-JIS,
// zero-padded; an undecodable name fails the whole parse since the
// table is a single trusted unit, unlike the effect bank.
func Parse(data []byte) ([]Item, error) {
	if len(data)%RecordSize != 0 {
		return nil, fmt.Errorf("itm: size %d is not a whole number of %d-byte records", len(data), RecordSize)
	}

	bs := utils.NewBinaryStream(bytes.NewReader(data), "little")
	decoder := japanese.ShiftJIS.NewDecoder()
	items := make([]Item, 0, len(data)/RecordSize)

	for record := 0; record < len(data)/RecordSize; record++ {
		raw, err := bs.ReadBytes(nameSize)
		if err != nil {
			return nil, err
		}
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		name, err := decoder.Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("itm: record %d: bad Shift-JIS name: %w", record, err)
		}

		item := Item{Name: string(name)}
		for _, field := range []*uint16{&item.Kind, &item.Value, &item.Icon, &item.Flags} {
			if *field, err = bs.ReadUInt16(); err != nil {
				return nil, err
			}
		}
		reserved, err := bs.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		copy(item.Reserved[:], reserved)
		items = append(items, item)
	}

	return items, nil
}
