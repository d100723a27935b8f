package utils

import (
	"encoding/binary"
	"io"
)

// BinaryStream reads typed values off an io.ReadSeeker. The game's
// formats are little-endian throughout, so that is the default.
type BinaryStream struct {
	BaseStream io.ReadSeeker
	Endian     binary.ByteOrder
}

func NewBinaryStream(baseStream io.ReadSeeker, endian string) *BinaryStream {
	bs := &BinaryStream{
		BaseStream: baseStream,
	}
	if endian == "big" {
		bs.Endian = binary.BigEndian
	} else {
		bs.Endian = binary.LittleEndian
	}
	return bs
}

func (bs *BinaryStream) ReadByte() (byte, error) {
	buf := make([]byte, 1)
	_, err := io.ReadFull(bs.BaseStream, buf)
	return buf[0], err
}

func (bs *BinaryStream) ReadBytes(length int) ([]byte, error) {
	buf := make([]byte, length)
	_, err := io.ReadFull(bs.BaseStream, buf)
	return buf, err
}

func (bs *BinaryStream) ReadUChar() (uint8, error) {
	return bs.ReadByte()
}

func (bs *BinaryStream) ReadUInt16() (uint16, error) {
	buf := make([]byte, 2)
	_, err := io.ReadFull(bs.BaseStream, buf)
	return bs.Endian.Uint16(buf), err
}
