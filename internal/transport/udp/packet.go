// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

/*
Column packet, big endian:

|<- 4 ->|<--- 8 --->|<--- 8 --->|<- 2 ->|<---- N * 4 ---->|
+-------+-----------+-----------+-------+-----------------+
|  Seq  | Timestamp |  Column   | Count |     Levels      |
|uint32 |   int64   |  uint64   |uint16 |  N * float32    |
+-------+-----------+-----------+-------+-----------------+

Timestamp is unix nanoseconds. Levels are normalised to [0, 1], lowest
frequency first.
*/

const headerSize = 4 + 8 + 8 + 2

// MaxLevels is the largest column that fits the count field.
const MaxLevels = 1<<16 - 1

var ErrShortPacket = errors.New("short column packet")

// Packet is a decoded column packet.
type Packet struct {
	Sequence  uint32
	Timestamp int64
	Column    uint64
	Levels    []float32
}

type header struct {
	Sequence  uint32
	Timestamp int64
	Column    uint64
	Count     uint16
}

// AppendPacket encodes p into buf, which is reset first.
func AppendPacket(buf *bytes.Buffer, p *Packet) error {
	if len(p.Levels) > MaxLevels {
		return fmt.Errorf("column of %d levels exceeds %d", len(p.Levels), MaxLevels)
	}
	buf.Reset()
	h := header{
		Sequence:  p.Sequence,
		Timestamp: p.Timestamp,
		Column:    p.Column,
		Count:     uint16(len(p.Levels)),
	}
	if err := binary.Write(buf, binary.BigEndian, &h); err != nil {
		return err
	}
	return binary.Write(buf, binary.BigEndian, p.Levels)
}

// DecodePacket parses a datagram produced by AppendPacket.
func DecodePacket(b []byte) (*Packet, error) {
	if len(b) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortPacket, len(b))
	}
	r := bytes.NewReader(b)
	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, err
	}
	if want := headerSize + 4*int(h.Count); len(b) < want {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrShortPacket, len(b), want)
	}
	p := &Packet{
		Sequence:  h.Sequence,
		Timestamp: h.Timestamp,
		Column:    h.Column,
		Levels:    make([]float32, h.Count),
	}
	if err := binary.Read(r, binary.BigEndian, p.Levels); err != nil {
		return nil, err
	}
	return p, nil
}
