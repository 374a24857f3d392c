package packet

import (
	"encoding/binary"
	"math"

	"f1telemetrydash/pkg/record"
	"github.com/pkg/errors"
)

var (
	ErrShortPacket   = errors.New("packet shorter than header")
	ErrSizeMismatch  = errors.New("unexpected packet size")
	ErrInvalidLayout = errors.New("layout larger than its declared size")
)

// Decoder turns datagrams into packets using a table of layouts keyed by
// packet id. Ids without a layout decode to *Raw.
type Decoder struct {
	layouts map[uint8]Layout
}

func NewDecoder(layouts map[uint8]Layout) (*Decoder, error) {
	for id, l := range layouts {
		if l.bodySize() > l.Size {
			return nil, errors.Wrapf(ErrInvalidLayout, "%s (id %d): %d > %d", l.Name, id, l.bodySize(), l.Size)
		}
	}
	return &Decoder{layouts: layouts}, nil
}

func (d *Decoder) Decode(b []byte) (Packet, error) {
	if len(b) < HeaderSize {
		return nil, errors.Wrapf(ErrShortPacket, "%d bytes", len(b))
	}
	r := &reader{b: b}
	h := r.header()

	l, ok := d.layouts[h.PacketID]
	if !ok {
		return NewRaw(h, len(b)), nil
	}
	if len(b) != l.Size {
		return nil, errors.Wrapf(ErrSizeMismatch, "%s packet (id %d): got %d bytes, want %d", l.Name, h.PacketID, len(b), l.Size)
	}

	var cars []record.Record
	if l.Car != nil {
		cars = make([]record.Record, NumCars)
		for i := range cars {
			cars[i] = r.record(l.Car)
		}
	}
	var rec record.Record
	if l.Fields != nil {
		rec = r.record(l.Fields)
	}
	return l.build(h, cars, rec), nil
}

// Encode is the inverse of Decode for the given layout. Missing fields are
// written as zero. It is used to produce synthetic traffic.
func Encode(h Header, l Layout, cars []record.Record, rec record.Record) []byte {
	b := make([]byte, l.Size)
	binary.LittleEndian.PutUint16(b[0:], uint16(h.PacketFormat))
	b[2] = byte(h.GameYear)
	b[3] = byte(h.GameMajorVersion)
	b[4] = byte(h.GameMinorVersion)
	b[5] = byte(h.PacketVersion)
	b[6] = h.PacketID
	binary.LittleEndian.PutUint64(b[7:], h.SessionUID)
	binary.LittleEndian.PutUint32(b[15:], math.Float32bits(float32(h.SessionTime)))
	binary.LittleEndian.PutUint32(b[19:], h.FrameIdentifier)
	binary.LittleEndian.PutUint32(b[23:], h.OverallFrameIdentifier)
	b[27] = byte(h.PlayerCarIndex)
	b[28] = byte(h.SecondaryPlayerCarIndex)

	off := HeaderSize
	if l.Car != nil {
		for i := 0; i < NumCars; i++ {
			var car record.Record
			if i < len(cars) {
				car = cars[i]
			}
			off = encodeRecord(b, off, l.Car, car)
		}
	}
	encodeRecord(b, off, l.Fields, rec)
	return b
}

func encodeRecord(b []byte, off int, fields []Field, rec record.Record) int {
	for _, f := range fields {
		n := f.Count
		if n < 1 {
			n = 1
		}
		v := rec[f.Name]
		for i := 0; i < n; i++ {
			put(b[off:], f.Type, element(v, i, f.Count))
			off += f.Type.size()
		}
	}
	return off
}

func element(v any, i, count int) float64 {
	if count <= 1 {
		return number(v)
	}
	switch s := v.(type) {
	case []int:
		if i < len(s) {
			return float64(s[i])
		}
	case []float64:
		if i < len(s) {
			return s[i]
		}
	}
	return 0
}

func number(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case uint8:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func put(b []byte, t FieldType, v float64) {
	switch t {
	case U8:
		b[0] = uint8(v)
	case I8:
		b[0] = byte(int8(v))
	case U16:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case I16:
		binary.LittleEndian.PutUint16(b, uint16(int16(v)))
	case U32:
		binary.LittleEndian.PutUint32(b, uint32(v))
	case U64:
		binary.LittleEndian.PutUint64(b, uint64(v))
	case F32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	}
}
