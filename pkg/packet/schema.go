package packet

import (
	"encoding/binary"
	"math"

	"f1telemetrydash/pkg/record"
)

type FieldType int

const (
	U8 FieldType = iota
	I8
	U16
	I16
	U32
	U64
	F32
)

func (t FieldType) size() int {
	switch t {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, F32:
		return 4
	case U64:
		return 8
	}
	return 0
}

// Field describes one little-endian value. Count > 1 makes it an array.
type Field struct {
	Name  string
	Type  FieldType
	Count int
}

func (f Field) size() int {
	n := f.Count
	if n < 1 {
		n = 1
	}
	return n * f.Type.size()
}

func fieldsSize(fields []Field) int {
	n := 0
	for _, f := range fields {
		n += f.size()
	}
	return n
}

type reader struct {
	b   []byte
	off int
}

func (r *reader) value(t FieldType) any {
	b := r.b[r.off:]
	r.off += t.size()
	switch t {
	case U8:
		return int(b[0])
	case I8:
		return int(int8(b[0]))
	case U16:
		return int(binary.LittleEndian.Uint16(b))
	case I16:
		return int(int16(binary.LittleEndian.Uint16(b)))
	case U32:
		return int(binary.LittleEndian.Uint32(b))
	case U64:
		return binary.LittleEndian.Uint64(b)
	case F32:
		f := float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		// NaN and infinities cannot be encoded as JSON.
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0.0
		}
		return f
	}
	return nil
}

// record reads fields in order. The caller guarantees the buffer is large
// enough.
func (r *reader) record(fields []Field) record.Record {
	rec := make(record.Record, len(fields))
	for _, f := range fields {
		if f.Count <= 1 {
			rec[f.Name] = r.value(f.Type)
			continue
		}
		if f.Type == F32 {
			vs := make([]float64, f.Count)
			for i := range vs {
				vs[i] = r.value(f.Type).(float64)
			}
			rec[f.Name] = vs
			continue
		}
		if f.Type == U64 {
			vs := make([]uint64, f.Count)
			for i := range vs {
				vs[i] = r.value(f.Type).(uint64)
			}
			rec[f.Name] = vs
			continue
		}
		vs := make([]int, f.Count)
		for i := range vs {
			vs[i] = r.value(f.Type).(int)
		}
		rec[f.Name] = vs
	}
	return rec
}

func (r *reader) header() Header {
	b := r.b
	r.off = HeaderSize
	return Header{
		PacketFormat:            int(binary.LittleEndian.Uint16(b[0:])),
		GameYear:                int(b[2]),
		GameMajorVersion:        int(b[3]),
		GameMinorVersion:        int(b[4]),
		PacketVersion:           int(b[5]),
		PacketID:                b[6],
		SessionUID:              binary.LittleEndian.Uint64(b[7:]),
		SessionTime:             float64(math.Float32frombits(binary.LittleEndian.Uint32(b[15:]))),
		FrameIdentifier:         binary.LittleEndian.Uint32(b[19:]),
		OverallFrameIdentifier:  binary.LittleEndian.Uint32(b[23:]),
		PlayerCarIndex:          int(b[27]),
		SecondaryPlayerCarIndex: int(b[28]),
	}
}
