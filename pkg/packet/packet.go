package packet

import (
	"f1telemetrydash/pkg/record"
)

// Packet ids as sent by F1 23.
const (
	IDMotion              uint8 = 0
	IDSession             uint8 = 1
	IDLapData             uint8 = 2
	IDEvent               uint8 = 3
	IDParticipants        uint8 = 4
	IDCarSetups           uint8 = 5
	IDCarTelemetry        uint8 = 6
	IDCarStatus           uint8 = 7
	IDFinalClassification uint8 = 8
	IDLobbyInfo           uint8 = 9
	IDCarDamage           uint8 = 10
	IDSessionHistory      uint8 = 11
	IDTyreSets            uint8 = 12
	IDMotionEx            uint8 = 13

	NumCars    = 22
	HeaderSize = 29
)

type Header struct {
	PacketFormat            int     `json:"packetFormat"`
	GameYear                int     `json:"gameYear"`
	GameMajorVersion        int     `json:"gameMajorVersion"`
	GameMinorVersion        int     `json:"gameMinorVersion"`
	PacketVersion           int     `json:"packetVersion"`
	PacketID                uint8   `json:"packetId"`
	SessionUID              uint64  `json:"sessionUID"`
	SessionTime             float64 `json:"sessionTime"`
	FrameIdentifier         uint32  `json:"frameIdentifier"`
	OverallFrameIdentifier  uint32  `json:"overallFrameIdentifier"`
	PlayerCarIndex          int     `json:"playerCarIndex"`
	SecondaryPlayerCarIndex int     `json:"secondaryPlayerCarIndex"`
}

func (h Header) Map() map[string]any {
	return map[string]any{
		"packetFormat":            h.PacketFormat,
		"gameYear":                h.GameYear,
		"gameMajorVersion":        h.GameMajorVersion,
		"gameMinorVersion":        h.GameMinorVersion,
		"packetVersion":           h.PacketVersion,
		"packetId":                h.PacketID,
		"sessionUID":              h.SessionUID,
		"sessionTime":             h.SessionTime,
		"frameIdentifier":         h.FrameIdentifier,
		"overallFrameIdentifier":  h.OverallFrameIdentifier,
		"playerCarIndex":          h.PlayerCarIndex,
		"secondaryPlayerCarIndex": h.SecondaryPlayerCarIndex,
	}
}

// Packet is one decoded datagram. The concrete type tells which layout was
// used to decode it.
type Packet interface {
	Header() Header
	// Map returns the whole packet as a plain mapping, suitable for JSON.
	Map() map[string]any
}

// PerCar is implemented by packets carrying one record per car slot.
type PerCar interface {
	Packet
	Cars() []record.Record
}

type base struct {
	header Header
}

func (b base) Header() Header {
	return b.header
}

type perCar struct {
	base
	cars    []record.Record
	trailer record.Record
}

func (p perCar) Cars() []record.Record {
	return p.cars
}

func (p perCar) Trailer() record.Record {
	return p.trailer
}

func (p perCar) Map() map[string]any {
	cars := make([]map[string]any, len(p.cars))
	for i, c := range p.cars {
		cars[i] = c
	}
	m := map[string]any{
		"header": p.header.Map(),
		"cars":   cars,
	}
	for k, v := range p.trailer {
		m[k] = v
	}
	return m
}

type CarTelemetry struct{ perCar }

type CarStatus struct{ perCar }

type CarDamage struct{ perCar }

type LapData struct{ perCar }

func NewCarTelemetry(h Header, cars []record.Record, trailer record.Record) *CarTelemetry {
	return &CarTelemetry{perCar{base: base{h}, cars: cars, trailer: trailer}}
}

func NewCarStatus(h Header, cars []record.Record) *CarStatus {
	return &CarStatus{perCar{base: base{h}, cars: cars}}
}

func NewCarDamage(h Header, cars []record.Record) *CarDamage {
	return &CarDamage{perCar{base: base{h}, cars: cars}}
}

func NewLapData(h Header, cars []record.Record, trailer record.Record) *LapData {
	return &LapData{perCar{base: base{h}, cars: cars, trailer: trailer}}
}

// Session carries the session-wide fields.
type Session struct {
	base
	Data record.Record
}

func NewSession(h Header, data record.Record) *Session {
	return &Session{base: base{h}, Data: data}
}

func (s *Session) Map() map[string]any {
	m := map[string]any{"header": s.header.Map()}
	for k, v := range s.Data {
		m[k] = v
	}
	return m
}

// Raw is a packet whose id has no registered layout. Only the header is
// decoded.
type Raw struct {
	base
	Size int
}

func NewRaw(h Header, size int) *Raw {
	return &Raw{base: base{h}, Size: size}
}

func (r *Raw) Map() map[string]any {
	return map[string]any{
		"header": r.header.Map(),
		"size":   r.Size,
	}
}
