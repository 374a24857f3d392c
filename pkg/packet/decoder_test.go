package packet

import (
	"encoding/json"
	"math"
	"testing"

	"f1telemetrydash/pkg/record"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader(id uint8, player int) Header {
	return Header{
		PacketFormat:           2023,
		GameYear:               23,
		GameMajorVersion:       1,
		PacketVersion:          1,
		PacketID:               id,
		SessionUID:             0xdeadbeef,
		SessionTime:            12.5,
		FrameIdentifier:        42,
		OverallFrameIdentifier: 43,
		PlayerCarIndex:         player,
	}
}

func TestLayoutSizesMatchGame(t *testing.T) {
	assert.Equal(t, CarTelemetryLayout.Size, CarTelemetryLayout.bodySize())
	assert.Equal(t, CarStatusLayout.Size, CarStatusLayout.bodySize())
	assert.Equal(t, CarDamageLayout.Size, CarDamageLayout.bodySize())
	assert.Equal(t, LapDataLayout.Size, LapDataLayout.bodySize())
	assert.LessOrEqual(t, SessionLayout.bodySize(), SessionLayout.Size)
}

func TestDecodeCarTelemetry(t *testing.T) {
	d, err := NewDecoder(DefaultLayouts())
	require.NoError(t, err)

	cars := make([]record.Record, NumCars)
	cars[3] = record.Record{
		"speed":         231,
		"throttle":      0.75,
		"gear":          -1,
		"engineRPM":     11500,
		"tyresPressure": []float64{23.5, 23.5, 22, 22},
	}
	b := Encode(testHeader(IDCarTelemetry, 3), CarTelemetryLayout, cars, record.Record{"suggestedGear": 5})

	p, err := d.Decode(b)
	require.NoError(t, err)

	tp, ok := p.(*CarTelemetry)
	require.True(t, ok, "got %T", p)
	assert.Equal(t, IDCarTelemetry, tp.Header().PacketID)
	assert.Equal(t, 3, tp.Header().PlayerCarIndex)
	assert.Equal(t, uint64(0xdeadbeef), tp.Header().SessionUID)
	assert.Equal(t, 2023, tp.Header().PacketFormat)
	assert.Equal(t, uint32(42), tp.Header().FrameIdentifier)
	assert.Equal(t, uint32(43), tp.Header().OverallFrameIdentifier)
	require.Len(t, tp.Cars(), NumCars)

	car := tp.Cars()[3]
	assert.Equal(t, 231, car["speed"])
	assert.Equal(t, 0.75, car["throttle"])
	assert.Equal(t, -1, car["gear"])
	assert.Equal(t, 11500, car["engineRPM"])
	assert.Equal(t, []float64{23.5, 23.5, 22, 22}, car["tyresPressure"])
	assert.Equal(t, []int{0, 0, 0, 0}, car["surfaceType"])
	assert.Equal(t, 5, tp.Trailer()["suggestedGear"])
	assert.Equal(t, 0, tp.Cars()[0]["speed"])
}

func TestDecodeNonFiniteFloatsAsZero(t *testing.T) {
	d, err := NewDecoder(DefaultLayouts())
	require.NoError(t, err)

	cars := make([]record.Record, NumCars)
	cars[0] = record.Record{"ersStoreEnergy": math.NaN(), "fuelInTank": math.Inf(1), "fuelRemainingLaps": 3.5}
	p, err := d.Decode(Encode(testHeader(IDCarStatus, 0), CarStatusLayout, cars, nil))
	require.NoError(t, err)

	car := p.(*CarStatus).Cars()[0]
	assert.Equal(t, 0.0, car["ersStoreEnergy"])
	assert.Equal(t, 0.0, car["fuelInTank"])
	assert.Equal(t, 3.5, car["fuelRemainingLaps"])

	_, err = json.Marshal(p.Map())
	assert.NoError(t, err)
}

func TestDecodeSession(t *testing.T) {
	d, err := NewDecoder(DefaultLayouts())
	require.NoError(t, err)

	b := Encode(testHeader(IDSession, 0), SessionLayout, nil, record.Record{
		"trackTemperature": -3,
		"totalLaps":        58,
		"trackId":          17,
	})
	p, err := d.Decode(b)
	require.NoError(t, err)

	s, ok := p.(*Session)
	require.True(t, ok, "got %T", p)
	assert.Equal(t, -3, s.Data["trackTemperature"])
	assert.Equal(t, 58, s.Data["totalLaps"])
	assert.Equal(t, 17, s.Data["trackId"])
	assert.Equal(t, 58, s.Map()["totalLaps"])
}

func TestDecodeUnknownIDIsRaw(t *testing.T) {
	d, err := NewDecoder(DefaultLayouts())
	require.NoError(t, err)

	b := Encode(testHeader(IDMotion, 0), Layout{Size: 1349}, nil, nil)
	p, err := d.Decode(b)
	require.NoError(t, err)

	raw, ok := p.(*Raw)
	require.True(t, ok, "got %T", p)
	assert.Equal(t, 1349, raw.Size)
	assert.Equal(t, IDMotion, raw.Map()["header"].(map[string]any)["packetId"])
}

func TestDecodeErrors(t *testing.T) {
	d, err := NewDecoder(DefaultLayouts())
	require.NoError(t, err)

	_, err = d.Decode(make([]byte, 10))
	assert.True(t, errors.Is(err, ErrShortPacket))

	b := Encode(testHeader(IDCarStatus, 0), CarStatusLayout, nil, nil)
	_, err = d.Decode(b[:len(b)-1])
	assert.True(t, errors.Is(err, ErrSizeMismatch))
	assert.Contains(t, err.Error(), "car status")
}

func TestDecodeWithRemappedID(t *testing.T) {
	d, err := NewDecoder(map[uint8]Layout{9: CarDamageLayout})
	require.NoError(t, err)

	cars := make([]record.Record, NumCars)
	cars[1] = record.Record{"tyresWear": []float64{10, 20, 30, 40}, "rearWingDamage": 15}
	p, err := d.Decode(Encode(testHeader(9, 1), CarDamageLayout, cars, nil))
	require.NoError(t, err)

	dp, ok := p.(*CarDamage)
	require.True(t, ok, "got %T", p)
	assert.Equal(t, []float64{10, 20, 30, 40}, dp.Cars()[1]["tyresWear"])
	assert.Equal(t, 15, dp.Cars()[1]["rearWingDamage"])
}

func TestNewDecoderRejectsOversizedLayout(t *testing.T) {
	_, err := NewDecoder(map[uint8]Layout{1: {Name: "bad", Size: 30, Fields: []Field{{Name: "x", Type: U32}}}})
	assert.True(t, errors.Is(err, ErrInvalidLayout))
}

func TestPerCarMap(t *testing.T) {
	p := NewLapData(testHeader(IDLapData, 0), []record.Record{{"carPosition": 1}}, record.Record{"timeTrialPBCarIdx": 255})
	m := p.Map()

	assert.Equal(t, 255, m["timeTrialPBCarIdx"])
	assert.Equal(t, 1, m["cars"].([]map[string]any)[0]["carPosition"])
}
