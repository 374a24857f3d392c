package helper

import (
	"fmt"
	"math"
)

const (
	// DefaultTime is returned by MsToTime for anything it cannot convert.
	DefaultTime = "00:00:000"

	// ERSCapacityJoules is the maximum energy the ERS store can hold (4 MJ).
	ERSCapacityJoules = 4000000.0
)

var (
	ersDeployModes = map[int]string{
		0: "None",
		1: "Medium",
		2: "Hotlap",
		3: "Overtake",
	}
	visualCompounds = map[int]string{
		7:  "Inter",
		8:  "Wet",
		16: "Soft",
		17: "Medium",
		18: "Hard",
	}
)

// method to convert from milliseconds to minutes:seconds:milliseconds
func MsToTime(v any) string {
	f, ok := ToFloat(v)
	if !ok || f < 0 || f >= math.MaxInt64 {
		return DefaultTime
	}
	ms := int64(f)
	minutes := ms / 60000
	seconds := (ms / 1000) % 60
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%03d", minutes, seconds, millis)
}

// ERSPercent converts a stored energy in joules to a percentage of capacity.
// Non-numeric values are returned unchanged, except NaN and infinities which
// become 0 so the state stays JSON encodable.
func ERSPercent(raw any, capacity float64) any {
	f, ok := ToFloat(raw)
	if !ok {
		if nonFinite(raw) {
			return 0.0
		}
		return raw
	}
	if capacity <= 0 {
		return raw
	}
	return f * 100 / capacity
}

// SectorMs joins the split sector encoding (milliseconds part plus whole
// minutes) into a single millisecond count.
func SectorMs(ms, minutes any) any {
	m, ok := ToFloat(ms)
	if !ok {
		return ms
	}
	mins, ok := ToFloat(minutes)
	if !ok {
		return m
	}
	return mins*60000 + m
}

func ERSDeployModeName(v any) string {
	i, ok := ToFloat(v)
	if !ok {
		return "Unknown"
	}
	if name, found := ersDeployModes[int(i)]; found {
		return name
	}
	return "Unknown"
}

func TyreCompoundName(v any) string {
	i, ok := ToFloat(v)
	if !ok {
		return "Unknown"
	}
	if name, found := visualCompounds[int(i)]; found {
		return name
	}
	return "Unknown"
}

// ToFloat reports v as a float64 when it holds any finite Go numeric value.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func nonFinite(v any) bool {
	var f float64
	switch n := v.(type) {
	case float32:
		f = float64(n)
	case float64:
		f = n
	default:
		return false
	}
	return math.IsNaN(f) || math.IsInf(f, 0)
}

func ToInt(v any, def int) int {
	f, ok := ToFloat(v)
	if !ok {
		return def
	}
	return int(f)
}

func ToFloatOr(v any, def float64) float64 {
	f, ok := ToFloat(v)
	if !ok {
		return def
	}
	return f
}

// Wheels returns a four element slice, one value per wheel, from any numeric
// slice of length four. Anything else yields zeros.
func Wheels(v any) []float64 {
	out := make([]float64, 4)
	var items []any
	switch s := v.(type) {
	case []float64:
		for _, x := range s {
			items = append(items, x)
		}
	case []float32:
		for _, x := range s {
			items = append(items, x)
		}
	case []int:
		for _, x := range s {
			items = append(items, x)
		}
	case []any:
		items = s
	default:
		return out
	}
	if len(items) != 4 {
		return out
	}
	for i, x := range items {
		f, ok := ToFloat(x)
		if !ok {
			return make([]float64, 4)
		}
		out[i] = f
	}
	return out
}
