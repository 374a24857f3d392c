package model

import "f1telemetrydash/pkg/helper"

type Category string

const (
	CategoryTelemetry Category = "telemetry"
	CategoryStatus    Category = "status"
	CategoryDamage    Category = "damage"
	CategoryLapData   Category = "lapdata"
	CategorySession   Category = "session"

	// AheadPrefix marks the keys that mirror the car ahead of the player.
	AheadPrefix = "ahead_"
)

// own car keys
const (
	Speed     = "speed"
	Gear      = "gear"
	EngineRPM = "engine_rpm"
	Throttle  = "throttle"
	Brake     = "brake"
	DRS       = "drs"

	ERSStoreEnergy    = "ers_store_energy"
	ERSDeployMode     = "ers_deploy_mode"
	FuelInTank        = "fuel_in_tank"
	FuelRemainingLaps = "fuel_remaining_laps"
	TyreCompound      = "tyre_compound"
	TyresAgeLaps      = "tyres_age_laps"

	TyresWear            = "tyres_wear"
	TyresDamage          = "tyres_damage"
	FrontLeftWingDamage  = "front_left_wing_damage"
	FrontRightWingDamage = "front_right_wing_damage"
	RearWingDamage       = "rear_wing_damage"

	LastLapTime    = "last_lap_time"
	CurrentLapTime = "current_lap_time"
	Sector1Time    = "sector1_time"
	Sector2Time    = "sector2_time"
	CarPosition    = "car_position"
	CurrentLapNum  = "current_lap_num"

	TrackTemperature = "track_temperature"
	AirTemperature   = "air_temperature"
	TotalLaps        = "total_laps"
	TrackID          = "track_id"
	SessionType      = "session_type"
	Weather          = "weather"
	SessionTimeLeft  = "session_time_left"
)

// Key is one declared entry of the telemetry state.
type Key struct {
	Name     string
	Category Category
	// Mirrored keys also exist with AheadPrefix for the car ahead.
	Mirrored bool
	Default  func() any
}

func zeroInt() any { return 0 }
func zeroFloat() any { return 0.0 }
func zeroTime() any { return helper.DefaultTime }
func zeroWheels() any { return []float64{0, 0, 0, 0} }
func unknown() any { return "Unknown" }
func noDeployMode() any { return helper.ERSDeployModeName(0) }

var declared = []Key{
	{Speed, CategoryTelemetry, true, zeroInt},
	{Gear, CategoryTelemetry, true, zeroInt},
	{EngineRPM, CategoryTelemetry, true, zeroInt},
	{Throttle, CategoryTelemetry, true, zeroFloat},
	{Brake, CategoryTelemetry, true, zeroFloat},
	{DRS, CategoryTelemetry, true, zeroInt},

	{ERSStoreEnergy, CategoryStatus, true, zeroFloat},
	{ERSDeployMode, CategoryStatus, true, noDeployMode},
	{FuelInTank, CategoryStatus, true, zeroFloat},
	{FuelRemainingLaps, CategoryStatus, true, zeroFloat},
	{TyreCompound, CategoryStatus, true, unknown},
	{TyresAgeLaps, CategoryStatus, true, zeroInt},

	{TyresWear, CategoryDamage, true, zeroWheels},
	{TyresDamage, CategoryDamage, true, zeroWheels},
	{FrontLeftWingDamage, CategoryDamage, true, zeroInt},
	{FrontRightWingDamage, CategoryDamage, true, zeroInt},
	{RearWingDamage, CategoryDamage, true, zeroInt},

	{LastLapTime, CategoryLapData, true, zeroTime},
	{CurrentLapTime, CategoryLapData, true, zeroTime},
	{Sector1Time, CategoryLapData, true, zeroTime},
	{Sector2Time, CategoryLapData, true, zeroTime},
	{CarPosition, CategoryLapData, true, zeroInt},
	{CurrentLapNum, CategoryLapData, true, zeroInt},

	{TrackTemperature, CategorySession, false, zeroInt},
	{AirTemperature, CategorySession, false, zeroInt},
	{TotalLaps, CategorySession, false, zeroInt},
	{TrackID, CategorySession, false, zeroInt},
	{SessionType, CategorySession, false, zeroInt},
	{Weather, CategorySession, false, zeroInt},
	{SessionTimeLeft, CategorySession, false, zeroInt},
}

func Ahead(key string) string {
	return AheadPrefix + key
}

// Keys returns every state key with its owning category, ahead mirrors
// included.
func Keys() map[string]Category {
	keys := make(map[string]Category, 2*len(declared))
	for _, k := range declared {
		keys[k.Name] = k.Category
		if k.Mirrored {
			keys[Ahead(k.Name)] = k.Category
		}
	}
	return keys
}

// KeysOf returns the state keys owned by one category.
func KeysOf(c Category) []string {
	keys := []string{}
	for _, k := range declared {
		if k.Category != c {
			continue
		}
		keys = append(keys, k.Name)
		if k.Mirrored {
			keys = append(keys, Ahead(k.Name))
		}
	}
	return keys
}

func defaults() map[string]any {
	values := make(map[string]any, 2*len(declared))
	for _, k := range declared {
		values[k.Name] = k.Default()
		if k.Mirrored {
			values[Ahead(k.Name)] = k.Default()
		}
	}
	return values
}
