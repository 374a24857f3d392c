package packet

import "f1telemetrydash/pkg/record"

// Layout describes how to decode one packet id.
type Layout struct {
	Name string
	// Size is the exact datagram length, header included.
	Size int
	// Car is the per-car record repeated NumCars times. Nil for layouts with
	// a single body record.
	Car []Field
	// Fields follow the car array, or form the whole body when Car is nil.
	Fields []Field
	build  func(h Header, cars []record.Record, rec record.Record) Packet
}

var (
	CarTelemetryLayout = Layout{
		Name: "car telemetry",
		Size: 1352,
		Car: []Field{
			{Name: "speed", Type: U16},
			{Name: "throttle", Type: F32},
			{Name: "steer", Type: F32},
			{Name: "brake", Type: F32},
			{Name: "clutch", Type: U8},
			{Name: "gear", Type: I8},
			{Name: "engineRPM", Type: U16},
			{Name: "drs", Type: U8},
			{Name: "revLightsPercent", Type: U8},
			{Name: "revLightsBitValue", Type: U16},
			{Name: "brakesTemperature", Type: U16, Count: 4},
			{Name: "tyresSurfaceTemperature", Type: U8, Count: 4},
			{Name: "tyresInnerTemperature", Type: U8, Count: 4},
			{Name: "engineTemperature", Type: U16},
			{Name: "tyresPressure", Type: F32, Count: 4},
			{Name: "surfaceType", Type: U8, Count: 4},
		},
		Fields: []Field{
			{Name: "mfdPanelIndex", Type: U8},
			{Name: "mfdPanelIndexSecondaryPlayer", Type: U8},
			{Name: "suggestedGear", Type: I8},
		},
		build: func(h Header, cars []record.Record, rec record.Record) Packet {
			return NewCarTelemetry(h, cars, rec)
		},
	}

	CarStatusLayout = Layout{
		Name: "car status",
		Size: 1239,
		Car: []Field{
			{Name: "tractionControl", Type: U8},
			{Name: "antiLockBrakes", Type: U8},
			{Name: "fuelMix", Type: U8},
			{Name: "frontBrakeBias", Type: U8},
			{Name: "pitLimiterStatus", Type: U8},
			{Name: "fuelInTank", Type: F32},
			{Name: "fuelCapacity", Type: F32},
			{Name: "fuelRemainingLaps", Type: F32},
			{Name: "maxRPM", Type: U16},
			{Name: "idleRPM", Type: U16},
			{Name: "maxGears", Type: U8},
			{Name: "drsAllowed", Type: U8},
			{Name: "drsActivationDistance", Type: U16},
			{Name: "actualTyreCompound", Type: U8},
			{Name: "visualTyreCompound", Type: U8},
			{Name: "tyresAgeLaps", Type: U8},
			{Name: "vehicleFiaFlags", Type: I8},
			{Name: "enginePowerICE", Type: F32},
			{Name: "enginePowerMGUK", Type: F32},
			{Name: "ersStoreEnergy", Type: F32},
			{Name: "ersDeployMode", Type: U8},
			{Name: "ersHarvestedThisLapMGUK", Type: F32},
			{Name: "ersHarvestedThisLapMGUH", Type: F32},
			{Name: "ersDeployedThisLap", Type: F32},
			{Name: "networkPaused", Type: U8},
		},
		build: func(h Header, cars []record.Record, _ record.Record) Packet {
			return NewCarStatus(h, cars)
		},
	}

	CarDamageLayout = Layout{
		Name: "car damage",
		Size: 953,
		Car: []Field{
			{Name: "tyresWear", Type: F32, Count: 4},
			{Name: "tyresDamage", Type: U8, Count: 4},
			{Name: "brakesDamage", Type: U8, Count: 4},
			{Name: "frontLeftWingDamage", Type: U8},
			{Name: "frontRightWingDamage", Type: U8},
			{Name: "rearWingDamage", Type: U8},
			{Name: "floorDamage", Type: U8},
			{Name: "diffuserDamage", Type: U8},
			{Name: "sidepodDamage", Type: U8},
			{Name: "drsFault", Type: U8},
			{Name: "ersFault", Type: U8},
			{Name: "gearBoxDamage", Type: U8},
			{Name: "engineDamage", Type: U8},
			{Name: "engineMGUHWear", Type: U8},
			{Name: "engineESWear", Type: U8},
			{Name: "engineCEWear", Type: U8},
			{Name: "engineICEWear", Type: U8},
			{Name: "engineMGUKWear", Type: U8},
			{Name: "engineTCWear", Type: U8},
			{Name: "engineBlown", Type: U8},
			{Name: "engineSeized", Type: U8},
		},
		build: func(h Header, cars []record.Record, _ record.Record) Packet {
			return NewCarDamage(h, cars)
		},
	}

	LapDataLayout = Layout{
		Name: "lap data",
		Size: 1131,
		Car: []Field{
			{Name: "lastLapTimeInMS", Type: U32},
			{Name: "currentLapTimeInMS", Type: U32},
			{Name: "sector1TimeInMS", Type: U16},
			{Name: "sector1TimeMinutes", Type: U8},
			{Name: "sector2TimeInMS", Type: U16},
			{Name: "sector2TimeMinutes", Type: U8},
			{Name: "deltaToCarInFrontInMS", Type: U16},
			{Name: "deltaToRaceLeaderInMS", Type: U16},
			{Name: "lapDistance", Type: F32},
			{Name: "totalDistance", Type: F32},
			{Name: "safetyCarDelta", Type: F32},
			{Name: "carPosition", Type: U8},
			{Name: "currentLapNum", Type: U8},
			{Name: "pitStatus", Type: U8},
			{Name: "numPitStops", Type: U8},
			{Name: "sector", Type: U8},
			{Name: "currentLapInvalid", Type: U8},
			{Name: "penalties", Type: U8},
			{Name: "totalWarnings", Type: U8},
			{Name: "cornerCuttingWarnings", Type: U8},
			{Name: "numUnservedDriveThroughPens", Type: U8},
			{Name: "numUnservedStopGoPens", Type: U8},
			{Name: "gridPosition", Type: U8},
			{Name: "driverStatus", Type: U8},
			{Name: "resultStatus", Type: U8},
			{Name: "pitLaneTimerActive", Type: U8},
			{Name: "pitLaneTimeInLaneInMS", Type: U16},
			{Name: "pitStopTimerInMS", Type: U16},
			{Name: "pitStopShouldServePen", Type: U8},
		},
		Fields: []Field{
			{Name: "timeTrialPBCarIdx", Type: U8},
			{Name: "timeTrialRivalCarIdx", Type: U8},
		},
		build: func(h Header, cars []record.Record, rec record.Record) Packet {
			return NewLapData(h, cars, rec)
		},
	}

	// SessionLayout only decodes the leading session fields; marshal zones,
	// forecasts and the rest of the body are skipped.
	SessionLayout = Layout{
		Name: "session",
		Size: 644,
		Fields: []Field{
			{Name: "weather", Type: U8},
			{Name: "trackTemperature", Type: I8},
			{Name: "airTemperature", Type: I8},
			{Name: "totalLaps", Type: U8},
			{Name: "trackLength", Type: U16},
			{Name: "sessionType", Type: U8},
			{Name: "trackId", Type: I8},
			{Name: "formula", Type: U8},
			{Name: "sessionTimeLeft", Type: U16},
			{Name: "sessionDuration", Type: U16},
			{Name: "pitSpeedLimit", Type: U8},
			{Name: "gamePaused", Type: U8},
			{Name: "isSpectating", Type: U8},
			{Name: "spectatorCarIndex", Type: U8},
			{Name: "sliProNativeSupport", Type: U8},
			{Name: "numMarshalZones", Type: U8},
		},
		build: func(h Header, _ []record.Record, rec record.Record) Packet {
			return NewSession(h, rec)
		},
	}
)

// DefaultLayouts maps the game's own packet ids to their layouts.
func DefaultLayouts() map[uint8]Layout {
	return map[uint8]Layout{
		IDSession:      SessionLayout,
		IDLapData:      LapDataLayout,
		IDCarTelemetry: CarTelemetryLayout,
		IDCarStatus:    CarStatusLayout,
		IDCarDamage:    CarDamageLayout,
	}
}

func (l Layout) bodySize() int {
	return HeaderSize + NumCars*fieldsSize(l.Car) + fieldsSize(l.Fields)
}
