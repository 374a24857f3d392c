package aggregator

import (
	"f1telemetrydash/pkg/helper"
	"f1telemetrydash/pkg/model"
	"f1telemetrydash/pkg/record"
)

// reader pulls one state value out of a decoded record.
type reader func(rec record.Record) any

// fieldSpec binds a state key to the way its value is read. Mirrored specs
// are read for both the player and the car ahead.
type fieldSpec struct {
	key      string
	read     reader
	mirrored bool
}

func intField(names ...string) reader {
	return func(rec record.Record) any {
		return helper.ToInt(record.Lookup(rec, names, 0), 0)
	}
}

func floatField(names ...string) reader {
	return func(rec record.Record) any {
		return helper.ToFloatOr(record.Lookup(rec, names, 0.0), 0)
	}
}

func timeField(names ...string) reader {
	return func(rec record.Record) any {
		return helper.MsToTime(record.Lookup(rec, names, nil))
	}
}

func sectorField(msNames, minuteNames []string) reader {
	return func(rec record.Record) any {
		ms := record.Lookup(rec, msNames, nil)
		minutes := record.Lookup(rec, minuteNames, 0)
		return helper.MsToTime(helper.SectorMs(ms, minutes))
	}
}

func wheelsField(names ...string) reader {
	return func(rec record.Record) any {
		return helper.Wheels(record.Lookup(rec, names, nil))
	}
}

var (
	ersStoreEnergyNames = record.Names("ers_store_energy", "ersStoreEnergy")
	ersDeployModeNames  = record.Names("ers_deploy_mode", "ersDeployMode")
)

func ersEnergyField(capacity float64) reader {
	return func(rec record.Record) any {
		return helper.ERSPercent(record.Lookup(rec, ersStoreEnergyNames, 0.0), capacity)
	}
}

func ersDeployModeField(rec record.Record) any {
	return helper.ERSDeployModeName(record.Lookup(rec, ersDeployModeNames, 0))
}

func tyreCompoundField(rec record.Record) any {
	return helper.TyreCompoundName(record.Lookup(rec, record.Names("visual_tyre_compound", "visualTyreCompound"), nil))
}

var telemetryFields = []fieldSpec{
	{model.Speed, intField(record.Names("speed")...), true},
	{model.Gear, intField(record.Names("gear")...), true},
	{model.EngineRPM, intField(record.Names("engine_rpm", "engineRPM")...), true},
	{model.Throttle, floatField(record.Names("throttle")...), true},
	{model.Brake, floatField(record.Names("brake")...), true},
	{model.DRS, intField(record.Names("drs", "DRS")...), true},
}

func statusFields(ersCapacity float64) []fieldSpec {
	return []fieldSpec{
		{model.ERSStoreEnergy, ersEnergyField(ersCapacity), true},
		{model.ERSDeployMode, ersDeployModeField, true},
		{model.FuelInTank, floatField(record.Names("fuel_in_tank")...), true},
		{model.FuelRemainingLaps, floatField(record.Names("fuel_remaining_laps")...), true},
		{model.TyreCompound, tyreCompoundField, true},
		{model.TyresAgeLaps, intField(record.Names("tyres_age_laps")...), true},
	}
}

var damageFields = []fieldSpec{
	{model.TyresWear, wheelsField(record.Names("tyres_wear")...), true},
	{model.TyresDamage, wheelsField(record.Names("tyres_damage")...), true},
	{model.FrontLeftWingDamage, intField(record.Names("front_left_wing_damage")...), true},
	{model.FrontRightWingDamage, intField(record.Names("front_right_wing_damage")...), true},
	{model.RearWingDamage, intField(record.Names("rear_wing_damage")...), true},
}

var lapDataFields = []fieldSpec{
	{model.LastLapTime, timeField(record.Names("last_lap_time_in_ms", "lastLapTimeInMS", "last_lap_time")...), true},
	{model.CurrentLapTime, timeField(record.Names("current_lap_time_in_ms", "currentLapTimeInMS", "current_lap_time")...), true},
	{model.Sector1Time, sectorField(
		record.Names("sector1_time_in_ms", "sector1TimeInMS", "sector1_time"),
		record.Names("sector1_time_minutes", "sector1TimeMinutes"),
	), true},
	{model.Sector2Time, sectorField(
		record.Names("sector2_time_in_ms", "sector2TimeInMS", "sector2_time"),
		record.Names("sector2_time_minutes", "sector2TimeMinutes"),
	), true},
	{model.CarPosition, intField(record.Names("car_position")...), true},
	{model.CurrentLapNum, intField(record.Names("current_lap_num")...), true},
}

var sessionFields = []fieldSpec{
	{model.TrackTemperature, intField(record.Names("track_temperature")...), false},
	{model.AirTemperature, intField(record.Names("air_temperature")...), false},
	{model.TotalLaps, intField(record.Names("total_laps")...), false},
	{model.TrackID, intField(record.Names("track_id", "trackId")...), false},
	{model.SessionType, intField(record.Names("session_type")...), false},
	{model.Weather, intField(record.Names("weather")...), false},
	{model.SessionTimeLeft, intField(record.Names("session_time_left")...), false},
}

// extractCars reads specs for the player and the car ahead into one update.
func extractCars(specs []fieldSpec, own, ahead record.Record) model.Update {
	u := make(model.Update, 2*len(specs))
	for _, s := range specs {
		u[s.key] = s.read(own)
		if s.mirrored {
			u[model.Ahead(s.key)] = s.read(ahead)
		}
	}
	return u
}
