package telemetry

// NoData is the payload of a tag 0x00 block. The receiver emits these while
// no sensor reading is available for the slot.
type NoData struct{}

func (NoData) Type() DataType  { return TypeNoData }
func (NoData) Fields() []Field { return nil }

// Unknown is the payload of a block whose tag byte is not in the known set.
type Unknown struct {
	Tag byte
}

func (Unknown) Type() DataType  { return TypeUnknown }
func (Unknown) Fields() []Field { return nil }

// Unparsed marks a recognized tag whose field layout is not known (JetCat,
// internal high-voltage and temperature) or a Smart Battery sub-type outside
// the documented set. The timestamp is still usable.
type Unparsed struct {
	DataType DataType
}

func (u Unparsed) Type() DataType { return u.DataType }
func (Unparsed) Fields() []Field  { return nil }

// PowerBox carries two battery voltages and capacities plus an alarm byte.
type PowerBox struct {
	SID       uint8
	Volt1     *float64 // V
	Volt2     *float64 // V
	Capacity1 *float64 // mAh
	Capacity2 *float64 // mAh
	Alarms    string   // comma-joined alarm names, empty when none raised
}

func (PowerBox) Type() DataType { return TypePowerBox }

func (p PowerBox) Fields() []Field {
	return []Field{
		{"pwrBox_sid", int64(p.SID)},
		{"pwrBox_volt1_v", p.Volt1},
		{"pwrBox_volt2_v", p.Volt2},
		{"pwrBox_capacity1_mAh", p.Capacity1},
		{"pwrBox_capacity2_mAh", p.Capacity2},
		{"pwrBox_alarms", p.Alarms},
	}
}

// AirSpeed carries pitot airspeed readings in km/h.
type AirSpeed struct {
	SID      uint8
	Airspeed *float64
	MaxSpeed *float64
}

func (AirSpeed) Type() DataType { return TypeAirSpeed }

func (a AirSpeed) Fields() []Field {
	return []Field{
		{"airSpeed_sid", int64(a.SID)},
		{"airSpeed_airspeed_km/h", a.Airspeed},
		{"airSpeed_maxAirspeed_km/h", a.MaxSpeed},
	}
}

// Altitude carries barometric altitude in meters.
type Altitude struct {
	SID         uint8
	Altitude    *float64
	MaxAltitude *float64
}

func (Altitude) Type() DataType { return TypeAltitude }

func (a Altitude) Fields() []Field {
	return []Field{
		{"alt_sid", int64(a.SID)},
		{"alt_altitude_m", a.Altitude},
		{"alt_altitude_max_m", a.MaxAltitude},
	}
}

// GForce carries three-axis acceleration in g. The Z max/min pair tracks
// wing spar load extremes.
type GForce struct {
	SID        uint8
	X, Y, Z    *float64
	XAbsMax    *float64
	YAbsMax    *float64
	ZMax, ZMin *float64
}

func (GForce) Type() DataType { return TypeGForce }

func (g GForce) Fields() []Field {
	return []Field{
		{"gForce_sid", int64(g.SID)},
		{"gForce_x_g", g.X},
		{"gForce_y_g", g.Y},
		{"gForce_z_g", g.Z},
		{"gForce_x_abs_max_g", g.XAbsMax},
		{"gForce_y_abs_max_g", g.YAbsMax},
		{"gForce_z_max_g", g.ZMax},
		{"gForce_z_min_g", g.ZMin},
	}
}

// GPSLocation carries a decoded fix position. Latitude and longitude are in
// decimal degrees; longitude is negated when the east flag is clear and
// shifted by +100 degrees when the long-greater-than-99 flag is set.
type GPSLocation struct {
	SID         uint8
	AltitudeLow *float64 // m, low word; see GPSStatus.AltitudeHigh
	Latitude    *float64
	Longitude   *float64
	Course      *float64
	HDOP        *float64

	IsNorth       bool
	IsEast        bool
	IsLongGT99    bool
	IsGPSFixValid bool
	IsGPSDataRecv bool
	Is3DFix       bool
	IsNegAltitude bool
}

func (GPSLocation) Type() DataType { return TypeGPSLocation }

func (g GPSLocation) Fields() []Field {
	return []Field{
		{"gpsLoc_sid", int64(g.SID)},
		{"gpsLoc_altitudeLow_m", g.AltitudeLow},
		{"gpsLoc_latitude_deg", g.Latitude},
		{"gpsLoc_longitude_deg", g.Longitude},
		{"gpsLoc_course", g.Course},
		{"gpsLoc_hdop", g.HDOP},
		{"gpsLoc_isNorth", g.IsNorth},
		{"gpsLoc_isEast", g.IsEast},
		{"gpsLoc_isLongGT99", g.IsLongGT99},
		{"gpsLoc_isGpsFixValid", g.IsGPSFixValid},
		{"gpsLoc_isGpsDataReceived", g.IsGPSDataRecv},
		{"gpsLoc_is3Dfix", g.Is3DFix},
		{"gpsLoc_isNegAltitude", g.IsNegAltitude},
	}
}

// GPSStatus carries ground speed, UTC time of fix, satellite count and the
// altitude high word. UTC is kept as the raw HH:MM:SS.ff string here; the
// assembler parses it into a time value.
type GPSStatus struct {
	SID          uint8
	Speed        *float64 // km/h, converted from knots
	UTC          string
	NumSats      *int64
	AltitudeHigh *float64 // m, x100 high word
}

func (GPSStatus) Type() DataType { return TypeGPSStatus }

func (g GPSStatus) Fields() []Field {
	return []Field{
		{"gpsStat_sid", int64(g.SID)},
		{"gpsStat_speed_km/h", g.Speed},
		{"gpsStat_utc", g.UTC},
		{"gpsStat_numSats", g.NumSats},
		{"gpsStat_altitudeHigh_m", g.AltitudeHigh},
	}
}

// RXTelemetry is the standard receiver telemetry frame.
type RXTelemetry struct {
	SID     uint8
	MSPulse *float64
	Volt    *float64 // V
	TempF   *float64
	DBmA    *float64
	DBmB    *float64
}

func (RXTelemetry) Type() DataType { return TypeRXTelemetry }

func (r RXTelemetry) Fields() []Field {
	return []Field{
		{"rcvr_sid", int64(r.SID)},
		{"rcvr_msPulse", r.MSPulse},
		{"rcvr_volt_v", r.Volt},
		{"rcvr_temp_F", r.TempF},
		{"rcvr_dBmA", r.DBmA},
		{"rcvr_dBmB", r.DBmB},
	}
}

// QoS carries the link quality counters. All counters are nullable
// integers.
type QoS struct {
	SID              uint8
	A, B, L, R, F, H *int64
	RxVolts          *float64 // V
}

func (QoS) Type() DataType { return TypeQoS }

func (q QoS) Fields() []Field {
	return []Field{
		{"QoS_sid", int64(q.SID)},
		{"QoS_A", q.A},
		{"QoS_B", q.B},
		{"QoS_L", q.L},
		{"QoS_R", q.R},
		{"QoS_F", q.F},
		{"QoS_H", q.H},
		{"QoS_rxVolts_v", q.RxVolts},
	}
}

// ESC carries electronic speed controller telemetry.
type ESC struct {
	SID          uint8
	RPM          *float64
	VoltsInput   *float64 // V
	TempFET      *float64 // °C
	CurrentMotor *float64 // A
	TempBEC      *float64 // °C
	CurrentBEC   *float64 // A
	VoltsBEC     *float64 // V
	Throttle     *float64 // %
	PowerOut     *float64 // %
}

func (ESC) Type() DataType { return TypeESC }

func (e ESC) Fields() []Field {
	return []Field{
		{"esc_sid", int64(e.SID)},
		{"esc_rpm", e.RPM},
		{"esc_vInput", e.VoltsInput},
		{"esc_tempFET_C", e.TempFET},
		{"esc_currentMotor_amp", e.CurrentMotor},
		{"esc_tempBEC_C", e.TempBEC},
		{"esc_currentBEC_amp", e.CurrentBEC},
		{"esc_vBEC", e.VoltsBEC},
		{"esc_throttle_%", e.Throttle},
		{"esc_powerOut_%", e.PowerOut},
	}
}

// Gyro carries three-axis rotation rates in deg/s.
type Gyro struct {
	SID     uint8
	X, Y, Z *float64
	XAbsMax *float64
	YAbsMax *float64
	ZAbsMax *float64
}

func (Gyro) Type() DataType { return TypeGyro }

func (g Gyro) Fields() []Field {
	return []Field{
		{"gyro_sid", int64(g.SID)},
		{"gyro_gyroX_deg/s", g.X},
		{"gyro_gyroY_deg/s", g.Y},
		{"gyro_gyroZ_deg/s", g.Z},
		{"gyro_gyroX_abs_max_deg/s", g.XAbsMax},
		{"gyro_gyroY_abs_max_deg/s", g.YAbsMax},
		{"gyro_gyroZ_abs_max_deg/s", g.ZAbsMax},
	}
}

// VarioS carries altitude plus rate-of-climb deltas over six windows.
type VarioS struct {
	SID         uint8
	Altitude    *float64 // m
	Delta250ms  *float64 // m/s
	Delta500ms  *float64
	Delta1000ms *float64
	Delta1500ms *float64
	Delta2000ms *float64
	Delta3000ms *float64
}

func (VarioS) Type() DataType { return TypeVarioS }

func (v VarioS) Fields() []Field {
	return []Field{
		{"vario_sid", int64(v.SID)},
		{"vario_altitude_m", v.Altitude},
		{"vario_delta_0250ms_m/s", v.Delta250ms},
		{"vario_delta_0500ms_m/s", v.Delta500ms},
		{"vario_delta_1000ms_m/s", v.Delta1000ms},
		{"vario_delta_1500ms_m/s", v.Delta1500ms},
		{"vario_delta_2000ms_m/s", v.Delta2000ms},
		{"vario_delta_3000ms_m/s", v.Delta3000ms},
	}
}

// SmartBatteryRealTime is Smart Battery sub-type 0.
type SmartBatteryRealTime struct {
	SID              uint8
	TempC            *float64
	DischargeCurrent *float64 // mA
	CapacityUsed     *float64 // mAh
	MinCellVolts     *float64 // V
	MaxCellVolts     *float64 // V
}

func (SmartBatteryRealTime) Type() DataType { return TypeSmartBat }

func (s SmartBatteryRealTime) Fields() []Field {
	return []Field{
		{"smartBatRT_sid", int64(s.SID)},
		{"smartBatRT_temp_C", s.TempC},
		{"smartBatRT_dichargeCurrent_mA", s.DischargeCurrent},
		{"smartBatRT_battCapacityUse_mAh", s.CapacityUsed},
		{"smartBatRT_minCellVoltage_v", s.MinCellVolts},
		{"smartBatRT_maxCellVoltage_v", s.MaxCellVolts},
	}
}

// SmartBatteryCells is Smart Battery sub-type 16, per-cell voltages.
type SmartBatteryCells struct {
	SID   uint8
	TempC *float64
	Cells [6]*float64 // V
}

func (SmartBatteryCells) Type() DataType { return TypeSmartBat }

func (s SmartBatteryCells) Fields() []Field {
	return []Field{
		{"smartBatCells_sid", int64(s.SID)},
		{"smartBatCells_temp_C", s.TempC},
		{"smartBatCells_cell1_v", s.Cells[0]},
		{"smartBatCells_cell2_v", s.Cells[1]},
		{"smartBatCells_cell3_v", s.Cells[2]},
		{"smartBatCells_cell4_v", s.Cells[3]},
		{"smartBatCells_cell5_v", s.Cells[4]},
		{"smartBatCells_cell6_v", s.Cells[5]},
	}
}
