package decode

import (
	"math"
	"reflect"
	"testing"

	"github.com/shkiefer/tlm-parsing/internal/telemetry"
)

func fieldByName(t *testing.T, p telemetry.Payload, name string) any {
	t.Helper()
	for _, f := range p.Fields() {
		if f.Name == name {
			return f.Value
		}
	}
	t.Fatalf("payload %T has no field %q", p, name)
	return nil
}

func wantFloat(t *testing.T, p telemetry.Payload, name string, want float64) {
	t.Helper()
	v, ok := fieldByName(t, p, name).(*float64)
	if !ok || v == nil {
		t.Fatalf("%s: expected a value, got %v", name, v)
	}
	if math.Abs(*v-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, *v, want)
	}
}

func wantMissing(t *testing.T, p telemetry.Payload, name string) {
	t.Helper()
	switch v := fieldByName(t, p, name).(type) {
	case *float64:
		if v != nil {
			t.Errorf("%s = %v, want missing", name, *v)
		}
	case *int64:
		if v != nil {
			t.Errorf("%s = %v, want missing", name, *v)
		}
	default:
		t.Fatalf("%s: unexpected field kind %T", name, v)
	}
}

func TestDecodeDataBlockTimestamp(t *testing.T) {
	rec := decodeDataBlock(dataBytes(123456, 0x00), 1)
	if rec.TimestampMS != 1234560 {
		t.Errorf("timestamp = %d, want 1234560", rec.TimestampMS)
	}
	if rec.Type != telemetry.TypeNoData {
		t.Errorf("type = %v, want NoData", rec.Type)
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	rec := decodeDataBlock(dataBytes(1, 0x99), 1)
	if rec.Type != telemetry.TypeUnknown {
		t.Fatalf("type = %v, want Unknown Source", rec.Type)
	}
	u, ok := rec.Payload.(telemetry.Unknown)
	if !ok {
		t.Fatalf("payload = %T, want telemetry.Unknown", rec.Payload)
	}
	if u.Tag != 0x99 {
		t.Errorf("tag = %#x, want 0x99", u.Tag)
	}
	if u.Fields() != nil {
		t.Errorf("unknown payload carries fields")
	}
}

func TestDecodeUnparsedTags(t *testing.T) {
	for _, tag := range []byte{0x01, 0x02, 0x15} {
		rec := decodeDataBlock(dataBytes(1, tag), 1)
		p, ok := rec.Payload.(telemetry.Unparsed)
		if !ok {
			t.Fatalf("tag %#x: payload = %T, want Unparsed", tag, rec.Payload)
		}
		if p.Type() != telemetry.DataType(tag) {
			t.Errorf("tag %#x: type = %v", tag, p.Type())
		}
	}
}

func TestDecodeAirSpeed(t *testing.T) {
	rec := decodeDataBlock(dataBytes(10, 0x11, 3, 0xE8, 0x03, 0xFF, 0xFF), 1)
	p := rec.Payload.(telemetry.AirSpeed)
	if p.SID != 3 {
		t.Errorf("sid = %d, want 3", p.SID)
	}
	wantFloat(t, p, "airSpeed_airspeed_km/h", 1000)
	wantMissing(t, p, "airSpeed_maxAirspeed_km/h")
}

func TestDecodeAltitude(t *testing.T) {
	rec := decodeDataBlock(dataBytes(10, 0x12, 1, 0x03, 0xE8, 0x00, 0x64), 1)
	p := rec.Payload.(telemetry.Altitude)
	wantFloat(t, p, "alt_altitude_m", 100)
	wantFloat(t, p, "alt_altitude_max_m", 10)
}

func TestDecodePowerBox(t *testing.T) {
	block := dataBytes(10, 0x0A, 2,
		0xE8, 0x03, // volt1 LE 1000 -> 10.00V
		0xFF, 0xFF, // volt2 missing
		0xF4, 0x01, // capacity1 LE 500
		0xFF, 0xFF, // capacity2 missing
		0, 0, 0, 0, 0, // spares
		0x05, // alarms: Voltage_1 | Capacity_1
	)
	p := decodeDataBlock(block, 1).Payload.(telemetry.PowerBox)
	wantFloat(t, p, "pwrBox_volt1_v", 10)
	wantMissing(t, p, "pwrBox_volt2_v")
	wantFloat(t, p, "pwrBox_capacity1_mAh", 500)
	if p.Alarms != "Voltage_1,Capacity_1" {
		t.Errorf("alarms = %q", p.Alarms)
	}

	block[19] = 0x00
	p = decodeDataBlock(block, 1).Payload.(telemetry.PowerBox)
	if p.Alarms != "" {
		t.Errorf("alarms = %q, want empty", p.Alarms)
	}
}

func TestDecodeGForce(t *testing.T) {
	block := dataBytes(10, 0x14, 4,
		0x00, 0x64, // x: 1.00g
		0xFF, 0x9C, // y: -1.00g
		0x7F, 0xFF, // z missing
		0x01, 0x2C, // x abs max: 3.00g
		0x00, 0x00, // y abs max: 0
		0x00, 0x0A, // z max: 0.10g
		0xFF, 0xF6, // z min: -0.10g
	)
	p := decodeDataBlock(block, 1).Payload.(telemetry.GForce)
	wantFloat(t, p, "gForce_x_g", 1)
	wantFloat(t, p, "gForce_y_g", -1)
	wantMissing(t, p, "gForce_z_g")
	wantFloat(t, p, "gForce_x_abs_max_g", 3)
	wantFloat(t, p, "gForce_z_max_g", 0.1)
	wantFloat(t, p, "gForce_z_min_g", -0.1)
}

func TestDecodeGPSLocation(t *testing.T) {
	block := dataBytes(10, 0x16, 7,
		0x34, 0x12, // altitude low: 123.4m (LSB-first BCD)
		0x00, 0x50, 0x06, 0x47, // latitude: 47 deg 06.5000 min
		0x00, 0x56, 0x34, 0x12, // longitude: 12 deg 34.5600 min
		0x00, 0x18, // course: 180.0
		0x12, // hdop: 1.2
		0x80, // flags: north only, not east
	)
	p := decodeDataBlock(block, 1).Payload.(telemetry.GPSLocation)
	wantFloat(t, p, "gpsLoc_altitudeLow_m", 123.4)
	wantFloat(t, p, "gpsLoc_latitude_deg", 47+6.5/60)
	wantFloat(t, p, "gpsLoc_longitude_deg", -(12 + 34.56/60))
	wantFloat(t, p, "gpsLoc_course", 180)
	wantFloat(t, p, "gpsLoc_hdop", 1.2)
	if !p.IsNorth || p.IsEast || p.IsLongGT99 {
		t.Errorf("flags = %+v", p)
	}
}

func TestDecodeGPSLocationEastShift(t *testing.T) {
	block := dataBytes(10, 0x16, 7,
		0x34, 0x12,
		0x00, 0x50, 0x06, 0x47,
		0x00, 0x56, 0x34, 0x12,
		0x00, 0x18,
		0x12,
		0xE0, // north, east, longitude > 99
	)
	p := decodeDataBlock(block, 1).Payload.(telemetry.GPSLocation)
	wantFloat(t, p, "gpsLoc_longitude_deg", 112+34.56/60)
}

func TestDecodeGPSStatus(t *testing.T) {
	block := dataBytes(10, 0x17, 7,
		0x00, 0x01, // speed: 10.0 knots (LSB-first BCD)
		0x45, 0x05, 0x30, 0x12, // utc: 12:30:05.45
		0x08, // sats: 8
		0x03, // altitude high: 300m
	)
	p := decodeDataBlock(block, 1).Payload.(telemetry.GPSStatus)
	wantFloat(t, p, "gpsStat_speed_km/h", 18.52)
	if p.UTC != "12:30:05.45" {
		t.Errorf("utc = %q, want 12:30:05.45", p.UTC)
	}
	if p.NumSats == nil || *p.NumSats != 8 {
		t.Errorf("numSats = %v, want 8", p.NumSats)
	}
	wantFloat(t, p, "gpsStat_altitudeHigh_m", 300)
}

func TestDecodeRXTelemetry(t *testing.T) {
	block := dataBytes(10, 0x7E, 1,
		0x05, 0xDC, // pulse: 1500
		0x02, 0x9A, // volts: 6.66
		0x00, 0x48, // temp: 72F
		0xB5, // dBm A: -75
		0x7F, // dBm B: missing
	)
	p := decodeDataBlock(block, 1).Payload.(telemetry.RXTelemetry)
	wantFloat(t, p, "rcvr_msPulse", 1500)
	wantFloat(t, p, "rcvr_volt_v", 6.66)
	wantFloat(t, p, "rcvr_temp_F", 72)
	wantFloat(t, p, "rcvr_dBmA", -75)
	wantMissing(t, p, "rcvr_dBmB")
}

func TestDecodeQoS(t *testing.T) {
	block := dataBytes(10, 0x7F, 1,
		0x00, 0x2A, // A: 42
		0x00, 0x00, // B: 0
		0xFF, 0xFF, // L: missing
		0x00, 0x01, // R: 1
		0x00, 0x00, // F: 0
		0xFF, 0xFF, // H: missing
		0x01, 0xF4, // rx volts: 5.00
	)
	p := decodeDataBlock(block, 1).Payload.(telemetry.QoS)
	if p.A == nil || *p.A != 42 {
		t.Errorf("A = %v, want 42", p.A)
	}
	wantMissing(t, p, "QoS_L")
	wantMissing(t, p, "QoS_H")
	wantFloat(t, p, "QoS_rxVolts_v", 5)
}

func TestDecodeESC(t *testing.T) {
	block := dataBytes(10, 0x20, 1,
		0x00, 0x64, // rpm: 1000
		0x07, 0xD0, // input: 20.00V
		0x01, 0xF4, // FET: 50.0C
		0x03, 0xE8, // motor: 10.00A
		0x7F, 0xFF, // BEC temp: signed-width sentinel
		0x0A, // BEC current: 1.0A
		0x64, // BEC volts: 5.00V
		0xC8, // throttle: 100%
		0xFF, // power out: missing
	)
	p := decodeDataBlock(block, 1).Payload.(telemetry.ESC)
	wantFloat(t, p, "esc_rpm", 1000)
	wantFloat(t, p, "esc_vInput", 20)
	wantFloat(t, p, "esc_tempFET_C", 50)
	wantFloat(t, p, "esc_currentMotor_amp", 10)
	wantMissing(t, p, "esc_tempBEC_C")
	wantFloat(t, p, "esc_currentBEC_amp", 1)
	wantFloat(t, p, "esc_vBEC", 5)
	wantFloat(t, p, "esc_throttle_%", 100)
	wantMissing(t, p, "esc_powerOut_%")

	// 0xFFFF is a value for this field, not a sentinel.
	block[14], block[15] = 0xFF, 0xFF
	p = decodeDataBlock(block, 1).Payload.(telemetry.ESC)
	wantFloat(t, p, "esc_tempBEC_C", 6553.5)
}

func TestDecodeGyro(t *testing.T) {
	block := dataBytes(10, 0x1A, 1,
		0x00, 0x64, // x: 10.0
		0xFF, 0x9C, // y: -10.0
		0x7F, 0xFF, // z: missing
		0x03, 0xE8, // x abs max: 100.0
		0x00, 0x00,
		0x00, 0x00,
	)
	p := decodeDataBlock(block, 1).Payload.(telemetry.Gyro)
	wantFloat(t, p, "gyro_gyroX_deg/s", 10)
	wantFloat(t, p, "gyro_gyroY_deg/s", -10)
	wantMissing(t, p, "gyro_gyroZ_deg/s")
	wantFloat(t, p, "gyro_gyroX_abs_max_deg/s", 100)
}

func TestDecodeVarioS(t *testing.T) {
	block := dataBytes(10, 0x40, 1,
		0x03, 0xE8, // altitude: 100.0m
		0x00, 0x0A, // 250ms: 1.0
		0xFF, 0xF6, // 500ms: -1.0
		0x7F, 0xFF, // 1000ms: missing
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,
	)
	p := decodeDataBlock(block, 1).Payload.(telemetry.VarioS)
	wantFloat(t, p, "vario_altitude_m", 100)
	wantFloat(t, p, "vario_delta_0250ms_m/s", 1)
	wantFloat(t, p, "vario_delta_0500ms_m/s", -1)
	wantMissing(t, p, "vario_delta_1000ms_m/s")
}

func TestDecodeSmartBattery(t *testing.T) {
	t.Run("real time", func(t *testing.T) {
		block := dataBytes(10, 0x42, 1,
			0x00, // sub-type 0
			0x19, // temp: 25C
			0x10, 0x27, 0x00, 0x00, // discharge: 10000mA
			0xF4, 0x01, // capacity used: 500mAh
			0x6C, 0x0E, // min cell: 3.692V
			0xFF, 0xFF, // max cell: missing
		)
		p := decodeDataBlock(block, 1).Payload.(telemetry.SmartBatteryRealTime)
		wantFloat(t, p, "smartBatRT_temp_C", 25)
		wantFloat(t, p, "smartBatRT_dichargeCurrent_mA", 10000)
		wantFloat(t, p, "smartBatRT_battCapacityUse_mAh", 500)
		wantFloat(t, p, "smartBatRT_minCellVoltage_v", 3.692)
		wantMissing(t, p, "smartBatRT_maxCellVoltage_v")
	})

	t.Run("cell voltages", func(t *testing.T) {
		block := dataBytes(10, 0x42, 1,
			0x10, // sub-type 16, doubles as the temp byte
			0xAE, 0x0E, // cell1: 3.758V
			0xB2, 0x0E, // cell2: 3.762V
			0xFF, 0xFF, // cell3: missing
			0x00, 0x00, // cell4: 0
			0x00, 0x00,
			0x00, 0x00,
		)
		p := decodeDataBlock(block, 1).Payload.(telemetry.SmartBatteryCells)
		wantFloat(t, p, "smartBatCells_temp_C", 16)
		wantFloat(t, p, "smartBatCells_cell1_v", 3.758)
		wantFloat(t, p, "smartBatCells_cell2_v", 3.762)
		wantMissing(t, p, "smartBatCells_cell3_v")
	})

	t.Run("unknown sub-type", func(t *testing.T) {
		block := dataBytes(10, 0x42, 1, 0x05)
		p, ok := decodeDataBlock(block, 1).Payload.(telemetry.Unparsed)
		if !ok || p.Type() != telemetry.TypeSmartBat {
			t.Fatalf("payload = %#v, want empty Smart Battery record", p)
		}
	})
}

func TestDecodeDeterminism(t *testing.T) {
	var buf []byte
	buf = append(buf, func() []byte {
		b := headerBytes(0x02, 0xb2)
		copy(b[12:22], "Glider1")
		b[30] = '\''
		return b
	}()...)
	buf = append(buf, headerBytes(0x16, 0x16)...)
	buf = append(buf, dataBytes(100, 0x11, 3, 0xE8, 0x03, 0xFF, 0xFF)...)
	buf = append(buf, dataBytes(101, 0x99)...)

	a := Decode(buf, "flight.TLM")
	b := Decode(buf, "flight.TLM")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("decoding the same buffer twice produced different documents")
	}
}
