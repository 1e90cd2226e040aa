package decode

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/shkiefer/tlm-parsing/internal/codec"
	"github.com/shkiefer/tlm-parsing/internal/telemetry"
)

// payloadDecoder decodes the sensor-specific part of a 20-byte data block.
type payloadDecoder func(block []byte) telemetry.Payload

// payloadDecoders dispatches on the type tag at byte 4. Tags absent from
// the table decode to telemetry.Unknown so segmentation continues.
var payloadDecoders = map[telemetry.DataType]payloadDecoder{
	telemetry.TypeNoData:       func([]byte) telemetry.Payload { return telemetry.NoData{} },
	telemetry.TypeHighVoltage:  unparsed(telemetry.TypeHighVoltage),
	telemetry.TypeTempInternal: unparsed(telemetry.TypeTempInternal),
	telemetry.TypeJetCat:       unparsed(telemetry.TypeJetCat),
	telemetry.TypePowerBox:     decodePowerBox,
	telemetry.TypeAirSpeed:     decodeAirSpeed,
	telemetry.TypeAltitude:     decodeAltitude,
	telemetry.TypeGForce:       decodeGForce,
	telemetry.TypeGPSLocation:  decodeGPSLocation,
	telemetry.TypeGPSStatus:    decodeGPSStatus,
	telemetry.TypeRXTelemetry:  decodeRXTelemetry,
	telemetry.TypeQoS:          decodeQoS,
	telemetry.TypeESC:          decodeESC,
	telemetry.TypeGyro:         decodeGyro,
	telemetry.TypeVarioS:       decodeVarioS,
	telemetry.TypeSmartBat:     decodeSmartBattery,
}

func unparsed(t telemetry.DataType) payloadDecoder {
	return func([]byte) telemetry.Payload { return telemetry.Unparsed{DataType: t} }
}

// decodeDataBlock decodes one 20-byte data block. The timestamp is stored
// in deca-milliseconds; it is scaled to milliseconds here but still carries
// the recording's fixed start offset.
func decodeDataBlock(block []byte, sessionID int) telemetry.DataRecord {
	rec := telemetry.DataRecord{
		SessionID:   sessionID,
		TimestampMS: int64(binary.LittleEndian.Uint32(block[0:4])) * 10,
	}

	tag := telemetry.DataType(block[4])
	dec, ok := payloadDecoders[tag]
	if !ok {
		rec.Type = telemetry.TypeUnknown
		rec.Payload = telemetry.Unknown{Tag: block[4]}
		return rec
	}
	rec.Type = tag
	rec.Payload = dec(block)
	return rec
}

// powerBoxAlarms names the bits of the PowerBox alarm byte, MSB last.
var powerBoxAlarms = [8]string{
	"Voltage_1", "Voltage_2", "Capacity_1", "Capacity_2",
	"RPM?", "Temperature?", "Reserved_1", "Reserved_2",
}

func decodePowerBox(block []byte) telemetry.Payload {
	var alarms []string
	for i, name := range powerBoxAlarms {
		if block[19]&(1<<i) != 0 {
			alarms = append(alarms, name)
		}
	}
	return telemetry.PowerBox{
		SID:       block[5],
		Volt1:     codec.Uint16(block[6:8], binary.LittleEndian, 0.01),
		Volt2:     codec.Uint16(block[8:10], binary.LittleEndian, 0.01),
		Capacity1: codec.Uint16(block[10:12], binary.LittleEndian, 1),
		Capacity2: codec.Uint16(block[12:14], binary.LittleEndian, 1),
		Alarms:    strings.Join(alarms, ","),
	}
}

func decodeAirSpeed(block []byte) telemetry.Payload {
	return telemetry.AirSpeed{
		SID:      block[5],
		Airspeed: codec.Uint16(block[6:8], binary.LittleEndian, 1),
		MaxSpeed: codec.Uint16(block[8:10], binary.LittleEndian, 1),
	}
}

func decodeAltitude(block []byte) telemetry.Payload {
	return telemetry.Altitude{
		SID:         block[5],
		Altitude:    codec.Uint16(block[6:8], binary.BigEndian, 0.1),
		MaxAltitude: codec.Uint16(block[8:10], binary.BigEndian, 0.1),
	}
}

func decodeGForce(block []byte) telemetry.Payload {
	return telemetry.GForce{
		SID:     block[5],
		X:       codec.Int16(block[6:8], binary.BigEndian, 0.01),
		Y:       codec.Int16(block[8:10], binary.BigEndian, 0.01),
		Z:       codec.Int16(block[10:12], binary.BigEndian, 0.01),
		XAbsMax: codec.Int16(block[12:14], binary.BigEndian, 0.01),
		YAbsMax: codec.Int16(block[14:16], binary.BigEndian, 0.01),
		ZMax:    codec.Int16(block[16:18], binary.BigEndian, 0.01),
		ZMin:    codec.Int16(block[18:20], binary.BigEndian, 0.01),
	}
}

func decodeGPSLocation(block []byte) telemetry.Payload {
	p := telemetry.GPSLocation{SID: block[5]}

	// Altitude low word: 3 whole digits, 1 fractional.
	w, d := codec.SplitBCD(block[6:8], 3, true)
	p.AltitudeLow = bcdFloat(w, d)

	// Latitude and longitude: 2 degree digits, then minutes with a 4-digit
	// fraction, converted to decimal degrees.
	w, d = codec.SplitBCD(block[8:12], 4, true)
	p.Latitude = degrees(w[:2], w[2:], d)
	w, d = codec.SplitBCD(block[12:16], 4, true)
	p.Longitude = degrees(w[:2], w[2:4], d)

	w, d = codec.SplitBCD(block[16:18], 3, true)
	p.Course = bcdFloat(w, d)

	hd := codec.BCDByte(block[18])
	p.HDOP = bcdFloat(hd[:1], hd[1:])

	flags := codec.Bits(block[19])
	p.IsNorth = flags[0]
	p.IsEast = flags[1]
	p.IsLongGT99 = flags[2]
	p.IsGPSFixValid = flags[3]
	p.IsGPSDataRecv = flags[4]
	p.Is3DFix = flags[5]
	p.IsNegAltitude = flags[6]

	if p.Longitude != nil {
		if p.IsLongGT99 {
			*p.Longitude += 100
		}
		if !p.IsEast {
			*p.Longitude = -*p.Longitude
		}
	}
	return p
}

func decodeGPSStatus(block []byte) telemetry.Payload {
	p := telemetry.GPSStatus{SID: block[5]}

	// Speed over ground is recorded in knots.
	w, d := codec.SplitBCD(block[6:8], 3, true)
	if kn := bcdFloat(w, d); kn != nil {
		kmh := *kn * 1.852
		p.Speed = &kmh
	}

	// UTC time of fix: HHMMSS whole digits plus a 2-digit fraction. Kept as
	// a string; parsing to a time value (and coercion of malformed strings
	// to missing) happens at assembly.
	w, d = codec.SplitBCD(block[8:12], 6, true)
	p.UTC = fmt.Sprintf("%s:%s:%s.%s", w[0:2], w[2:4], w[4:6], d)

	if n, err := strconv.ParseInt(codec.BCDByte(block[12]), 10, 64); err == nil {
		p.NumSats = &n
	}
	if alt := bcdFloat(codec.BCDByte(block[13]), ""); alt != nil {
		high := *alt * 100
		p.AltitudeHigh = &high
	}
	return p
}

func decodeRXTelemetry(block []byte) telemetry.Payload {
	return telemetry.RXTelemetry{
		SID:     block[5],
		MSPulse: codec.Uint16(block[6:8], binary.BigEndian, 1),
		Volt:    codec.Uint16(block[8:10], binary.BigEndian, 0.01),
		TempF:   codec.Int16(block[10:12], binary.BigEndian, 1),
		DBmA:    codec.Int8(block[12], 1),
		DBmB:    codec.Int8(block[13], 1),
	}
}

func decodeQoS(block []byte) telemetry.Payload {
	return telemetry.QoS{
		SID:     block[5],
		A:       codec.Count16(block[6:8], binary.BigEndian),
		B:       codec.Count16(block[8:10], binary.BigEndian),
		L:       codec.Count16(block[10:12], binary.BigEndian),
		R:       codec.Count16(block[12:14], binary.BigEndian),
		F:       codec.Count16(block[14:16], binary.BigEndian),
		H:       codec.Count16(block[16:18], binary.BigEndian),
		RxVolts: codec.Uint16(block[18:20], binary.BigEndian, 0.01),
	}
}

func decodeESC(block []byte) telemetry.Payload {
	return telemetry.ESC{
		SID:          block[5],
		RPM:          codec.Uint16(block[6:8], binary.BigEndian, 10),
		VoltsInput:   codec.Uint16(block[8:10], binary.BigEndian, 0.01),
		TempFET:      codec.Uint16(block[10:12], binary.BigEndian, 0.1),
		CurrentMotor: codec.Uint16(block[12:14], binary.BigEndian, 0.01),
		// The BEC temperature reports missing as 0x7FFF despite the
		// unsigned width.
		TempBEC:    codec.Uint16Sentinel(block[14:16], binary.BigEndian, 0x7FFF, 0.1),
		CurrentBEC: codec.Uint8(block[16], 0.1),
		VoltsBEC:   codec.Uint8(block[17], 0.05),
		Throttle:   codec.Uint8(block[18], 0.5),
		PowerOut:   codec.Uint8(block[19], 0.5),
	}
}

func decodeGyro(block []byte) telemetry.Payload {
	return telemetry.Gyro{
		SID:     block[5],
		X:       codec.Int16(block[6:8], binary.BigEndian, 0.1),
		Y:       codec.Int16(block[8:10], binary.BigEndian, 0.1),
		Z:       codec.Int16(block[10:12], binary.BigEndian, 0.1),
		XAbsMax: codec.Int16(block[12:14], binary.BigEndian, 0.1),
		YAbsMax: codec.Int16(block[14:16], binary.BigEndian, 0.1),
		ZAbsMax: codec.Int16(block[16:18], binary.BigEndian, 0.1),
	}
}

func decodeVarioS(block []byte) telemetry.Payload {
	return telemetry.VarioS{
		SID:         block[5],
		Altitude:    codec.Int16(block[6:8], binary.BigEndian, 0.1),
		Delta250ms:  codec.Int16(block[8:10], binary.BigEndian, 0.1),
		Delta500ms:  codec.Int16(block[10:12], binary.BigEndian, 0.1),
		Delta1000ms: codec.Int16(block[12:14], binary.BigEndian, 0.1),
		Delta1500ms: codec.Int16(block[14:16], binary.BigEndian, 0.1),
		Delta2000ms: codec.Int16(block[16:18], binary.BigEndian, 0.1),
		Delta3000ms: codec.Int16(block[18:20], binary.BigEndian, 0.1),
	}
}

func decodeSmartBattery(block []byte) telemetry.Payload {
	switch block[6] {
	case 0x00:
		return telemetry.SmartBatteryRealTime{
			SID:              block[5],
			TempC:            codec.Int8(block[7], 1),
			DischargeCurrent: codec.Uint32(block[8:12], binary.LittleEndian, 1),
			CapacityUsed:     codec.Uint16(block[12:14], binary.LittleEndian, 1),
			MinCellVolts:     codec.Uint16(block[14:16], binary.LittleEndian, 0.001),
			MaxCellVolts:     codec.Uint16(block[16:18], binary.LittleEndian, 0.001),
		}
	case 0x10:
		// Cell temperature is read from the sub-type byte itself; observed
		// recordings carry it there.
		return telemetry.SmartBatteryCells{
			SID:   block[5],
			TempC: codec.Int8(block[6], 1),
			Cells: [6]*float64{
				codec.Uint16(block[7:9], binary.LittleEndian, 0.001),
				codec.Uint16(block[9:11], binary.LittleEndian, 0.001),
				codec.Uint16(block[11:13], binary.LittleEndian, 0.001),
				codec.Uint16(block[13:15], binary.LittleEndian, 0.001),
				codec.Uint16(block[15:17], binary.LittleEndian, 0.001),
				codec.Uint16(block[17:19], binary.LittleEndian, 0.001),
			},
		}
	default:
		return telemetry.Unparsed{DataType: telemetry.TypeSmartBat}
	}
}

// bcdFloat joins whole and fractional BCD digit strings into a float. BCD
// spans holding nibbles above 9 fail to parse and come back as missing.
func bcdFloat(whole, frac string) *float64 {
	if frac == "" {
		frac = "0"
	}
	v, err := strconv.ParseFloat(whole+"."+frac, 64)
	if err != nil {
		return nil
	}
	return &v
}

// degrees converts BCD degree digits plus minutes (whole and fraction) to
// decimal degrees.
func degrees(deg, minWhole, minFrac string) *float64 {
	d, err := strconv.ParseFloat(deg, 64)
	if err != nil {
		return nil
	}
	m := bcdFloat(minWhole, minFrac)
	if m == nil {
		return nil
	}
	v := d + *m/60
	return &v
}
