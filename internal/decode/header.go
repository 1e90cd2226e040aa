package decode

import (
	"bytes"
	"strings"

	"github.com/shkiefer/tlm-parsing/internal/telemetry"
)

// isMainHeader reports whether a 36-byte header block opens a new session
// rather than declaring a sensor. The discriminant is reverse-engineered:
// bytes 4 and 5 differ (a supplemental header repeats its sensor tag there)
// and the block contains an ASCII apostrophe somewhere. It has only been
// validated against a small set of recordings; if a more reliable
// discriminant turns up, this predicate is the single place to swap it.
func isMainHeader(block []byte) bool {
	return block[4] != block[5] && bytes.ContainsRune(block, '\'')
}

// decodeMainHeader decodes the block that opens a session. The model name
// offset depends on the bind mode; bind modes with an unknown layout leave
// the name empty rather than reading out-of-contract bytes.
func decodeMainHeader(block []byte, sessionID int) telemetry.MainHeader {
	hdr := telemetry.MainHeader{
		SessionID: sessionID,
		ModelType: telemetry.ModelType(block[4]),
		BindInfo:  telemetry.BindInfo(block[5]),
	}

	switch hdr.BindInfo {
	case telemetry.BindDSMX22ms:
		hdr.ModelName = modelName(block[12:22])
	case telemetry.BindIX:
		hdr.ModelName = modelName(block[10:22])
	}
	return hdr
}

func modelName(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}

// decodeSupplementalHeader decodes a sensor declaration block. The sensor
// tag is stored twice, at bytes 4 and 5; any pair outside the known table
// (including unequal pairs) maps to SensorUnknown.
func decodeSupplementalHeader(block []byte, sessionID int) telemetry.SupplementalHeader {
	sensor := telemetry.SensorUnknown
	if block[4] == block[5] {
		switch s := telemetry.SensorType(block[4]); s {
		case telemetry.SensorVolt, telemetry.SensorTemp, telemetry.SensorAmps,
			telemetry.SensorPowerBox, telemetry.SensorAirspeed, telemetry.SensorAltitude,
			telemetry.SensorGForce, telemetry.SensorJetCat, telemetry.SensorGPS,
			telemetry.SensorEndOfHeader, telemetry.SensorGyro, telemetry.SensorESC,
			telemetry.SensorVarioS, telemetry.SensorSmartBat, telemetry.SensorRPM,
			telemetry.SensorRXTelemetry:
			sensor = s
		}
	}
	return telemetry.SupplementalHeader{SessionID: sessionID, Sensor: sensor}
}
