package telemetry

// ModelType is the aircraft model type byte from a main header block.
type ModelType byte

const (
	ModelFixedWing  ModelType = 0x00
	ModelHelicopter ModelType = 0x01
	ModelGlider     ModelType = 0x02
)

func (m ModelType) String() string {
	switch m {
	case ModelFixedWing:
		return "Fixed Wing"
	case ModelHelicopter:
		return "Helicopter"
	case ModelGlider:
		return "Glider"
	default:
		return "Unknown"
	}
}

// BindInfo is the transmitter bind mode byte from a main header block.
// The value also determines where the model name sits within the block.
type BindInfo byte

const (
	BindDSMX22ms   BindInfo = 0xb2
	BindIX         BindInfo = 0x00
	BindDSM26000   BindInfo = 0x01
	BindDSM28000RX BindInfo = 0x02
	BindDSMX8000RX BindInfo = 0x03
	BindDMSX6000RX BindInfo = 0x04
)

func (b BindInfo) String() string {
	switch b {
	case BindDSMX22ms:
		return "DSMX 22ms"
	case BindIX:
		return "iXxx"
	case BindDSM26000:
		return "DSM2 6000"
	case BindDSM28000RX:
		return "DSM2 8000 RX"
	case BindDSMX8000RX:
		return "DSMX 8000 RX"
	case BindDMSX6000RX:
		return "DMSX 6000 RX"
	default:
		return "Unknown"
	}
}

// SensorType identifies a sensor declared by a supplemental header block.
// The tag byte is stored at offsets 4 and 5 of the block, both equal.
type SensorType byte

const (
	SensorVolt        SensorType = 0x01
	SensorTemp        SensorType = 0x02
	SensorAmps        SensorType = 0x03
	SensorPowerBox    SensorType = 0x0A
	SensorAirspeed    SensorType = 0x11
	SensorAltitude    SensorType = 0x12
	SensorGForce      SensorType = 0x14
	SensorJetCat      SensorType = 0x15
	SensorGPS         SensorType = 0x16
	SensorEndOfHeader SensorType = 0x17
	SensorGyro        SensorType = 0x1A
	SensorESC         SensorType = 0x20
	SensorVarioS      SensorType = 0x40
	SensorSmartBat    SensorType = 0x42
	SensorRPM         SensorType = 0x7E
	SensorRXTelemetry SensorType = 0x7F

	// SensorUnknown marks an unmatched tag pair. 0xFF never appears as a
	// sensor tag in recordings.
	SensorUnknown SensorType = 0xFF
)

func (s SensorType) String() string {
	switch s {
	case SensorVolt:
		return "Volt sensor"
	case SensorTemp:
		return "Temp sensor"
	case SensorAmps:
		return "Amps Sensor"
	case SensorPowerBox:
		return "Power Box"
	case SensorAirspeed:
		return "Airspeed Sensor"
	case SensorAltitude:
		return "Altitude Sensor"
	case SensorGForce:
		return "G-Force Sensor"
	case SensorJetCat:
		return "JetCat Sensor"
	case SensorGPS:
		return "GPS Sensor"
	case SensorEndOfHeader:
		return "end of header"
	case SensorGyro:
		return "Gyro Sensor"
	case SensorESC:
		return "ESC Sensor"
	case SensorVarioS:
		return "Vario-S Sensor"
	case SensorSmartBat:
		return "Smart Battery"
	case SensorRPM:
		return "RPM Sensor"
	case SensorRXTelemetry:
		return "RX Telemetry"
	default:
		return "Unknown"
	}
}

// DataType identifies the payload schema of a 20-byte data block. It shares
// the sensor tag space and adds NoData and UnknownSource.
type DataType byte

const (
	TypeNoData       DataType = 0x00
	TypeHighVoltage  DataType = 0x01
	TypeTempInternal DataType = 0x02
	TypePowerBox     DataType = 0x0A
	TypeAirSpeed     DataType = 0x11
	TypeAltitude     DataType = 0x12
	TypeGForce       DataType = 0x14
	TypeJetCat       DataType = 0x15
	TypeGPSLocation  DataType = 0x16
	TypeGPSStatus    DataType = 0x17
	TypeGyro         DataType = 0x1A
	TypeESC          DataType = 0x20
	TypeVarioS       DataType = 0x40
	TypeSmartBat     DataType = 0x42
	TypeRXTelemetry  DataType = 0x7E
	TypeQoS          DataType = 0x7F

	// TypeUnknown marks a data block whose tag byte is not in the table
	// above. Such blocks are kept so segmentation can continue, but carry
	// no fields. 0xFF is outside the known tag set.
	TypeUnknown DataType = 0xFF
)

func (d DataType) String() string {
	switch d {
	case TypeNoData:
		return "No Data"
	case TypeHighVoltage:
		return "High-Voltage (Internal)"
	case TypeTempInternal:
		return "Temperature (Internal)"
	case TypePowerBox:
		return "PowerBox"
	case TypeAirSpeed:
		return "Air Speed"
	case TypeAltitude:
		return "Altitude"
	case TypeGForce:
		return "GForce"
	case TypeJetCat:
		return "JetCat interface"
	case TypeGPSLocation:
		return "GPS Location"
	case TypeGPSStatus:
		return "GPS Status"
	case TypeGyro:
		return "Gyro"
	case TypeESC:
		return "ESC"
	case TypeVarioS:
		return "Vario-S"
	case TypeSmartBat:
		return "Smart Battery"
	case TypeRXTelemetry:
		return "Standard Receiver Telemetry"
	case TypeQoS:
		return "QoS"
	default:
		return "Unknown Source"
	}
}

// MainHeader is the record decoded from the block that opens a session.
type MainHeader struct {
	SessionID int
	ModelType ModelType
	BindInfo  BindInfo
	ModelName string
}

// SupplementalHeader declares an active sensor for a session. It carries no
// timestamp.
type SupplementalHeader struct {
	SessionID int
	Sensor    SensorType
}

// DataRecord is one sensor reading: a timestamp plus a decoded payload.
// TimestampMS includes a fixed recording offset which downstream consumers
// subtract; the decoder does not.
type DataRecord struct {
	SessionID   int
	TimestampMS int64
	Type        DataType
	Payload     Payload
}

// Field is a single named measurement within a payload. Value is one of:
// int64, string, bool, *float64 or *int64. A nil pointer means the sensor
// reported the field's sentinel, i.e. no data.
type Field struct {
	Name  string
	Value any
}

// Payload is the closed set of per-tag data block contents. Fields returns
// the measurements in their wire order; marker payloads return nil.
type Payload interface {
	Type() DataType
	Fields() []Field
}
