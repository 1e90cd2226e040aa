package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shkiefer/tlm-parsing/internal/assemble"
	"github.com/shkiefer/tlm-parsing/internal/telemetry"
)

func newTestStore(t *testing.T, options ...func(*Store)) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "test.sqlite"), options...)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateSession(ctx, telemetry.MainHeader{
		SessionID: 1,
		ModelType: telemetry.ModelFixedWing,
		BindInfo:  telemetry.BindDSMX22ms,
		ModelName: "Glider1",
	}, "flight.tlm")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if id == 0 {
		t.Fatal("CreateSession returned zero id")
	}

	db, err := store.getWriteDB()
	if err != nil {
		t.Fatalf("getWriteDB: %v", err)
	}

	var sessionNum int
	var source, modelType, bindInfo, modelName string
	row := db.QueryRow(`SELECT session_num, source, model_type, bind_info, model_name FROM sessions WHERE id = ?`, id)
	if err := row.Scan(&sessionNum, &source, &modelType, &bindInfo, &modelName); err != nil {
		t.Fatalf("scanning session: %v", err)
	}
	if sessionNum != 1 || source != "flight.tlm" || modelName != "Glider1" {
		t.Errorf("session = (%d, %q, %q), want (1, flight.tlm, Glider1)", sessionNum, source, modelName)
	}
	if modelType != telemetry.ModelFixedWing.String() {
		t.Errorf("model_type = %q, want %q", modelType, telemetry.ModelFixedWing.String())
	}
	if bindInfo != telemetry.BindDSMX22ms.String() {
		t.Errorf("bind_info = %q, want %q", bindInfo, telemetry.BindDSMX22ms.String())
	}
}

func TestStoreSensors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateSession(ctx, telemetry.MainHeader{SessionID: 1}, "flight.tlm")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sensors := []telemetry.SensorType{telemetry.SensorGPS, telemetry.SensorVolt}
	if err := store.StoreSensors(ctx, id, sensors); err != nil {
		t.Fatalf("StoreSensors: %v", err)
	}

	db, err := store.getWriteDB()
	if err != nil {
		t.Fatalf("getWriteDB: %v", err)
	}

	rows, err := db.Query(`SELECT sensor_type FROM sensors WHERE session_id = ? ORDER BY id`, id)
	if err != nil {
		t.Fatalf("querying sensors: %v", err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		var sensor string
		if err := rows.Scan(&sensor); err != nil {
			t.Fatalf("scanning sensor: %v", err)
		}
		got = append(got, sensor)
	}
	if len(got) != len(sensors) {
		t.Fatalf("stored %d sensors, want %d", len(got), len(sensors))
	}
	for i, sensor := range sensors {
		if got[i] != sensor.String() {
			t.Errorf("sensor[%d] = %q, want %q", i, got[i], sensor.String())
		}
	}
}

func TestStoreRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, WithMaxBatchSize(2))

	id, err := store.CreateSession(ctx, telemetry.MainHeader{SessionID: 1}, "flight.tlm")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	utc := time.Date(0, 1, 1, 12, 30, 5, 450e6, time.UTC)
	rows := []assemble.Row{
		{SessionID: 1, TimestampMS: 1000, ElapsedS: 0, Values: map[string]any{
			"alt_m":       float64(125.3),
			"rx_fades_a":  int64(3),
			"gps_is_east": true,
		}},
		{SessionID: 1, TimestampMS: 1500, ElapsedS: 0.5, Values: map[string]any{
			"alt_m": float64(126.1),
		}},
		{SessionID: 1, TimestampMS: 2000, ElapsedS: 1.0, Values: map[string]any{
			"gps_utc": utc,
		}},
	}
	if err := store.StoreRows(ctx, id, rows); err != nil {
		t.Fatalf("StoreRows: %v", err)
	}

	db, err := store.getWriteDB()
	if err != nil {
		t.Fatalf("getWriteDB: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM samples WHERE session_id = ?`, id).Scan(&count); err != nil {
		t.Fatalf("counting samples: %v", err)
	}
	if count != 5 {
		t.Errorf("sample count = %d, want 5", count)
	}

	var num sql.NullFloat64
	row := db.QueryRow(`SELECT value_num FROM samples WHERE session_id = ? AND field = 'gps_is_east'`, id)
	if err := row.Scan(&num); err != nil {
		t.Fatalf("scanning flag sample: %v", err)
	}
	if !num.Valid || num.Float64 != 1 {
		t.Errorf("gps_is_east = %+v, want 1", num)
	}

	var text sql.NullString
	row = db.QueryRow(`SELECT value_text FROM samples WHERE session_id = ? AND field = 'gps_utc'`, id)
	if err := row.Scan(&text); err != nil {
		t.Fatalf("scanning time sample: %v", err)
	}
	if !text.Valid || text.String != "12:30:05.45" {
		t.Errorf("gps_utc = %+v, want 12:30:05.45", text)
	}
}

func TestSampleValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantNum  sql.NullFloat64
		wantText sql.NullString
	}{
		{"float", float64(2.5), sql.NullFloat64{Valid: true, Float64: 2.5}, sql.NullString{}},
		{"int", int64(7), sql.NullFloat64{Valid: true, Float64: 7}, sql.NullString{}},
		{"true", true, sql.NullFloat64{Valid: true, Float64: 1}, sql.NullString{}},
		{"false", false, sql.NullFloat64{Valid: true}, sql.NullString{}},
		{"string", "00:01", sql.NullFloat64{}, sql.NullString{Valid: true, String: "00:01"}},
		{"nil", nil, sql.NullFloat64{}, sql.NullString{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			num, text := sampleValue(tt.value)
			if num != tt.wantNum {
				t.Errorf("num = %+v, want %+v", num, tt.wantNum)
			}
			if text != tt.wantText {
				t.Errorf("text = %+v, want %+v", text, tt.wantText)
			}
		})
	}
}
