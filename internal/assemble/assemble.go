// Package assemble joins decoded sensor readings into one time-indexed
// table per recording session, concatenated in session order.
package assemble

import (
	"slices"
	"time"

	"github.com/shkiefer/tlm-parsing/internal/telemetry"
)

// utcLayout matches the GPS status time-of-fix string: HH:MM:SS plus a
// two-digit fraction.
const utcLayout = "15:04:05.00"

// Row is one assembled table row: a timestamp plus every sensor field
// observed at it. Values holds concrete values only (float64, int64, bool,
// string, time.Time); a field that is absent or was reported as the sensor's
// sentinel has no entry.
type Row struct {
	SessionID   int
	TimestampMS int64
	ElapsedS    float64
	Values      map[string]any
}

// Table is the assembled output. Columns is the union of all sensor fields
// encountered, in order of first observation; Rows covers all sessions in
// session order.
type Table struct {
	Columns []string
	Rows    []Row
}

// series is one sensor type's readings within a session, unique by
// timestamp with the first occurrence winning.
type series struct {
	at map[int64][]telemetry.Field
}

// Assemble builds the per-session wide tables from the full ordered record
// sequence and concatenates them. Per session: readings are grouped by data
// type (NoData and unknown-source records are excluded), deduplicated by
// timestamp, outer-joined on the union of timestamps and sorted. Elapsed
// time accumulates the deltas between successive rows, with the first row's
// delta defined as zero. A session with no recognized data types produces
// no rows.
func Assemble(records []telemetry.DataRecord) *Table {
	bySession := make(map[int][]telemetry.DataRecord)
	var sessionIDs []int
	for _, rec := range records {
		if _, ok := bySession[rec.SessionID]; !ok {
			sessionIDs = append(sessionIDs, rec.SessionID)
		}
		bySession[rec.SessionID] = append(bySession[rec.SessionID], rec)
	}
	slices.Sort(sessionIDs)

	table := Table{}
	colSeen := make(map[string]bool)
	for _, sid := range sessionIDs {
		assembleSession(&table, colSeen, sid, bySession[sid])
	}
	return &table
}

func assembleSession(table *Table, colSeen map[string]bool, sessionID int, records []telemetry.DataRecord) {
	var typeOrder []telemetry.DataType
	byType := make(map[telemetry.DataType]*series)

	for _, rec := range records {
		if rec.Type == telemetry.TypeNoData || rec.Type == telemetry.TypeUnknown {
			continue
		}

		s, ok := byType[rec.Type]
		if !ok {
			s = &series{at: make(map[int64][]telemetry.Field)}
			byType[rec.Type] = s
			typeOrder = append(typeOrder, rec.Type)
		}
		if _, dup := s.at[rec.TimestampMS]; dup {
			continue
		}

		fields := fixup(rec)
		s.at[rec.TimestampMS] = fields
		for _, f := range fields {
			if !colSeen[f.Name] {
				colSeen[f.Name] = true
				table.Columns = append(table.Columns, f.Name)
			}
		}
	}
	if len(typeOrder) == 0 {
		return
	}

	// Union of timestamps across the session's sensor types.
	tsSeen := make(map[int64]bool)
	var timestamps []int64
	for _, t := range typeOrder {
		for ts := range byType[t].at {
			if !tsSeen[ts] {
				tsSeen[ts] = true
				timestamps = append(timestamps, ts)
			}
		}
	}
	slices.Sort(timestamps)

	var elapsedMS int64
	for i, ts := range timestamps {
		if i > 0 {
			elapsedMS += ts - timestamps[i-1]
		}

		row := Row{
			SessionID:   sessionID,
			TimestampMS: ts,
			ElapsedS:    float64(elapsedMS) / 1000,
			Values:      make(map[string]any),
		}
		for _, t := range typeOrder {
			for _, f := range byType[t].at[ts] {
				if v, ok := concrete(f.Value); ok {
					row.Values[f.Name] = v
				}
			}
		}
		table.Rows = append(table.Rows, row)
	}
}

// fixup applies type-specific post-processing: the GPS status UTC string
// becomes a proper time value, with malformed strings coerced to missing
// rather than failing the record.
func fixup(rec telemetry.DataRecord) []telemetry.Field {
	fields := rec.Payload.Fields()
	if rec.Type != telemetry.TypeGPSStatus {
		return fields
	}

	out := slices.Clone(fields)
	for i, f := range out {
		if f.Name != "gpsStat_utc" {
			continue
		}
		s, ok := f.Value.(string)
		if !ok {
			continue
		}
		if ts, err := time.Parse(utcLayout, s); err == nil {
			out[i].Value = ts
		} else {
			out[i].Value = nil
		}
	}
	return out
}

// concrete dereferences nullable field values. The second return is false
// when the value is missing.
func concrete(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case *float64:
		if t == nil {
			return nil, false
		}
		return *t, true
	case *int64:
		if t == nil {
			return nil, false
		}
		return *t, true
	default:
		return v, true
	}
}
