// Package decode turns a raw Spektrum TLM recording into structured header
// and data records. The input is one complete in-memory buffer; decoding is
// a pure function of it. No condition in this package is fatal: truncated
// trailing bytes are dropped, unknown tags become typed Unknown records and
// malformed fields become missing values.
package decode

import (
	"github.com/shkiefer/tlm-parsing/internal/telemetry"
)

// Document holds everything decoded from one recording. Source is an opaque
// caller-supplied identifier (typically the originating filename) stamped
// onto the output for traceability.
type Document struct {
	Source              string
	MainHeaders         []telemetry.MainHeader
	SupplementalHeaders []telemetry.SupplementalHeader
	Records             []telemetry.DataRecord
}

// Decode segments the buffer and decodes every block. Sessions are counted
// in stream order: each main header increments the session id, and all
// following blocks belong to that session. Data blocks seen before the
// first main header keep session id 0.
func Decode(buf []byte, source string) *Document {
	doc := Document{Source: source}

	sessionID := 0
	for _, blk := range Split(buf) {
		switch blk.Kind {
		case KindHeader:
			if isMainHeader(blk.Data) {
				sessionID++
				doc.MainHeaders = append(doc.MainHeaders, decodeMainHeader(blk.Data, sessionID))
			} else {
				doc.SupplementalHeaders = append(doc.SupplementalHeaders, decodeSupplementalHeader(blk.Data, sessionID))
			}

		case KindData:
			doc.Records = append(doc.Records, decodeDataBlock(blk.Data, sessionID))
		}
	}
	return &doc
}
