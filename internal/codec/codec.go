// Package codec implements the primitive field decoders shared by the TLM
// block parsers: sentinel-aware scaled integers, BCD digit strings and
// MSB-first bit flags.
//
// The recording format marks absent readings with width-specific all-ones
// sentinels (0xFF, 0xFFFF, 0xFFFFFFFF for unsigned; 0x7F, 0x7FFF for
// signed). Decoders return nil instead of the sentinel, and scale factors
// apply to present values only, so missing data propagates as typed nils
// rather than magic numbers.
package codec

import (
	"encoding/binary"
	"fmt"
)

// Uint8 decodes a single unsigned byte, nil on the 0xFF sentinel.
func Uint8(b byte, scale float64) *float64 {
	if b == 0xFF {
		return nil
	}
	v := float64(b) * scale
	return &v
}

// Int8 decodes a single signed byte, nil on the 0x7F sentinel.
func Int8(b byte, scale float64) *float64 {
	if int8(b) == 0x7F {
		return nil
	}
	v := float64(int8(b)) * scale
	return &v
}

// Uint16 decodes two bytes in the given order, nil on the 0xFFFF sentinel.
func Uint16(b []byte, order binary.ByteOrder, scale float64) *float64 {
	return Uint16Sentinel(b, order, 0xFFFF, scale)
}

// Uint16Sentinel is Uint16 with a caller-supplied sentinel. The ESC BEC
// temperature field compares its unsigned reading against 0x7FFF, at odds
// with the field's width; callers preserve that literally through this
// variant.
func Uint16Sentinel(b []byte, order binary.ByteOrder, sentinel uint16, scale float64) *float64 {
	raw := order.Uint16(b)
	if raw == sentinel {
		return nil
	}
	v := float64(raw) * scale
	return &v
}

// Int16 decodes two bytes as a signed value, nil on the 0x7FFF sentinel.
func Int16(b []byte, order binary.ByteOrder, scale float64) *float64 {
	raw := int16(order.Uint16(b))
	if raw == 0x7FFF {
		return nil
	}
	v := float64(raw) * scale
	return &v
}

// Uint32 decodes four bytes, nil on the 0xFFFFFFFF sentinel.
func Uint32(b []byte, order binary.ByteOrder, scale float64) *float64 {
	raw := order.Uint32(b)
	if raw == 0xFFFFFFFF {
		return nil
	}
	v := float64(raw) * scale
	return &v
}

// Count16 decodes an unsigned 16-bit counter as a nullable integer, nil on
// the 0xFFFF sentinel. Used for fields that stay integral through
// aggregation, such as the QoS counters.
func Count16(b []byte, order binary.ByteOrder) *int64 {
	raw := order.Uint16(b)
	if raw == 0xFFFF {
		return nil
	}
	v := int64(raw)
	return &v
}

// BCDByte renders the two nibbles of b as digit characters, high nibble
// first. Nibble values above 9 are not validated and come out as hex
// digits; downstream numeric parsing treats such strings as missing.
func BCDByte(b byte) string {
	return fmt.Sprintf("%x%x", b>>4, b&0x0F)
}

// BCD concatenates BCDByte over the span, two digits per input byte.
func BCD(b []byte) string {
	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, BCDByte(c)...)
	}
	return string(out)
}

// SplitBCD decodes the span as BCD digits and splits the digit string after
// wholeDigits. When lsbFirst is set the bytes are consumed in reverse
// order, least significant byte last.
func SplitBCD(b []byte, wholeDigits int, lsbFirst bool) (whole, frac string) {
	if lsbFirst {
		rev := make([]byte, len(b))
		for i, c := range b {
			rev[len(b)-1-i] = c
		}
		b = rev
	}
	s := BCD(b)
	if wholeDigits > len(s) {
		wholeDigits = len(s)
	}
	return s[:wholeDigits], s[wholeDigits:]
}

// Bits unpacks the byte into its 8 bits, most significant first.
func Bits(b byte) [8]bool {
	var out [8]bool
	for i := 0; i < 8; i++ {
		out[i] = b&(1<<(7-i)) != 0
	}
	return out
}
