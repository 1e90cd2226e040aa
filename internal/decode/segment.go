package decode

import "encoding/binary"

const (
	// HeaderBlockLen is the size of a header block in bytes.
	HeaderBlockLen = 36
	// DataBlockLen is the size of a data block in bytes.
	DataBlockLen = 20

	// headerSentinel occupies the first four bytes of a header block, where
	// a data block carries its timestamp.
	headerSentinel = 0xFFFFFFFF
)

// BlockKind classifies a raw block by its size rule.
type BlockKind uint8

const (
	KindHeader BlockKind = iota
	KindData
)

// Block is one fixed-size span of the recording. Data aliases the input
// buffer and is never mutated.
type Block struct {
	Kind BlockKind
	Data []byte
}

// Split walks the buffer from offset zero and cuts it into header and data
// blocks. A block whose first four bytes read 0xFFFFFFFF little-endian is a
// 36-byte header; anything else is a 20-byte data block. A trailing
// fragment shorter than its classified length is dropped, which is the
// defined truncation policy rather than an error.
func Split(buf []byte) []Block {
	var blocks []Block
	for i := 0; i+4 <= len(buf); {
		if binary.LittleEndian.Uint32(buf[i:i+4]) == headerSentinel {
			if i+HeaderBlockLen > len(buf) {
				break
			}
			blocks = append(blocks, Block{Kind: KindHeader, Data: buf[i : i+HeaderBlockLen]})
			i += HeaderBlockLen
		} else {
			if i+DataBlockLen > len(buf) {
				break
			}
			blocks = append(blocks, Block{Kind: KindData, Data: buf[i : i+DataBlockLen]})
			i += DataBlockLen
		}
	}
	return blocks
}
