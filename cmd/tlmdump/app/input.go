package app

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
)

// readPayload loads one recording into memory. Raw inputs are returned as
// read; encoded inputs are unwrapped from their "<content type>,<base64>"
// envelope first.
func readPayload(input InputConfig) ([]byte, error) {
	data, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if !input.Encoded {
		return data, nil
	}

	buf, err := decodePayload(data)
	if err != nil {
		return nil, fmt.Errorf("decoding input %s: %w", input.Path, err)
	}
	return buf, nil
}

func decodePayload(data []byte) ([]byte, error) {
	_, encoded, ok := bytes.Cut(data, []byte{','})
	if !ok {
		return nil, errors.New("payload has no content-type prefix")
	}

	encoded = bytes.TrimSpace(encoded)
	buf := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	n, err := base64.StdEncoding.Decode(buf, encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 content: %w", err)
	}
	return buf[:n], nil
}
