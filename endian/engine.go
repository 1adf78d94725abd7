// Package endian selects the byte order of multi-byte fields in store files.
//
// An EndianEngine both reads and appends fixed-width integers, so one value
// drives the encoder and the decoder of a file:
//
//	engine := endian.Little()
//	buf = engine.AppendUint64(buf, math.Float64bits(v))
//
// The header of every store file records which engine wrote it.
package endian

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/arloliu/fameport/errs"
)

// EndianEngine is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Little returns the little-endian engine, the default for new files.
func Little() EndianEngine {
	return binary.LittleEndian
}

// Big returns the big-endian engine.
func Big() EndianEngine {
	return binary.BigEndian
}

// Native returns the engine matching the byte order of the running machine.
func Native() EndianEngine {
	if binary.NativeEndian.Uint16([]byte{0x01, 0x00}) == 0x0001 {
		return Little()
	}

	return Big()
}

// IsBig reports whether e writes the most significant byte first.
func IsBig(e EndianEngine) bool {
	return e == Big()
}

// Name returns "big" or "little".
func Name(e EndianEngine) string {
	if IsBig(e) {
		return "big"
	}

	return "little"
}

// Parse maps a configured byte order name to its engine. The names are
// "little", "big" and "native"; an empty name selects little-endian.
func Parse(name string) (EndianEngine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "little":
		return Little(), nil
	case "big":
		return Big(), nil
	case "native":
		return Native(), nil
	default:
		return nil, fmt.Errorf("%w: byte order %q", errs.ErrInvalidValue, name)
	}
}
