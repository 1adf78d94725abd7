package dbfile

import (
	"fmt"

	"github.com/arloliu/fameport/endian"
	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
)

const (
	// HeaderSize is the size of the fixed file header.
	HeaderSize = 32
	// IndexEntrySize is the size of one index entry.
	IndexEntrySize = 16
	// Version is the current file format version.
	Version = 1

	EndiannessMask  = 0x0002 // Mask for endianness bit (bit 1)
	CollisionMask   = 0x0004 // Mask for name hash collision bit (bit 2)
	MagicNumberMask = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicStoreV1 identifies a store file.
	MagicStoreV1 = 0xFA10
)

// Header is the fixed-size section at the start of a store file.
type Header struct {
	// Options packs the magic number and flags. It is always little-endian.
	Options uint16 // byte offset 0-1
	// Compression is the codec applied to the payload section.
	Compression format.CompressionType // byte offset 2
	// Version is the format version.
	Version uint8 // byte offset 3
	// ObjectCount is the number of index entries.
	ObjectCount uint32 // byte offset 4-7
	// IndexOffset is the byte offset of the index section.
	IndexOffset uint32 // byte offset 8-11
	// PayloadOffset is the byte offset of the payload section.
	PayloadOffset uint32 // byte offset 12-15
	// PayloadSize is the stored, possibly compressed, payload size.
	PayloadSize uint32 // byte offset 16-19
	// RawSize is the payload size before compression.
	RawSize uint32 // byte offset 20-23
	// Checksum is the xxHash64 of the uncompressed payload.
	Checksum uint64 // byte offset 24-31
}

// NewHeader creates a header for a little-endian file.
func NewHeader(compression format.CompressionType) Header {
	return Header{
		Options:     MagicStoreV1,
		Compression: compression,
		Version:     Version,
		IndexOffset: HeaderSize,
	}
}

// IsBigEndian reports whether multi-byte fields use big-endian byte order.
func (h Header) IsBigEndian() bool {
	return h.Options&EndiannessMask != 0
}

// HasCollision reports whether two object names of the file share a hash.
func (h Header) HasCollision() bool {
	return h.Options&CollisionMask != 0
}

// Engine returns the byte order engine of the file.
func (h Header) Engine() endian.EndianEngine {
	if h.IsBigEndian() {
		return endian.Big()
	}

	return endian.Little()
}

func (h *Header) setBigEndian(on bool) {
	if on {
		h.Options |= EndiannessMask
	} else {
		h.Options &^= EndiannessMask
	}
}

func (h *Header) setCollision(on bool) {
	if on {
		h.Options |= CollisionMask
	} else {
		h.Options &^= CollisionMask
	}
}

// Bytes serializes the header.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.Engine()

	b[0] = byte(h.Options)
	b[1] = byte(h.Options >> 8)
	b[2] = byte(h.Compression)
	b[3] = h.Version
	engine.PutUint32(b[4:8], h.ObjectCount)
	engine.PutUint32(b[8:12], h.IndexOffset)
	engine.PutUint32(b[12:16], h.PayloadOffset)
	engine.PutUint32(b[16:20], h.PayloadSize)
	engine.PutUint32(b[20:24], h.RawSize)
	engine.PutUint64(b[24:32], h.Checksum)

	return b
}

// ParseHeader parses and validates the header at the start of data.
//
// Returns:
//   - Header: Parsed header
//   - error: errs.ErrInvalidHeaderSize, errs.ErrInvalidMagic or
//     errs.ErrInvalidCompression
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	h := Header{
		Options:     uint16(data[0]) | uint16(data[1])<<8,
		Compression: format.CompressionType(data[2]),
		Version:     data[3],
	}
	if h.Options&MagicNumberMask != MagicStoreV1 {
		return Header{}, fmt.Errorf("%w: %#04x", errs.ErrInvalidMagic, h.Options&MagicNumberMask)
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidMagic, h.Version)
	}
	if _, ok := validCompressions[h.Compression]; !ok {
		return Header{}, fmt.Errorf("%w: %d", errs.ErrInvalidCompression, h.Compression)
	}

	engine := h.Engine()
	h.ObjectCount = engine.Uint32(data[4:8])
	h.IndexOffset = engine.Uint32(data[8:12])
	h.PayloadOffset = engine.Uint32(data[12:16])
	h.PayloadSize = engine.Uint32(data[16:20])
	h.RawSize = engine.Uint32(data[20:24])
	h.Checksum = engine.Uint64(data[24:32])

	return h, nil
}

var validCompressions = map[format.CompressionType]struct{}{
	format.CompressionNone: {},
	format.CompressionZstd: {},
	format.CompressionS2:   {},
	format.CompressionLZ4:  {},
}

// IndexEntry locates one object record inside the uncompressed payload.
type IndexEntry struct {
	NameHash uint64 // byte offset 0-7
	Offset   uint32 // byte offset 8-11
	Length   uint32 // byte offset 12-15
}

func (e IndexEntry) appendTo(b []byte, engine endian.EndianEngine) []byte {
	b = engine.AppendUint64(b, e.NameHash)
	b = engine.AppendUint32(b, e.Offset)

	return engine.AppendUint32(b, e.Length)
}

func parseIndexEntry(b []byte, engine endian.EndianEngine) IndexEntry {
	return IndexEntry{
		NameHash: engine.Uint64(b[0:8]),
		Offset:   engine.Uint32(b[8:12]),
		Length:   engine.Uint32(b[12:16]),
	}
}
