package dbfile

import (
	"fmt"
	"math"

	"github.com/arloliu/fameport/compress"
	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/internal/collision"
	"github.com/arloliu/fameport/internal/hash"
	"github.com/arloliu/fameport/internal/options"
	"github.com/arloliu/fameport/internal/pool"
)

// EncoderConfig holds the settings of Encode.
type EncoderConfig struct {
	compression format.CompressionType
	bigEndian   bool
}

// EncoderOption configures Encode.
type EncoderOption = options.Option[*EncoderConfig]

// WithCompression selects the payload codec. The default is zstd.
func WithCompression(ct format.CompressionType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if _, ok := validCompressions[ct]; !ok {
			return fmt.Errorf("%w: %d", errs.ErrInvalidCompression, ct)
		}
		c.compression = ct

		return nil
	})
}

// WithBigEndian writes multi-byte fields in big-endian byte order.
func WithBigEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) { c.bigEndian = true })
}

// Stats describes an encoded file.
type Stats struct {
	Header  Header
	Objects int
	// FileSize is the total encoded size.
	FileSize int
}

// Compression returns the payload compression figures of the file.
func (s Stats) Compression() compress.CompressionStats {
	return compress.CompressionStats{
		Algorithm:      s.Header.Compression,
		OriginalSize:   int64(s.Header.RawSize),
		CompressedSize: int64(s.Header.PayloadSize),
	}
}

// Inspect reads the header of an encoded file without decoding its payload.
func Inspect(data []byte) (Stats, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return Stats{}, err
	}

	return Stats{Header: header, Objects: int(header.ObjectCount), FileSize: len(data)}, nil
}

// Encode serializes objects, in order, into a store file.
//
// Parameters:
//   - objects: Objects to store; names must be unique and non-empty
//   - opts: WithCompression, WithBigEndian
//
// Returns:
//   - []byte: Encoded file
//   - error: errs.ErrDuplicateName, errs.ErrInvalidName or a codec error
func Encode(objects []*Object, opts ...EncoderOption) ([]byte, error) {
	cfg := &EncoderConfig{compression: format.CompressionZstd}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if len(objects) > math.MaxUint32/IndexEntrySize {
		return nil, fmt.Errorf("%w: %d objects", errs.ErrInvalidOffset, len(objects))
	}

	header := NewHeader(cfg.compression)
	header.setBigEndian(cfg.bigEndian)
	engine := header.Engine()

	payload := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(payload)

	tracker := collision.NewTracker()
	index := make([]IndexEntry, 0, len(objects))
	w := &recordWriter{buf: payload, engine: engine}

	for _, o := range objects {
		id := hash.ID(o.Info.Name)
		if err := tracker.Track(o.Info.Name, id); err != nil {
			return nil, err
		}

		start := payload.Len()
		w.object(o)
		if payload.Len() > math.MaxUint32 {
			return nil, fmt.Errorf("%w: payload exceeds 4GiB", errs.ErrInvalidOffset)
		}
		index = append(index, IndexEntry{
			NameHash: id,
			Offset:   uint32(start),                 //nolint:gosec
			Length:   uint32(payload.Len() - start), //nolint:gosec
		})
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	packed, err := codec.Compress(payload.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}

	header.setCollision(tracker.HasCollision())
	header.ObjectCount = uint32(len(index))                               //nolint:gosec
	header.PayloadOffset = HeaderSize + uint32(len(index))*IndexEntrySize //nolint:gosec
	header.PayloadSize = uint32(len(packed))                              //nolint:gosec
	header.RawSize = uint32(payload.Len())                                //nolint:gosec
	header.Checksum = hash.Sum(payload.Bytes())

	file := pool.GetFileBuffer()
	defer pool.PutFileBuffer(file)

	file.Append(header.Bytes())
	for _, e := range index {
		file.B = e.appendTo(file.B, engine)
	}
	file.Append(packed)

	out := make([]byte, file.Len())
	copy(out, file.Bytes())

	return out, nil
}

// Decode parses a store file produced by Encode.
//
// Returns:
//   - []*Object: Objects in stored order
//   - Header: The file header
//   - error: A file format error from package errs
func Decode(data []byte) ([]*Object, Header, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, Header{}, err
	}

	indexEnd := uint64(header.IndexOffset) + uint64(header.ObjectCount)*IndexEntrySize
	if header.IndexOffset != HeaderSize || indexEnd != uint64(header.PayloadOffset) {
		return nil, header, fmt.Errorf("%w: index %d..%d, payload at %d",
			errs.ErrInvalidOffset, header.IndexOffset, indexEnd, header.PayloadOffset)
	}
	if uint64(header.PayloadOffset)+uint64(header.PayloadSize) != uint64(len(data)) {
		return nil, header, fmt.Errorf("%w: payload %d+%d in %d bytes",
			errs.ErrInvalidOffset, header.PayloadOffset, header.PayloadSize, len(data))
	}

	codec, err := compress.GetCodec(header.Compression)
	if err != nil {
		return nil, header, err
	}
	raw, err := codec.Decompress(data[header.PayloadOffset:], int(header.RawSize))
	if err != nil {
		return nil, header, fmt.Errorf("%w: %w", errs.ErrCorruptPayload, err)
	}
	if sum := hash.Sum(raw); sum != header.Checksum {
		return nil, header, fmt.Errorf("%w: %#x != %#x", errs.ErrChecksumMismatch, sum, header.Checksum)
	}

	engine := header.Engine()
	tracker := collision.NewTracker()
	objects := make([]*Object, 0, header.ObjectCount)

	for i := range header.ObjectCount {
		at := header.IndexOffset + i*IndexEntrySize
		entry := parseIndexEntry(data[at:at+IndexEntrySize], engine)

		end := uint64(entry.Offset) + uint64(entry.Length)
		if end > uint64(len(raw)) {
			return nil, header, fmt.Errorf("%w: entry %d ends at %d", errs.ErrInvalidOffset, i, end)
		}

		r := &recordReader{b: raw[entry.Offset:end], engine: engine}
		o, err := r.object()
		if err != nil {
			return nil, header, fmt.Errorf("entry %d: %w", i, err)
		}
		if hash.ID(o.Info.Name) != entry.NameHash {
			return nil, header, fmt.Errorf("%w: entry %d hash does not match name %q",
				errs.ErrCorruptPayload, i, o.Info.Name)
		}
		if err := tracker.Track(o.Info.Name, entry.NameHash); err != nil {
			return nil, header, err
		}
		objects = append(objects, o)
	}

	return objects, header, nil
}
