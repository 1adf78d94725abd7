package compress

import (
	"errors"
	"fmt"

	"github.com/arloliu/fameport/format"
)

// Compressor compresses the payload section of a persisted store file.
//
// The payload is the concatenation of every encoded object record, so it is
// dominated by repeated names, descriptions and float64 runs.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
//
// The caller passes the decoded size it expects, taken from the file header.
// Codecs use it to size the output buffer and reject payloads that decode to
// any other length.
//
// Example:
//
//	codec, _ := GetCodec(header.Compression)
//	payload, err := codec.Decompress(section, int(header.RawSize))
//	if err != nil {
//	    return fmt.Errorf("decompress payload: %w", err)
//	}
type Decompressor interface {
	Decompress(data []byte, rawSize int) ([]byte, error)
}

// ErrSizeMismatch is returned when a payload decodes to a length other than
// the one requested.
var ErrSizeMismatch = errors.New("decoded payload size mismatch")

func emptyPayload(rawSize int) ([]byte, error) {
	if rawSize != 0 {
		return nil, fmt.Errorf("%w: empty section, expected %d bytes", ErrSizeMismatch, rawSize)
	}

	return nil, nil
}

func checkSize(out []byte, rawSize int, algo string) ([]byte, error) {
	if len(out) != rawSize {
		return nil, fmt.Errorf("%w: %s decoded %d bytes, expected %d", ErrSizeMismatch, algo, len(out), rawSize)
	}

	return out, nil
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes the effect of compressing one payload.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//
// Returns:
//   - Codec: Shared codec instance
//   - error: Unsupported compression type error
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
