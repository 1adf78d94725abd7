package compress

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// The block compressor keeps a hash table between calls.
var lz4Compressors = sync.Pool{
	New: func() any { return new(lz4.Compressor) },
}

// LZ4Compressor writes the payload as a single raw LZ4 block.
//
// A raw block does not record its decoded size, so Decompress relies on the
// size stored in the file header.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress encodes data into one block.
//
// Returns:
//   - []byte: The block, or nil for empty input
//   - error: An lz4 error
func (LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	lc, _ := lz4Compressors.Get().(*lz4.Compressor)
	defer lz4Compressors.Put(lc)

	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 block: %w", err)
	}

	return dst[:n], nil
}

// Decompress decodes one block into exactly rawSize bytes.
//
// Parameters:
//   - data: The block written by Compress
//   - rawSize: Decoded payload size from the file header
//
// Returns:
//   - []byte: The payload
//   - error: An lz4 error, or a size mismatch when the block decodes to a
//     different length
func (LZ4Compressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return emptyPayload(rawSize)
	}

	// one spare byte makes an oversized block detectable instead of a short buffer error
	buf := make([]byte, rawSize+1)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("lz4 block: %w", err)
	}
	if n != rawSize {
		return nil, fmt.Errorf("%w: lz4 block holds %d bytes, expected %d", ErrSizeMismatch, n, rawSize)
	}

	return buf[:n], nil
}
