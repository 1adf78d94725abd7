package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor is the block form of klauspost's S2, a Snappy extension.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, data), nil
}

// Decompress checks the decoded length recorded in the block against rawSize
// before allocating, so a damaged header cannot request an oversized buffer.
func (S2Compressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return emptyPayload(rawSize)
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 block: %w", err)
	}
	if n != rawSize {
		return nil, fmt.Errorf("%w: s2 block holds %d bytes, expected %d", ErrSizeMismatch, n, rawSize)
	}

	return s2.Decode(make([]byte, rawSize), data)
}
