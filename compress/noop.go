package compress

import "fmt"

// NoOpCompressor stores the payload as encoded.
//
// Store files written without compression are easier to inspect with a hex
// dump, which helps when debugging the record layout.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data itself. The result aliases the input.
func (NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself after checking it holds rawSize bytes.
func (NoOpCompressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	if len(data) != rawSize {
		return nil, fmt.Errorf("%w: stored %d bytes, expected %d", ErrSizeMismatch, len(data), rawSize)
	}

	return data, nil
}
