// Package compress provides the codecs applied to the payload section of a
// persisted store file.
//
// Four algorithms are supported, selected by format.CompressionType:
//   - None: payload stored as encoded
//   - Zstd: best ratio, moderate speed
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression
//
// Every codec implements Codec:
//
//	codec, err := compress.GetCodec(format.CompressionS2)
//	if err != nil {
//	    return err
//	}
//	packed, _ := codec.Compress(payload)
//	payload, err = codec.Decompress(packed, len(payload))
//
// The Zstd codec uses github.com/klauspost/compress/zstd with pooled encoders
// and decoders. Building with the gozstd tag and cgo enabled switches it to
// github.com/valyala/gozstd.
//
// Decompress takes the decoded size recorded in the file header and fails
// with ErrSizeMismatch when the section decodes to any other length. All
// codecs are safe for concurrent use.
package compress
