package dbfile

import (
	"math"
	"math/bits"
)

// Value columns use Gorilla XOR compression. The first value is stored as
// 64 raw bits. Each following value is XORed with its predecessor and
// stored as:
//
//	0                          the value repeats
//	10 <bits>                  the XOR fits the previous leading/trailing zero window
//	11 <6: leading> <6: len-1> <len bits>   a new window
//
// Series in a store tend to move slowly, so most XORs share a window and
// unchanged or missing runs cost one bit per observation.

// bitWriter appends bits, most significant first, to a byte slice.
type bitWriter struct {
	buf  []byte
	used int // bits used in the last byte, 0 when it is full
}

func (w *bitWriter) write(v uint64, nbits int) {
	for i := nbits - 1; i >= 0; i-- {
		if w.used == 0 {
			w.buf = append(w.buf, 0)
		}
		if v>>uint(i)&1 == 1 {
			w.buf[len(w.buf)-1] |= 0x80 >> uint(w.used)
		}
		w.used = (w.used + 1) & 7
	}
}

type bitReader struct {
	b   []byte
	pos int
}

func (r *bitReader) read(nbits int) (uint64, bool) {
	if r.pos+nbits > len(r.b)*8 {
		return 0, false
	}

	var v uint64
	for range nbits {
		bit := r.b[r.pos>>3] >> uint(7-r.pos&7) & 1
		v = v<<1 | uint64(bit)
		r.pos++
	}

	return v, true
}

// appendGorilla appends the compressed column of values to dst.
func appendGorilla(dst []byte, values []float64) []byte {
	if len(values) == 0 {
		return dst
	}

	w := bitWriter{buf: dst}
	prev := math.Float64bits(values[0])
	w.write(prev, 64)

	leading, trailing := -1, 0
	for _, v := range values[1:] {
		cur := math.Float64bits(v)
		xor := cur ^ prev
		prev = cur

		if xor == 0 {
			w.write(0, 1)
			continue
		}

		lz, tz := bits.LeadingZeros64(xor), bits.TrailingZeros64(xor)
		if leading >= 0 && lz >= leading && tz >= trailing {
			w.write(0b10, 2)
			w.write(xor>>uint(trailing), 64-leading-trailing)

			continue
		}

		leading, trailing = lz, tz
		size := 64 - lz - tz
		w.write(0b11, 2)
		w.write(uint64(lz), 6)
		w.write(uint64(size-1), 6)
		w.write(xor>>uint(tz), size)
	}

	return w.buf
}

// decodeGorilla decodes n values from a column written by appendGorilla.
// It reports false when data is not exactly one column of n values.
func decodeGorilla(data []byte, n int) ([]float64, bool) {
	out := make([]float64, 0, n)
	if n == 0 {
		return out, len(data) == 0
	}

	r := bitReader{b: data}
	prev, ok := r.read(64)
	if !ok {
		return nil, false
	}
	out = append(out, math.Float64frombits(prev))

	leading, trailing := 0, 0
	for len(out) < n {
		changed, ok := r.read(1)
		if !ok {
			return nil, false
		}

		if changed == 1 {
			window, ok := r.read(1)
			if !ok {
				return nil, false
			}
			if window == 1 {
				lz, ok1 := r.read(6)
				size, ok2 := r.read(6)
				if !ok1 || !ok2 {
					return nil, false
				}
				leading = int(lz)
				trailing = 64 - leading - int(size) - 1
				if trailing < 0 {
					return nil, false
				}
			}

			xor, ok := r.read(64 - leading - trailing)
			if !ok {
				return nil, false
			}
			prev ^= xor << uint(trailing)
		}

		out = append(out, math.Float64frombits(prev))
	}

	return out, (r.pos+7)/8 == len(data)
}
