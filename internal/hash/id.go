package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of an object name.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Sum computes the xxHash64 of a payload.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
