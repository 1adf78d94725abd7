// Package dbfile encodes the objects of a store database into a single file.
//
// A file has three sections:
//
//	+--------+---------------------+-----------------------------+
//	| header | index (16B / entry) | payload (compressed, whole) |
//	+--------+---------------------+-----------------------------+
//
// The 32 byte header carries the magic number, byte order, compression
// type, object count, section offsets, payload sizes and an xxHash64 of the
// uncompressed payload. Each index entry holds the xxHash64 of an object name
// and the offset and length of the object's record inside the uncompressed
// payload. Records use uvarint-prefixed strings, varint enums and range
// bounds, fixed-width timestamps in the header's byte order, one missing
// kind byte per observation and a Gorilla compressed value column.
//
// Decode verifies the magic number, every offset, the checksum, and that each
// index hash matches the name decoded from its record.
package dbfile
