package pds

import "errors"

const (
	// BlockSize is the fixed length of a physical directory block.
	BlockSize = 256

	// NameSize is the width of the member name field in a directory
	// entry. Names are right-padded with spaces on disk.
	NameSize = 8

	// EntrySize is the fixed portion of a directory entry: the name
	// field, the 3-byte TTR and the indicator byte. Variable-length user
	// data follows per the indicator.
	EntrySize = 12
)

// Sentinel errors surfaced while decoding a directory.
var (
	// ErrTruncatedEntry reports a block that ends in the middle of an
	// entry or of its user data.
	ErrTruncatedEntry = errors.New("truncated directory entry")

	// ErrBlockSize reports a block whose size field is below the 2-byte
	// header or beyond the block itself.
	ErrBlockSize = errors.New("directory block size out of range")
)
