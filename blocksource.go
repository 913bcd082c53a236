package pds

// A BlockSource supplies the physical directory blocks of a partitioned
// dataset, one block per call, in physical order. Implementations wrap
// whatever actually holds the dataset: a host file, a record-level access
// method, an in-memory image.
type BlockSource interface {
	// ReadBlock returns the next directory block. It returns io.EOF once
	// the source is exhausted. No seeking or re-reading is supported.
	ReadBlock() ([]byte, error)

	// Close releases the underlying handle. Implementations must make
	// Close safe to call more than once.
	Close() error
}
