package dir

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/rstms/pds"
)

// endOfDirectory is the name field value marking the end of the member
// list. It terminates the whole directory, not just the current block.
var endOfDirectory = bytes.Repeat([]byte{0xFF}, pds.NameSize)

// Entry is a single decoded directory entry.
type Entry struct {
	Name      string // member name, trailing spaces stripped
	TTR       uint32 // 24-bit track/record pointer, not interpreted
	Alias     bool   // entry is an alias of another member
	Indicator byte   // raw indicator byte
	UserData  []byte // raw user data, not interpreted
}

// Block is one physical directory block plus the decode cursor. A Block
// is created per ReadBlock call and discarded once its entries are
// exhausted.
type Block struct {
	data   []byte
	size   int
	offset int
}

// DecodeBlock validates the block header and positions the cursor on the
// first entry. The first two bytes hold the count of meaningful bytes in
// the block, themselves included.
func DecodeBlock(data []byte) (*Block, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("block of %d bytes: %w", len(data), pds.ErrBlockSize)
	}
	size := int(binary.BigEndian.Uint16(data[0:2]))
	if size < 2 || size > len(data) {
		return nil, fmt.Errorf("block size %d: %w", size, pds.ErrBlockSize)
	}
	return &Block{data: data, size: size, offset: 2}, nil
}

func (b *Block) exhausted() bool {
	return b.offset >= b.size
}

// next decodes the entry at the cursor and advances past it. The second
// return value reports the end-of-list marker; no entry is produced for
// it and the cursor is left in place.
func (b *Block) next() (*Entry, bool, error) {
	if b.offset+pds.NameSize > b.size {
		return nil, false, fmt.Errorf("entry at offset %d: %w", b.offset, pds.ErrTruncatedEntry)
	}
	// The marker is tested on the raw name field; a block may end with
	// the bare 8 marker bytes and no TTR or indicator after them.
	name := b.data[b.offset : b.offset+pds.NameSize]
	if bytes.Equal(name, endOfDirectory) {
		return nil, true, nil
	}
	if b.offset+pds.EntrySize > b.size {
		return nil, false, fmt.Errorf("entry at offset %d: %w", b.offset, pds.ErrTruncatedEntry)
	}

	ttr := uint32(b.data[b.offset+8])<<16 |
		uint32(b.data[b.offset+9])<<8 |
		uint32(b.data[b.offset+10])
	indicator := b.data[b.offset+11]

	// The low 5 bits count user data halfwords.
	userDataLen := int(indicator&0x1F) * 2
	end := b.offset + pds.EntrySize + userDataLen
	if end > b.size {
		return nil, false, fmt.Errorf("user data at offset %d: %w", b.offset, pds.ErrTruncatedEntry)
	}
	var userData []byte
	if userDataLen > 0 {
		userData = make([]byte, userDataLen)
		copy(userData, b.data[b.offset+pds.EntrySize:end])
	}
	b.offset = end

	entry := &Entry{
		Name:      strings.TrimRight(string(name), " "),
		TTR:       ttr,
		Alias:     indicator&0x80 != 0,
		Indicator: indicator,
		UserData:  userData,
	}
	return entry, false, nil
}

// Reader decodes the member list of a PDS directory lazily, one block at
// a time, yielding one member per call. Members come out in physical
// directory order; aliases make duplicate names legitimate, so nothing is
// deduplicated. A Reader is finite and non-restartable; reading the
// directory again requires a new Reader over a fresh source.
type Reader struct {
	src    pds.BlockSource
	block  *Block
	done   bool
	closed bool
	err    error
}

// NewReader returns a Reader owning src. The source is closed when the
// directory ends, when decoding fails, or when Close is called, whichever
// comes first.
func NewReader(src pds.BlockSource) *Reader {
	return &Reader{src: src}
}

// Next returns the next member name. It returns io.EOF after the last
// member.
func (r *Reader) Next() (string, error) {
	entry, err := r.NextEntry()
	if err != nil {
		return "", err
	}
	return entry.Name, nil
}

// NextEntry returns the next decoded directory entry. It returns io.EOF
// after the last entry: either the end-of-list marker was reached or the
// source ran out of blocks. A directory normally ends with the marker,
// but exhaustion without one is tolerated as a normal end.
func (r *Reader) NextEntry() (*Entry, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.done {
		return nil, io.EOF
	}
	for {
		if r.block == nil || r.block.exhausted() {
			data, err := r.src.ReadBlock()
			if err == io.EOF {
				return nil, r.finish()
			}
			if err != nil {
				return nil, r.fail(Fatal(err))
			}
			block, err := DecodeBlock(data)
			if err != nil {
				return nil, r.fail(err)
			}
			// A block may hold no entries (size == 2); the next
			// loop pass fetches its successor.
			r.block = block
			continue
		}
		entry, last, err := r.block.next()
		if err != nil {
			return nil, r.fail(err)
		}
		if last {
			return nil, r.finish()
		}
		return entry, nil
	}
}

func (r *Reader) finish() error {
	r.block = nil
	if err := r.Close(); err != nil {
		return err
	}
	return io.EOF
}

func (r *Reader) fail(err error) error {
	r.err = err
	r.block = nil
	_ = r.Close()
	return err
}

// Close releases the underlying block source. It is safe to call Close
// more than once and after the directory has ended.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.done = true
	return r.src.Close()
}

// ReadAll decodes every entry in the directory. The source is closed
// before ReadAll returns.
func ReadAll(src pds.BlockSource) ([]*Entry, error) {
	r := NewReader(src)
	defer r.Close()

	var entries []*Entry
	for {
		entry, err := r.NextEntry()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}
