package dataset

import (
	"io"
	"os"
	"strings"

	"github.com/rstms/pds"
	"github.com/rstms/pds/dir"
)

// fileSource reads a dataset's directory blocks from a host file holding
// fixed 256-byte records.
type fileSource struct {
	file *os.File
}

// ensure fileSource implements pds.BlockSource
var _ pds.BlockSource = (*fileSource)(nil)

func (s *fileSource) ReadBlock() ([]byte, error) {
	block := make([]byte, pds.BlockSize)
	_, err := io.ReadFull(s.file, block)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		// io.ErrUnexpectedEOF here: file ends mid-record
		return nil, Fatal(err)
	}
	return block, nil
}

func (s *fileSource) Close() error {
	if s.file == nil {
		return nil
	}
	file := s.file
	s.file = nil
	err := file.Close()
	if err != nil {
		return Fatal(err)
	}
	return nil
}

// Dataset is a partitioned dataset whose directory blocks are stored in
// a host file. A Dataset holds no file handle itself; each directory
// pass opens its own.
type Dataset struct {
	Filename string
}

// Open checks that the named dataset file exists and is readable.
func Open(filename string) (*Dataset, error) {
	if !IsFile(filename) {
		return nil, Fatalf("dataset not found: %s", filename)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, Fatal(err)
	}
	file.Close()
	return &Dataset{Filename: filename}, nil
}

// Directory starts one lazy pass over the member list. The returned
// reader owns the file handle; close it if iteration stops early.
func (d *Dataset) Directory() (*dir.Reader, error) {
	src, err := d.open()
	if err != nil {
		return nil, Fatal(err)
	}
	return dir.NewReader(src), nil
}

// Members returns every member name in physical directory order.
// Aliases appear under their own names; duplicates are preserved.
func (d *Dataset) Members() ([]string, error) {
	entries, err := d.Entries()
	if err != nil {
		return nil, Fatal(err)
	}
	members := make([]string, 0, len(entries))
	for _, entry := range entries {
		members = append(members, entry.Name)
	}
	return members, nil
}

// Entries returns every decoded directory entry.
func (d *Dataset) Entries() ([]*dir.Entry, error) {
	src, err := d.open()
	if err != nil {
		return nil, Fatal(err)
	}
	entries, err := dir.ReadAll(src)
	if err != nil {
		return nil, Fatal(err)
	}
	return entries, nil
}

// HasMember reports whether the named member is present. The search
// stops at the first match and releases the directory immediately.
func (d *Dataset) HasMember(name string) (bool, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	reader, err := d.Directory()
	if err != nil {
		return false, Fatal(err)
	}
	defer reader.Close()
	for {
		member, err := reader.Next()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, Fatal(err)
		}
		if member == name {
			return true, nil
		}
	}
}

func (d *Dataset) open() (pds.BlockSource, error) {
	file, err := os.Open(d.Filename)
	if err != nil {
		return nil, Fatal(err)
	}
	return &fileSource{file: file}, nil
}

// ListMembers opens the named dataset and returns its member list.
func ListMembers(filename string) ([]string, error) {
	dataset, err := Open(filename)
	if err != nil {
		return nil, Fatal(err)
	}
	return dataset.Members()
}
