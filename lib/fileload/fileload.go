package fileload

import (
	"fmt"
	"io"
	"os"
)

// FileContents holds a whole file followed by a single zero byte, so Data
// can be handed to APIs that expect a terminated string.
type FileContents struct {
	Data []byte
	Size int
}

// ReadEntireFile reads path into memory. Size is the content length plus
// one for the terminator.
func ReadEntireFile(path string) (*FileContents, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("could not stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	result := &FileContents{Size: int(info.Size()) + 1}
	result.Data = make([]byte, result.Size)
	n, err := io.ReadFull(f, result.Data[:result.Size-1])
	if err != nil {
		return nil, fmt.Errorf("could not read %s (got %d of %d bytes): %w", path, n, result.Size-1, err)
	}
	result.Data[result.Size-1] = 0

	return result, nil
}

// Source returns the content without the terminator.
func (f *FileContents) Source() string {
	if f.Size == 0 {
		return ""
	}
	return string(f.Data[:f.Size-1])
}
