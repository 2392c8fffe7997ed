package storage

import (
	"fmt"
	"io"
	"os"
)

// Stored file bytes are exposed as a sequential stream the caller reads
// at its own pace, rather than pushed through callbacks and concatenated
// by hand.

const streamChunkSize = 64 * 1024

// FileStream is a chunk-buffered sequential reader over a stored file
type FileStream struct {
	file *os.File
	size int64
}

// OpenStream opens a stored file for sequential reading. The path must
// stay within the storage base directory.
func (s *LocalFileStorage) OpenStream(fullPath string) (*FileStream, error) {
	if err := s.ValidatePath(fullPath); err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &FileStream{
		file: file,
		size: info.Size(),
	}, nil
}

// Size returns the total byte size of the stream
func (fs *FileStream) Size() int64 { return fs.size }

// Read implements io.Reader
func (fs *FileStream) Read(p []byte) (int, error) {
	return fs.file.Read(p)
}

// Close releases the underlying file
func (fs *FileStream) Close() error {
	return fs.file.Close()
}

// WriteTo copies the remaining stream to w in fixed-size chunks, so a
// slow consumer naturally throttles the reads
func (fs *FileStream) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, streamChunkSize)
	return io.CopyBuffer(w, struct{ io.Reader }{fs.file}, buf)
}
