package object

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// DefaultCompression is the zlib level used when none is configured.
const DefaultCompression = zlib.DefaultCompression

// ValidCompressionLevel reports whether level is accepted by Compress.
func ValidCompressionLevel(level int) bool {
	return level == zlib.DefaultCompression || (level >= zlib.NoCompression && level <= zlib.BestCompression)
}

// Compress writes framed through a zlib stream at the given level.
func Compress(w io.Writer, framed []byte, level int) error {
	zw, err := zlib.NewWriterLevel(w, level)
	if err != nil {
		return fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := zw.Write(framed); err != nil {
		zw.Close()
		return fmt.Errorf("zlib write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zlib close: %w", err)
	}
	return nil
}

// Deflate returns the zlib-compressed form of framed.
func Deflate(framed []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Compress(&buf, framed, level); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadCompressed inflates r and decodes exactly one framed object from it.
// The zlib checksum is verified because the decoder is read to its end.
func ReadCompressed(r io.Reader) (*Object, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer zr.Close()
	return ReadFramed(zr)
}
