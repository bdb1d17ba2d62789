package object

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxHeaderLen bounds the "kind size\0" prefix: the longest token plus a
// 19-digit size and the separator fit comfortably.
const maxHeaderLen = 32

// Encode frames payload as "kind len\0payload".
func Encode(kind Kind, payload []byte) []byte {
	out := make([]byte, 0, len(payload)+maxHeaderLen)
	out = appendHeader(out, kind, len(payload))
	return append(out, payload...)
}

// Decode parses framed bytes produced by Encode. The payload must be
// exactly the declared size. On error no object is returned.
func Decode(framed []byte) (*Object, error) {
	nul := bytes.IndexByte(framed, 0)
	if nul < 0 {
		return nil, fmt.Errorf("decode: %w: missing NUL separator", ErrFormat)
	}
	kind, size, err := parseHeader(framed[:nul])
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	payload := framed[nul+1:]
	if int64(len(payload)) != size {
		return nil, fmt.Errorf("decode: %w: header declares %d bytes, payload has %d", ErrSizeMismatch, size, len(payload))
	}
	return New(kind, payload), nil
}

// ReadFramed decodes one framed object from r. It reads exactly the
// declared number of payload bytes and then requires r to be exhausted:
// a short payload or any trailing byte is ErrSizeMismatch.
func ReadFramed(r io.Reader) (*Object, error) {
	br := bufio.NewReader(r)
	header, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	kind, size, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	// Grow with the data actually read rather than trusting the header
	// for the allocation size.
	var payload bytes.Buffer
	n, err := io.CopyN(&payload, br, size)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: header declares %d bytes, stream ended after %d", ErrSizeMismatch, size, n)
		}
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var extra [1]byte
	switch _, err := io.ReadFull(br, extra[:]); {
	case err == nil:
		return nil, fmt.Errorf("%w: trailing bytes after %d byte payload", ErrSizeMismatch, size)
	case errors.Is(err, io.EOF):
	default:
		return nil, fmt.Errorf("read trailer: %w", err)
	}

	return &Object{Kind: kind, Payload: payload.Bytes()}, nil
}

func readHeader(br *bufio.Reader) ([]byte, error) {
	header := make([]byte, 0, maxHeaderLen)
	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: missing NUL separator", ErrFormat)
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		if b == 0 {
			return header, nil
		}
		if len(header) == maxHeaderLen {
			return nil, fmt.Errorf("%w: header exceeds %d bytes", ErrFormat, maxHeaderLen)
		}
		header = append(header, b)
	}
}

// parseHeader validates "<token> <digits>". Shape problems are ErrFormat;
// a well-formed header naming an unknown kind is ErrUnsupportedKind.
func parseHeader(header []byte) (Kind, int64, error) {
	if !utf8.Valid(header) {
		return 0, 0, fmt.Errorf("%w: header is not valid text", ErrFormat)
	}
	token, digits, ok := strings.Cut(string(header), " ")
	if !ok || token == "" {
		return 0, 0, fmt.Errorf("%w: %q", ErrFormat, header)
	}
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, 0, fmt.Errorf("%w: invalid size %q", ErrFormat, digits)
	}
	size, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid size %q", ErrFormat, digits)
	}
	kind, err := ParseKind(token)
	if err != nil {
		return 0, 0, err
	}
	return kind, size, nil
}
