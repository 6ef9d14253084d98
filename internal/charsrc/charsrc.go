// Package charsrc implements the character source: it turns a file,
// an in-memory string, or an io.Reader into normalized UTF-8 text,
// detecting UTF-8/UTF-16LE/UTF-16BE by BOM or declared encoding and
// normalizing line endings per XML 1.0 §2.11 (CRLF -> LF, lone CR ->
// LF).
package charsrc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingError reports that the byte stream could not be decoded
// under the detected or declared encoding.
type EncodingError struct {
	SystemID string
	Encoding string
	Err      error
}

func (e *EncodingError) Error() string {
	if e.SystemID != "" {
		return fmt.Sprintf("%s: cannot decode as %s: %v", e.SystemID, e.Encoding, e.Err)
	}
	return fmt.Sprintf("cannot decode as %s: %v", e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Source is the character source contract: Read returns a (possibly
// empty, always finite) chunk of normalized UTF-8 text; DataAvailable
// reports whether a further Read could be non-empty. SystemID names
// the source for diagnostics. Close releases any underlying file
// handle and is always safe to call more than once.
type Source interface {
	Read() (string, error)
	DataAvailable() bool
	SystemID() string
	DeclaredEncoding() string
	Close() error
}

const chunkSize = 4096

// bufSource wraps a bufio.Reader over an already-decoded, normalized
// UTF-8 stream. It is the common implementation behind all three
// constructors below.
type bufSource struct {
	r        *bufio.Reader
	systemID string
	encoding string
	closer   io.Closer
	eof      bool
}

func (s *bufSource) Read() (string, error) {
	if s.eof {
		return "", nil
	}
	buf := make([]byte, chunkSize)
	n, err := s.r.Read(buf)
	if err == io.EOF {
		s.eof = true
		err = nil
	} else if err != nil {
		return "", &EncodingError{SystemID: s.systemID, Encoding: s.encoding, Err: err}
	}
	return normalizeLineEndings(string(buf[:n])), nil
}

func (s *bufSource) DataAvailable() bool {
	if s.eof {
		return false
	}
	_, err := s.r.Peek(1)
	return err == nil
}

func (s *bufSource) SystemID() string         { return s.systemID }
func (s *bufSource) DeclaredEncoding() string  { return s.encoding }
func (s *bufSource) Close() error {
	if s.closer != nil {
		c := s.closer
		s.closer = nil
		return c.Close()
	}
	return nil
}

// NewString builds a Source over an in-memory string. No encoding
// sniffing is performed: strings are always UTF-8 Go strings.
func NewString(systemID, content string) Source {
	return &bufSource{
		r:        bufio.NewReader(bytes.NewReader(normalizeBytes([]byte(content)))),
		systemID: systemID,
		encoding: "UTF-8",
	}
}

// NewFile opens path and builds a Source over it, detecting encoding
// by BOM (falling back to the declaredEncoding hint, typically parsed
// from the XML declaration by a first pass, or "" to assume UTF-8).
// The returned Source's Close releases the file handle on every exit
// path.
func NewFile(path, declaredEncoding string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src, err := newDecoded(f, path, declaredEncoding)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// NewReader builds a Source over an arbitrary io.Reader (e.g. a
// network stream). systemID is used only for diagnostics.
func NewReader(r io.Reader, systemID, declaredEncoding string) (Source, error) {
	rc, ok := r.(io.Closer)
	src, err := newDecoded(r, systemID, declaredEncoding)
	if err != nil {
		return nil, err
	}
	if ok {
		src.closer = rc
	}
	return src, nil
}

func newDecoded(r io.Reader, systemID, declaredEncoding string) (*bufSource, error) {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(4)

	enc, name, consumed := detectByBOM(peek)
	if enc != nil {
		br.Discard(consumed)
		tr := transform.NewReader(br, enc.NewDecoder())
		normalized, err := normalizeReader(tr)
		if err != nil {
			return nil, &EncodingError{SystemID: systemID, Encoding: name, Err: err}
		}
		return &bufSource{r: bufio.NewReader(bytes.NewReader(normalized)), systemID: systemID, encoding: name}, nil
	}

	if declaredEncoding != "" && !isUTF8Name(declaredEncoding) {
		e, err := ianaindex.IANA.Encoding(declaredEncoding)
		if err != nil || e == nil {
			return nil, &EncodingError{SystemID: systemID, Encoding: declaredEncoding, Err: fmt.Errorf("unsupported charset")}
		}
		tr := transform.NewReader(br, e.NewDecoder())
		normalized, err := normalizeReader(tr)
		if err != nil {
			return nil, &EncodingError{SystemID: systemID, Encoding: declaredEncoding, Err: err}
		}
		return &bufSource{r: bufio.NewReader(bytes.NewReader(normalized)), systemID: systemID, encoding: declaredEncoding}, nil
	}

	normalized, err := normalizeReader(br)
	if err != nil {
		return nil, &EncodingError{SystemID: systemID, Encoding: "UTF-8", Err: err}
	}
	return &bufSource{r: bufio.NewReader(bytes.NewReader(normalized)), systemID: systemID, encoding: "UTF-8"}, nil
}

func isUTF8Name(name string) bool {
	switch name {
	case "UTF-8", "utf-8", "UTF8", "utf8":
		return true
	}
	return false
}

// detectByBOM inspects up to the first 4 bytes for a byte-order mark
// and returns the matching encoding, its canonical name, and how many
// BOM bytes to discard. Returns (nil, "", 0) when no BOM is present,
// meaning the caller must fall back to the declared encoding or UTF-8.
func detectByBOM(peek []byte) (encoding.Encoding, string, int) {
	switch {
	case bytes.HasPrefix(peek, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "UTF-16LE", 2
	case bytes.HasPrefix(peek, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "UTF-16BE", 2
	case bytes.HasPrefix(peek, []byte{0xEF, 0xBB, 0xBF}):
		return unicode.UTF8BOM, "UTF-8", 3
	}
	return nil, "", 0
}

// normalizeReader reads r to completion and normalizes line endings.
// The character source is meant for bounded documents, so buffering
// the whole decoded document is acceptable.
func normalizeReader(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return normalizeBytes(data), nil
}

func normalizeBytes(b []byte) []byte {
	return []byte(normalizeLineEndings(string(b)))
}

// normalizeLineEndings implements XML 1.0 §2.11: every CRLF and every
// lone CR not followed by LF is translated to a single LF.
func normalizeLineEndings(s string) string {
	if !bytes.ContainsAny([]byte(s), "\r") {
		return s
	}
	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\r' {
			b.WriteByte('\n')
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
