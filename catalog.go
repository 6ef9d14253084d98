package typesxml

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// catalogEntry is one PUBLIC or SYSTEM line of a loaded catalog file.
type catalogEntry struct {
	public bool
	key    string // publicId or systemId
	path   string
}

// Catalog maps external identifiers to locations and depends only on
// the entries it was loaded with. Catalog.Resolve returning false is
// not an error — the caller falls back to systemId resolution
// relative to the including file.
//
// The minimal concrete file format this implementation understands is
// lines of the form
//
//	PUBLIC "<publicId>" "<path>"
//	SYSTEM "<systemId>" "<path>"
//
// blank lines and lines starting with '#' are ignored.
type Catalog struct {
	entries []catalogEntry
}

// NewCatalog returns an empty catalog that resolves nothing.
func NewCatalog() *Catalog { return &Catalog{} }

// LoadCatalogFile parses path using the format documented on Catalog.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := &Catalog{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseCatalogLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		c.entries = append(c.entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func parseCatalogLine(line string) (catalogEntry, error) {
	var kindPublic bool
	switch {
	case strings.HasPrefix(line, "PUBLIC"):
		kindPublic = true
		line = strings.TrimSpace(line[len("PUBLIC"):])
	case strings.HasPrefix(line, "SYSTEM"):
		kindPublic = false
		line = strings.TrimSpace(line[len("SYSTEM"):])
	default:
		return catalogEntry{}, fmt.Errorf("typesxml: unrecognized catalog entry kind: %q", line)
	}
	key, rest, err := readQuoted(line)
	if err != nil {
		return catalogEntry{}, err
	}
	path, _, err := readQuoted(strings.TrimSpace(rest))
	if err != nil {
		return catalogEntry{}, err
	}
	return catalogEntry{public: kindPublic, key: key, path: path}, nil
}

func readQuoted(s string) (value, rest string, err error) {
	if len(s) == 0 || (s[0] != '"' && s[0] != '\'') {
		return "", "", fmt.Errorf("typesxml: expected a quoted string in catalog entry: %q", s)
	}
	quote := s[0]
	end := strings.IndexByte(s[1:], quote)
	if end < 0 {
		return "", "", fmt.Errorf("typesxml: unterminated quoted string in catalog entry: %q", s)
	}
	return s[1 : 1+end], s[1+end+1:], nil
}

// Add registers an explicit entry, e.g. from test code, without going
// through a catalog file.
func (c *Catalog) Add(public bool, key, path string) {
	c.entries = append(c.entries, catalogEntry{public: public, key: key, path: path})
}

// Resolve maps (publicID, systemID) to the location of the first
// matching entry: PUBLIC entries are matched first, then SYSTEM; no
// match returns ("", false). The location is returned exactly as the
// entry records it; a relative path is not made absolute.
func (c *Catalog) Resolve(publicID, systemID string) (string, bool) {
	if publicID != "" {
		for _, e := range c.entries {
			if e.public && e.key == publicID {
				return e.path, true
			}
		}
	}
	if systemID != "" {
		for _, e := range c.entries {
			if !e.public && e.key == systemID {
				return e.path, true
			}
		}
	}
	return "", false
}
