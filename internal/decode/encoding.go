package decode

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding is one candidate text encoding. A nil codec means UTF-8, which is
// validated rather than transcoded.
type Encoding struct {
	Name  string
	codec encoding.Encoding
}

var (
	UTF8        = Encoding{Name: "utf-8"}
	Latin1      = Encoding{Name: "latin-1", codec: charmap.ISO8859_1}
	Windows1252 = Encoding{Name: "windows-1252", codec: charmap.Windows1252}
)

var encodingsByName = map[string]Encoding{
	"utf-8":        UTF8,
	"utf8":         UTF8,
	"latin-1":      Latin1,
	"latin1":       Latin1,
	"iso-8859-1":   Latin1,
	"windows-1252": Windows1252,
	"cp1252":       Windows1252,
}

// DefaultEncodings returns the standard candidate order.
func DefaultEncodings() []Encoding {
	return []Encoding{UTF8, Latin1, Windows1252}
}

// Lookup resolves an encoding by name or common alias.
func Lookup(name string) (Encoding, error) {
	enc, ok := encodingsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Encoding{}, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// Encoder returns a transcoder from UTF-8 into this encoding, or nil for UTF-8.
func (e Encoding) Encoder() *encoding.Encoder {
	if e.codec == nil {
		return nil
	}
	return e.codec.NewEncoder()
}
