package merge

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/agentstation/propmerge/pkg/errors"
)

// Charset is a resolved text encoding.
type Charset struct {
	// Name is the preferred MIME name, then the IANA name, then the
	// requested name.
	Name string

	enc encoding.Encoding
}

// IsUTF8 reports whether the charset is UTF-8. UTF-8 input is validated
// strictly; other decoders substitute U+FFFD for undecodable bytes.
func (c Charset) IsUTF8() bool {
	return c.enc == unicode.UTF8
}

// Encoding returns the underlying x/text encoding.
func (c Charset) Encoding() encoding.Encoding {
	return c.enc
}

// ResolveCharset looks up name in the IANA registry, falling back to the
// WHATWG labels (e.g. "latin1"). An empty name resolves to UTF-8.
func ResolveCharset(name string) (Charset, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return Charset{Name: "UTF-8", enc: unicode.UTF8}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(name)
		if err != nil {
			return Charset{}, fmt.Errorf("unsupported encoding %q: %w", name, errors.ErrInvalidEncoding)
		}
	}

	canonical := displayName(enc, name)
	if enc == unicode.UTF8 || strings.EqualFold(canonical, "UTF-8") {
		enc = unicode.UTF8
	}
	return Charset{Name: canonical, enc: enc}, nil
}

func displayName(enc encoding.Encoding, requested string) string {
	for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if n, err := index.Name(enc); err == nil && n != "" {
			return n
		}
	}
	return requested
}
