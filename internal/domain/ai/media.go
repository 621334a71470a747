package ai

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Media is a decoded browser file upload (image or audio).
type Media struct {
	MIME string
	Data []byte
}

// HasPrefix reports whether the media type falls under prefix ("image/", "audio/").
func (m Media) HasPrefix(prefix string) bool {
	return strings.HasPrefix(m.MIME, prefix)
}

// Ext returns a filename extension for the media type.
func (m Media) Ext() string {
	if i := strings.IndexByte(m.MIME, '/'); i >= 0 && i+1 < len(m.MIME) {
		sub := m.MIME[i+1:]
		if j := strings.IndexByte(sub, ';'); j >= 0 {
			sub = sub[:j]
		}
		switch sub {
		case "jpeg":
			return "jpg"
		case "mpeg":
			return "mp3"
		}
		return sub
	}
	return "bin"
}

// DataURI re-encodes the media as an RFC 2397 data URI.
func (m Media) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", m.MIME, base64.StdEncoding.EncodeToString(m.Data))
}

// ParseDataURI decodes a base64 data URI as produced by the browser's
// file reader: data:<mime>;base64,<payload>.
func ParseDataURI(s string) (Media, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Media{}, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Media{}, fmt.Errorf("malformed data URI: missing payload")
	}
	mime, enc := meta, ""
	if i := strings.LastIndexByte(meta, ';'); i >= 0 {
		mime, enc = meta[:i], meta[i+1:]
	}
	if enc != "base64" {
		return Media{}, fmt.Errorf("unsupported data URI encoding: %q", enc)
	}
	if mime == "" {
		return Media{}, fmt.Errorf("data URI missing media type")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Media{}, fmt.Errorf("decoding data URI payload: %w", err)
	}
	return Media{MIME: mime, Data: data}, nil
}
