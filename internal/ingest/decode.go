package ingest

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	apperrors "rectcli/internal/errors"
)

const (
	// utf16ProbeSize is how many leading bytes the NUL-ratio heuristic inspects
	utf16ProbeSize = 200
	// utf16NullRatio is the NUL-byte ratio above which input is treated as UTF-16
	utf16NullRatio = 0.10
)

// EncodingUTF16 is the name reported when the wide-character path is taken.
const EncodingUTF16 = "utf-16"

// narrowEncoding pairs an encoding name with its decoder. The order is the
// fallback order tried by decodeBytes when no UTF-16 signature is found.
type narrowEncoding struct {
	name  string
	codec encoding.Encoding
}

var narrowEncodings = []narrowEncoding{
	{"utf-8-sig", unicode.UTF8BOM},
	{"utf-8", unicode.UTF8},
	{"cp1252", charmap.Windows1252},
	{"latin1", charmap.ISO8859_1},
}

// NarrowEncodingNames returns the configured narrow-encoding fallback order.
func NarrowEncodingNames() []string {
	names := make([]string, 0, len(narrowEncodings)+1)
	names = append(names, EncodingUTF16)
	for _, e := range narrowEncodings {
		names = append(names, e.name)
	}
	return names
}

// looksUTF16 reports whether the raw bytes carry a UTF-16 byte order mark
// or enough embedded NULs to suggest a double-byte encoding.
func looksUTF16(raw []byte) bool {
	if bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) || bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) {
		return true
	}
	if len(raw) >= utf16ProbeSize {
		probe := raw[:utf16ProbeSize]
		zeros := bytes.Count(probe, []byte{0x00})
		return float64(zeros)/float64(len(probe)) > utf16NullRatio
	}
	return false
}

// decodeUTF16 decodes BOM-aware UTF-16, defaulting to little endian when no
// signature is present.
func decodeUTF16(raw []byte) (string, error) {
	endianness := unicode.LittleEndian
	if bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) {
		endianness = unicode.BigEndian
	}
	dec := unicode.UTF16(endianness, unicode.IgnoreBOM).NewDecoder()
	if bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) || bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) {
		dec = unicode.UTF16(endianness, unicode.ExpectBOM).NewDecoder()
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeNarrow decodes with a single named narrow encoding, replacing
// invalid byte sequences with the Unicode replacement rune. Replacement
// rather than truncation: a chosen encoding never aborts on bad bytes.
func decodeNarrow(raw []byte, enc narrowEncoding) (string, error) {
	switch enc.codec {
	case unicode.UTF8BOM, unicode.UTF8:
		text := raw
		if enc.codec == unicode.UTF8BOM {
			text = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
		}
		if utf8.Valid(text) {
			return string(text), nil
		}
		return strings.ToValidUTF8(string(text), string(utf8.RuneError)), nil
	default:
		out, err := enc.codec.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

// stripNULs removes every residual NUL from decoded text.
func stripNULs(text string) string {
	return strings.ReplaceAll(text, "\x00", "")
}

// decodeBytes converts raw file bytes to clean text. It returns the decoded
// text and the name of the encoding actually used.
//
// UTF-16 input is detected by BOM or by the NUL-ratio heuristic and decoded
// on the wide path; a wide-path failure falls through to the narrow list
// rather than aborting. The narrow encodings are tried in order and the
// first successful decode wins. Because every narrow entry decodes with
// replacement, a DecodeError is a last-resort condition.
func decodeBytes(raw []byte) (string, string, error) {
	if looksUTF16(raw) {
		if text, err := decodeUTF16(raw); err == nil {
			return stripNULs(text), EncodingUTF16, nil
		}
	}

	var lastErr error
	for _, enc := range narrowEncodings {
		text, err := decodeNarrow(raw, enc)
		if err != nil {
			lastErr = err
			continue
		}
		return stripNULs(text), enc.name, nil
	}

	return "", "", &apperrors.DecodeError{
		Encodings: NarrowEncodingNames(),
		Cause:     lastErr,
	}
}

// decodeBytesAs decodes with an explicit caller-chosen encoding, skipping
// detection entirely.
func decodeBytesAs(raw []byte, name string) (string, string, error) {
	if name == EncodingUTF16 {
		text, err := decodeUTF16(raw)
		if err != nil {
			return "", "", &apperrors.DecodeError{Encodings: []string{name}, Cause: err}
		}
		return stripNULs(text), EncodingUTF16, nil
	}

	for _, enc := range narrowEncodings {
		if enc.name != name {
			continue
		}
		text, err := decodeNarrow(raw, enc)
		if err != nil {
			return "", "", &apperrors.DecodeError{Encodings: []string{name}, Cause: err}
		}
		return stripNULs(text), enc.name, nil
	}

	return "", "", &apperrors.DecodeError{
		Encodings: []string{name},
		Cause:     fmt.Errorf("unknown encoding %q", name),
	}
}
