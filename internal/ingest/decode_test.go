package ingest

import (
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rectcli/internal/errors"
)

// encodeUTF16 builds raw UTF-16 bytes for test fixtures.
func encodeUTF16(text string, bigEndian, bom bool) []byte {
	units := utf16.Encode([]rune(text))
	if bom {
		units = append([]uint16{0xFEFF}, units...)
	}
	raw := make([]byte, 0, len(units)*2)
	for _, u := range units {
		if bigEndian {
			raw = append(raw, byte(u>>8), byte(u))
		} else {
			raw = append(raw, byte(u), byte(u>>8))
		}
	}
	return raw
}

func TestLooksUTF16(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want bool
	}{
		{
			name: "little endian BOM",
			raw:  []byte{0xFF, 0xFE, 'a', 0x00},
			want: true,
		},
		{
			name: "big endian BOM",
			raw:  []byte{0xFE, 0xFF, 0x00, 'a'},
			want: true,
		},
		{
			name: "NUL ratio above threshold",
			raw:  encodeUTF16(strings.Repeat("ab,cd\r\n", 40), false, false),
			want: true,
		},
		{
			name: "plain ascii",
			raw:  []byte(strings.Repeat("ab,cd\r\n", 40)),
			want: false,
		},
		{
			name: "short input without BOM never trips the heuristic",
			raw:  []byte{'a', 0x00, 'b', 0x00},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, looksUTF16(tt.raw))
		})
	}
}

func TestDecodeBytes(t *testing.T) {
	tests := []struct {
		name         string
		raw          []byte
		wantText     string
		wantEncoding string
	}{
		{
			name:         "utf-16 little endian with BOM",
			raw:          encodeUTF16("a,b\n1,2", false, true),
			wantText:     "a,b\n1,2",
			wantEncoding: EncodingUTF16,
		},
		{
			name:         "utf-16 big endian with BOM",
			raw:          encodeUTF16("a,b\n1,2", true, true),
			wantText:     "a,b\n1,2",
			wantEncoding: EncodingUTF16,
		},
		{
			name:         "utf-16 without BOM detected by NUL ratio",
			raw:          encodeUTF16(strings.Repeat("ab,cd\n", 40), false, false),
			wantText:     strings.Repeat("ab,cd\n", 40),
			wantEncoding: EncodingUTF16,
		},
		{
			name:         "plain utf-8",
			raw:          []byte("name,note\nalice,héllo"),
			wantText:     "name,note\nalice,héllo",
			wantEncoding: "utf-8-sig",
		},
		{
			name:         "utf-8 with BOM stripped",
			raw:          append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b")...),
			wantText:     "a,b",
			wantEncoding: "utf-8-sig",
		},
		{
			name:         "invalid bytes decoded with replacement",
			raw:          []byte{'a', ',', 0xE9, ',', 'b'},
			wantText:     "a,�,b",
			wantEncoding: "utf-8-sig",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, enc, err := decodeBytes(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEncoding, enc)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestDecodeBytesStripsAllNULs(t *testing.T) {
	raw := encodeUTF16("id,name\n1,alice\n2,bob", false, true)
	text, enc, err := decodeBytes(raw)

	require.NoError(t, err)
	assert.Equal(t, EncodingUTF16, enc)
	assert.NotContains(t, text, "\x00")
}

func TestDecodeBytesAs(t *testing.T) {
	t.Run("explicit cp1252 maps high bytes", func(t *testing.T) {
		text, enc, err := decodeBytesAs([]byte{'c', 'a', 'f', 0xE9}, "cp1252")
		require.NoError(t, err)
		assert.Equal(t, "cp1252", enc)
		assert.Equal(t, "café", text)
	})

	t.Run("explicit latin1 maps high bytes", func(t *testing.T) {
		text, enc, err := decodeBytesAs([]byte{'c', 'a', 'f', 0xE9}, "latin1")
		require.NoError(t, err)
		assert.Equal(t, "latin1", enc)
		assert.Equal(t, "café", text)
	})

	t.Run("explicit utf-16 skips detection", func(t *testing.T) {
		text, enc, err := decodeBytesAs(encodeUTF16("x,y", false, true), EncodingUTF16)
		require.NoError(t, err)
		assert.Equal(t, EncodingUTF16, enc)
		assert.Equal(t, "x,y", text)
	})

	t.Run("unknown encoding name fails", func(t *testing.T) {
		_, _, err := decodeBytesAs([]byte("a,b"), "ebcdic")
		require.Error(t, err)

		var decodeErr *apperrors.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, []string{"ebcdic"}, decodeErr.Encodings)
	})
}

func TestNarrowEncodingNames(t *testing.T) {
	assert.Equal(t, []string{"utf-16", "utf-8-sig", "utf-8", "cp1252", "latin1"}, NarrowEncodingNames())
}

func TestStripNULs(t *testing.T) {
	assert.Equal(t, "a,b", stripNULs("a\x00,\x00b"))
	assert.Equal(t, "clean", stripNULs("clean"))
}
