package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeStrictQuote(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		delim   rune
		want    [][]string
		wantErr bool
	}{
		{
			name:  "plain rows",
			text:  "a,b,c\n1,2,3",
			delim: ',',
			want:  [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name:  "quoted field with embedded delimiter",
			text:  "a,\"b,c\",d",
			delim: ',',
			want:  [][]string{{"a", "b,c", "d"}},
		},
		{
			name:  "doubled quote escapes a literal quote",
			text:  "a,\"say \"\"hi\"\"\",b",
			delim: ',',
			want:  [][]string{{"a", `say "hi"`, "b"}},
		},
		{
			name:  "quoted field with embedded newline",
			text:  "a,\"line1\nline2\",b",
			delim: ',',
			want:  [][]string{{"a", "line1\nline2", "b"}},
		},
		{
			name:    "bare quote fails",
			text:    "a,say \"hi,b",
			delim:   ',',
			wantErr: true,
		},
		{
			name:    "backslash escaped quote fails",
			text:    "a,\"say \\\"hi\\\"\",b",
			delim:   ',',
			wantErr: true,
		},
		{
			name:    "empty input fails",
			text:    "",
			delim:   ',',
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := tokenizeStrictQuote(tt.text, tt.delim)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestTokenizeEscapedQuote(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		delim   rune
		want    [][]string
		wantErr bool
	}{
		{
			name:  "backslash escapes quote inside quoted field",
			text:  "a,\"say \\\"hi\\\"\",b",
			delim: ',',
			want:  [][]string{{"a", `say "hi"`, "b"}},
		},
		{
			name:  "backslash escapes delimiter outside quotes",
			text:  "a\\,b,c",
			delim: ',',
			want:  [][]string{{"a,b", "c"}},
		},
		{
			name:  "doubled quote still works",
			text:  "\"a\"\"b\",c",
			delim: ',',
			want:  [][]string{{`a"b`, "c"}},
		},
		{
			name:  "blank lines are skipped",
			text:  "a,b\n\n\nc,d\n",
			delim: ',',
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "carriage returns are dropped",
			text:  "a,b\r\nc,d\r\n",
			delim: ',',
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:    "bare quote mid-field fails",
			text:    "a,say \"hi,b",
			delim:   ',',
			wantErr: true,
		},
		{
			name:    "unterminated quoted field fails",
			text:    "a,\"open,b",
			delim:   ',',
			wantErr: true,
		},
		{
			name:    "trailing escape fails",
			text:    "a,b\\",
			delim:   ',',
			wantErr: true,
		},
		{
			name:    "newline only input fails",
			text:    "\n\n",
			delim:   ',',
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := tokenizeEscapedQuote(tt.text, tt.delim)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestTokenizeQuoteBlind(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		delim   rune
		want    [][]string
		wantErr bool
	}{
		{
			name:  "keeps quotes verbatim",
			text:  "a,\"b,c\",d",
			delim: ',',
			want:  [][]string{{"a", `"b,c"`, "d"}},
		},
		{
			name:  "splits only at even parity",
			text:  "x,\"p,q\",y\n1,2,3",
			delim: ',',
			want:  [][]string{{"x", `"p,q"`, "y"}, {"1", "2", "3"}},
		},
		{
			name:  "tolerates malformed but balanced quoting",
			text:  "a,b\"c\"d,e",
			delim: ',',
			want:  [][]string{{"a", `b"c"d`, "e"}},
		},
		{
			name:    "odd quote count fails the strategy",
			text:    "a,b\nc,say \"hi",
			delim:   ',',
			wantErr: true,
		},
		{
			name:    "blank input fails",
			text:    "\n  \n",
			delim:   ',',
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := tokenizeQuoteBlind(tt.text, tt.delim)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestRepairQuotes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "smart quotes become plain quotes",
			text: "a,“b”,c",
			want: `a,"b",c`,
		},
		{
			name: "smart apostrophes become plain apostrophes",
			text: "it‘s,it’s",
			want: "it's,it's",
		},
		{
			name: "odd quote line rewritten",
			text: "a,say \"hi,b",
			want: "a,say ''hi,b",
		},
		{
			name: "balanced line untouched",
			text: "a,\"b\",c",
			want: "a,\"b\",c",
		},
		{
			name: "only the odd lines are rewritten",
			text: "a,\"b\",c\nd,say \"hi,e",
			want: "a,\"b\",c\nd,say ''hi,e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairQuotes(tt.text))
		})
	}
}

func TestTokenizeQuoteRepair(t *testing.T) {
	t.Run("parses a line that defeats the parity split", func(t *testing.T) {
		rows, err := tokenizeQuoteRepair("name,note\nalice,say \"hi\nbob,ok", ',')
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"name", "note"},
			{"alice", "say ''hi"},
			{"bob", "ok"},
		}, rows)
	})

	t.Run("repairs a smart quote before splitting", func(t *testing.T) {
		rows, err := tokenizeQuoteRepair("a,“b,c”,d", ',')
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a", `"b,c"`, "d"}}, rows)
	})

	t.Run("content free input still fails", func(t *testing.T) {
		_, err := tokenizeQuoteRepair("\n \n", ',')
		require.ErrorIs(t, err, errNoRows)
	})
}
