package clusters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rectcli/pkg/contracts/domain"
)

func tradesTable(pairs ...[2]string) *domain.Table {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p[0], p[1]}
	}
	return &domain.Table{Header: []string{"trade_id", "related_trade"}, Rows: rows}
}

func TestFromTable(t *testing.T) {
	tests := []struct {
		name  string
		pairs [][2]string
		want  [][]string
	}{
		{
			name: "chained references form one cluster",
			pairs: [][2]string{
				{"1", "2"},
				{"2", "3"},
				{"3", ""},
			},
			want: [][]string{{"1", "2", "3"}},
		},
		{
			name: "independent trades stay separate",
			pairs: [][2]string{
				{"1", ""},
				{"2", "NA"},
				{"3", "none"},
			},
			want: [][]string{{"1"}, {"2"}, {"3"}},
		},
		{
			name: "two disjoint clusters plus a singleton",
			pairs: [][2]string{
				{"1", "2"},
				{"2", ""},
				{"5", "6"},
				{"6", ""},
				{"9", ""},
			},
			want: [][]string{{"1", "2"}, {"5", "6"}, {"9"}},
		},
		{
			name: "reference to an unseen trade creates its node",
			pairs: [][2]string{
				{"1", "99"},
			},
			want: [][]string{{"1", "99"}},
		},
		{
			name: "numeric ids order numerically",
			pairs: [][2]string{
				{"10", "2"},
				{"2", ""},
				{"3", ""},
			},
			want: [][]string{{"2", "10"}, {"3"}},
		},
		{
			name: "null-like id rows are skipped",
			pairs: [][2]string{
				{"", "1"},
				{"nan", "2"},
				{"7", ""},
			},
			want: [][]string{{"7"}},
		},
		{
			name:  "empty table yields no clusters",
			pairs: nil,
			want:  [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromTable(tradesTable(tt.pairs...), "trade_id", "related_trade")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromTableUnknownColumns(t *testing.T) {
	table := tradesTable([2]string{"1", ""})

	_, err := FromTable(table, "nope", "related_trade")
	require.Error(t, err)

	_, err = FromTable(table, "trade_id", "nope")
	require.Error(t, err)
}

func TestFromTableDeterministic(t *testing.T) {
	pairs := [][2]string{
		{"8", "3"},
		{"3", ""},
		{"1", "8"},
		{"12", ""},
		{"5", "12"},
	}

	first, err := FromTable(tradesTable(pairs...), "trade_id", "related_trade")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := FromTable(tradesTable(pairs...), "trade_id", "related_trade")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, [][]string{{"1", "3", "8"}, {"5", "12"}}, first)
}

func TestIDLess(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"numeric ordering", "2", "10", true},
		{"numeric reversed", "10", "2", false},
		{"lexicographic fallback", "abc", "abd", true},
		{"mixed falls back to lexicographic", "10", "abc", true},
		{"equal numeric tie-breaks on text", "1.0", "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idLess(tt.a, tt.b))
		})
	}
}
