package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rectcli/pkg/contracts/domain"
)

func TestWriteCSV(t *testing.T) {
	t.Run("writes headers and records with BOM", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.csv")

		w := NewCSVWriter(nil)
		err := w.WriteCSV(path, WriteOptions{
			Headers:   []string{"id", "name"},
			Records:   [][]string{{"1", "alice"}, {"2", "bob"}},
			BOMPrefix: true,
		})
		require.NoError(t, err)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, raw[:3])
		assert.Equal(t, "id,name\n1,alice\n2,bob\n", string(raw[3:]))
	})

	t.Run("creates missing directories", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "deep", "out.csv")

		w := NewCSVWriter(nil)
		err := w.WriteCSV(path, WriteOptions{Headers: []string{"a"}, Records: [][]string{{"1"}}})
		require.NoError(t, err)

		_, err = os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("quotes fields containing the delimiter", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.csv")

		w := NewCSVWriter(nil)
		err := w.WriteCSV(path, WriteOptions{
			Headers: []string{"a", "b"},
			Records: [][]string{{"1", "x,y"}},
		})
		require.NoError(t, err)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,\"x,y\"\n", string(raw))
	})
}

func TestWriteTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.csv")

	table := &domain.Table{
		Header: []string{"id", "name"},
		Rows:   [][]string{{"1", "alice"}},
	}

	w := NewCSVWriter(nil)
	require.NoError(t, w.WriteTable(path, table))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, raw[:3])
	assert.Equal(t, "id,name\n1,alice\n", string(raw[3:]))
}

func TestAppendToCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	w := NewCSVWriter(nil)
	require.NoError(t, w.WriteCSV(path, WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "2"}},
	}))
	require.NoError(t, w.AppendToCSV(path, [][]string{{"3", "4"}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(raw))
}

func TestStreamWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.csv")

	w := NewCSVWriter(nil)
	sw, err := w.CreateStreamWriter(path, []string{"id", "qty"})
	require.NoError(t, err)

	require.NoError(t, sw.WriteRecord([]string{"1", "10"}))
	require.NoError(t, sw.WriteRecord([]string{"2", "20"}))
	require.NoError(t, sw.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, raw[:3])
	assert.Equal(t, "id,qty\n1,10\n2,20\n", string(raw[3:]))
}
