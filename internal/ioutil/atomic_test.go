package ioutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	type payload struct {
		Ticket int64  `json:"ticket"`
		Symbol string `json:"symbol"`
	}
	in := payload{Ticket: 123, Symbol: "BTCUSD"}
	require.NoError(t, WriteJSONAtomic(path, in))

	var out payload
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, in, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no leftover temp file after a successful write")
}

func TestReadJSONMissingFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	var out map[string]any
	err := ReadJSON(filepath.Join(dir, "missing.json"), &out)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFileAtomicOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
