package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorLog_RecordFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewErrorLog(&buf)

	require.NoError(t, log.Record("ds", "a.ttl", "line 1\nline 2\r\nline 3\rend"))
	require.NoError(t, log.Record("ds", "b.ttl", "x"))

	assert.Equal(t,
		"Dataset: ds\nFile: a.ttl\nError: line 1 line 2 line 3 end\n\n"+
			"Dataset: ds\nFile: b.ttl\nError: x\n\n",
		buf.String())
	assert.Equal(t, 2, log.Count())
}

func TestOpenErrorLog_AppendAndTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")

	log, err := OpenErrorLog(path, false)
	require.NoError(t, err)
	require.NoError(t, log.Record("a", "f", "first"))
	require.NoError(t, log.Close())
	require.NoError(t, log.Close())

	log, err = OpenErrorLog(path, true)
	require.NoError(t, err)
	require.NoError(t, log.Record("b", "f", "second"))
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")

	log, err = OpenErrorLog(path, false)
	require.NoError(t, err)
	require.NoError(t, log.Close())
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestOpenErrorLog_Directory(t *testing.T) {
	_, err := OpenErrorLog(t.TempDir(), false)
	assert.Error(t, err)
}
