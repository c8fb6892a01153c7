package collab

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ErrorLog_WritesCSVHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	el, err := NewErrorLog(dir, "errors-%Y-%m-%d.csv")
	require.NoError(t, err)
	defer el.Close()

	el.PushError(3, 0xFE)
	el.PushError(7, 0xFE)
	require.NoError(t, el.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "utime,isotime,channel,code")
	assert.Equal(t, 1, strings.Count(string(data), "utime,isotime,channel,code"))
	assert.Contains(t, string(data), "3,")
	assert.Contains(t, string(data), "0xFE")
}

func Test_NewErrorLog_RejectsBadPattern(t *testing.T) {
	_, err := NewErrorLog(t.TempDir(), "errors-%")
	assert.Error(t, err)
}
