package fileutils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/gl-audit/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestWriteFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "report.json")

	require.NoError(t, fileutils.WriteFile(path, []byte("{}"), 0600))

	data, err := os.ReadFile(path) // #nosec G304 -- test file
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.csv", ".hidden.xlsx", "~$b.xlsx", "notes.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0750))

	files, err := fileutils.ListFiles(dir, func(p string) bool { return !strings.HasSuffix(p, ".pdf") })
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.xlsx")}, files)

	all, err := fileutils.ListFiles(dir, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = fileutils.ListFiles(filepath.Join(dir, "missing"), nil)
	assert.Error(t, err)
}

func TestReplaceExtension(t *testing.T) {
	tests := []struct {
		path, dir, ext, expected string
	}{
		{"/in/ledger.xlsx", "/out", "json", "/out/ledger.json"},
		{"/in/ledger.xlsx", "", ".yaml", "/in/ledger.yaml"},
		{"ledger", "out", "csv", "out/ledger.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, filepath.FromSlash(tt.expected), fileutils.ReplaceExtension(tt.path, tt.dir, tt.ext))
	}
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "계정별_원장_2024_01", fileutils.SafeName("계정별 원장/2024:01"))
	assert.Equal(t, "plain", fileutils.SafeName("plain"))
}
