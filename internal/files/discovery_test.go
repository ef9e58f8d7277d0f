package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWorkbook(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"19-401.xlsx", true},
		{"19-402.XLSX", true},
		{"macro.xlsm", true},
		{"legacy.xls", true},
		{"~$19-401.xlsx", false},
		{"notes.csv", false},
		{"xlsx", false},
		{"archive.xlsx.zip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWorkbook(tt.name))
		})
	}
}

func TestFindWorkbooks(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		dirs     []string
		expected []string
	}{
		{
			name:     "sorted by name",
			files:    []string{"c.xlsx", "a.xlsm", "b.xls"},
			expected: []string{"a.xlsm", "b.xls", "c.xlsx"},
		},
		{
			name:     "lock files and other types skipped",
			files:    []string{"~$a.xlsx", "a.xlsx", "readme.txt", "report.csv"},
			expected: []string{"a.xlsx"},
		},
		{
			name:     "subdirectories ignored",
			files:    []string{"a.xlsx"},
			dirs:     []string{"nested.xlsx"},
			expected: []string{"a.xlsx"},
		},
		{
			name:     "empty directory",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			dir := filepath.Join(base, "input")
			require.NoError(t, os.MkdirAll(dir, 0755))
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
			}
			for _, d := range tt.dirs {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, d), 0755))
			}

			found, err := NewDiscovery(base).FindWorkbooks("input")
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestFindWorkbooks_AbsoluteDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.xlsx"), []byte("x"), 0644))

	found, err := NewDiscovery("/unused").FindWorkbooks(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.xlsx")}, Paths(found))
}

func TestFindWorkbooks_MissingDir(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindWorkbooks("missing")
	assert.Error(t, err)
}
