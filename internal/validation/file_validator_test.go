package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/errors"
)

func newValidator() *FileValidator {
	return NewFileValidator(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestValidateInputDirectory(t *testing.T) {
	v := newValidator()

	t.Run("counts workbooks", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"a.xlsx", "b.xlsm", "~$a.xlsx", "notes.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
		}
		n, err := v.ValidateInputDirectory(dir)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("empty directory", func(t *testing.T) {
		n, err := v.ValidateInputDirectory(t.TempDir())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := v.ValidateInputDirectory(filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.True(t, apierrors.IsType(err, apierrors.ErrTypeNotFound))
	})

	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		_, err := v.ValidateInputDirectory(path)
		require.Error(t, err)
		assert.True(t, apierrors.IsType(err, apierrors.ErrTypeValidation))
	})
}

func TestValidateOutputDirectory(t *testing.T) {
	v := newValidator()

	dir := filepath.Join(t.TempDir(), "reports", "2024")
	require.NoError(t, v.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary write file is removed")

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	err = v.ValidateOutputDirectory(filepath.Join(blocker, "sub"))
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeStorage))
}

func TestValidateWorkbookName(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"19-401.xlsx", false},
		{"upload.XLSM", false},
		{"old.xls", false},
		{"~$19-401.xlsx", true},
		{"report.csv", true},
		{"noext", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateWorkbookName(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apierrors.IsType(err, apierrors.ErrTypeValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateWorkbookFile(t *testing.T) {
	v := newValidator()
	dir := t.TempDir()

	good := filepath.Join(dir, "a.xlsx")
	require.NoError(t, os.WriteFile(good, []byte("x"), 0644))
	assert.NoError(t, v.ValidateWorkbookFile(good))

	err := v.ValidateWorkbookFile(filepath.Join(dir, "missing.xlsx"))
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeNotFound))

	sub := filepath.Join(dir, "folder.xlsx")
	require.NoError(t, os.Mkdir(sub, 0755))
	assert.Error(t, v.ValidateWorkbookFile(sub))
}
