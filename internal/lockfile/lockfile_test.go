package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireWritesPID(t *testing.T) {
	dir := t.TempDir()
	lock, err := AcquireLock(dir)
	require.NoError(t, err)
	defer lock.Release()

	assert.Equal(t, filepath.Join(dir, LockFileName), lock.Path())
	content, err := os.ReadFile(lock.Path())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("pid=%d\n", os.Getpid()), string(content))
}

func TestSecondAcquireFails(t *testing.T) {
	dir := t.TempDir()
	first, err := AcquireLock(dir)
	require.NoError(t, err)
	defer first.Release()

	second, err := AcquireLock(dir)
	require.Error(t, err)
	assert.Nil(t, second)

	var lockErr *LockError
	require.ErrorAs(t, err, &lockErr)
	assert.Equal(t, first.Path(), lockErr.LockPath)
	assert.Equal(t, fmt.Sprintf("pid %d", os.Getpid()), lockErr.Holder)
	assert.Contains(t, err.Error(), "another PetDiary instance")
}

func TestReleaseAllowsReacquire(t *testing.T) {
	dir := t.TempDir()
	lock, err := AcquireLock(dir)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
	require.NoError(t, lock.Release())

	_, err = os.Stat(filepath.Join(dir, LockFileName))
	assert.True(t, os.IsNotExist(err))

	again, err := AcquireLock(dir)
	require.NoError(t, err)
	assert.NoError(t, again.Release())
}

func TestAcquireCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state", "nested")
	lock, err := AcquireLock(dir)
	require.NoError(t, err)
	defer lock.Release()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStaleLockFileIsTakenOver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)
	require.NoError(t, os.WriteFile(path, []byte("pid=999999999\n"), 0o644))

	lock, err := AcquireLock(dir)
	require.NoError(t, err)
	defer lock.Release()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("pid=%d\n", os.Getpid()), string(content))
}

func TestParsePID(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"pid=123\n", 123},
		{"host=a\npid=42\n", 42},
		{"pid=abc\n", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parsePID(tt.content), "content %q", tt.content)
	}
}

func TestDescribeHolderMissingFile(t *testing.T) {
	assert.Empty(t, describeHolder(filepath.Join(t.TempDir(), "missing.lock")))
}
