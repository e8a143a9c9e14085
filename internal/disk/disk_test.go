package disk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Anthya1104/raid6store/internal/disk"
	"github.com/stretchr/testify/assert"
)

func TestOpenCreatesZeroFilledContainer(t *testing.T) {
	dir := t.TempDir()
	d, err := disk.Open(filepath.Join(dir, "disk0"), 16)
	assert.NoError(t, err)
	defer d.Close()

	data, err := d.Read(0, 16)
	assert.NoError(t, err)
	assert.Equal(t, make([]byte, 16), data)
}

func TestWriteThenRead(t *testing.T) {
	dir := t.TempDir()
	d, err := disk.Open(filepath.Join(dir, "disk0"), 16)
	assert.NoError(t, err)
	defer d.Close()

	assert.NoError(t, d.Write(4, []byte("ABCD")))
	data, err := d.Read(4, 4)
	assert.NoError(t, err)
	assert.Equal(t, []byte("ABCD"), data)
}

func TestReopenPreservesWrongSizeBehavior(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk0")

	d1, err := disk.Open(path, 16)
	assert.NoError(t, err)
	assert.NoError(t, d1.Write(0, []byte("HELLOWORLD123456")[:16]))
	assert.NoError(t, d1.Close())

	d2, err := disk.Open(path, 32) // different declared size truncates/extends
	assert.NoError(t, err)
	defer d2.Close()
	assert.Equal(t, int64(32), d2.Size())
}

func TestBoundsErrors(t *testing.T) {
	dir := t.TempDir()
	d, err := disk.Open(filepath.Join(dir, "disk0"), 16)
	assert.NoError(t, err)
	defer d.Close()

	_, err = d.Read(10, 10)
	assert.ErrorIs(t, err, disk.ErrBounds)

	err = d.Write(10, make([]byte, 10))
	assert.ErrorIs(t, err, disk.ErrBounds)
}

func TestProbeDetectsSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk0")
	d, err := disk.Open(path, 16)
	assert.NoError(t, err)
	defer d.Close()

	assert.True(t, d.Probe())

	assert.NoError(t, os.Truncate(path, 8)) // external resize away from the declared 16 bytes
	assert.False(t, d.Probe())

	assert.NoError(t, d.Rebuild(path)) // rebuild restores the declared size
	assert.True(t, d.Probe())
}

func TestFailedDiskRejectsIO(t *testing.T) {
	dir := t.TempDir()
	d, err := disk.Open(filepath.Join(dir, "disk0"), 16)
	assert.NoError(t, err)
	defer d.Close()

	assert.NoError(t, d.Close()) // closing the backing file forces subsequent I/O to fail
	_, err = d.Read(0, 4)
	assert.Error(t, err)
}

func TestSetFailedBlocksIOAndProbe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk0")
	d, err := disk.Open(path, 16)
	assert.NoError(t, err)
	defer d.Close()

	d.SetFailed(true)
	assert.True(t, d.Failed())
	assert.False(t, d.Probe())

	_, err = d.Read(0, 4)
	assert.ErrorIs(t, err, disk.ErrFailed)
	err = d.Write(0, []byte("X"))
	assert.ErrorIs(t, err, disk.ErrFailed)

	d.SetFailed(false)
	assert.False(t, d.Failed())
	assert.True(t, d.Probe())
	_, err = d.Read(0, 4)
	assert.NoError(t, err)
}

func TestRebuildRestoresLiveness(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk0")
	d, err := disk.Open(path, 16)
	assert.NoError(t, err)
	defer d.Close()

	d.Write(0, []byte("DEADBEEF"))
	assert.NoError(t, d.Rebuild(path))
	assert.False(t, d.Failed())

	data, err := d.Read(0, 16)
	assert.NoError(t, err)
	assert.Equal(t, make([]byte, 16), data, "rebuild must zero-fill")
}
