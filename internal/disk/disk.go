// Package disk implements the simulated backing store for a single RAID
// disk: a fixed-size, byte-addressable container with read/write/probe and
// a rebuild path for replacing a lost disk. Generalized from
// arbhalerao-go-software-raid's Disk (an os.File-backed, mutex-guarded
// fixed-block container) to address arbitrary byte ranges rather than
// fixed blocks.
package disk

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

// ErrFailed is returned by Read/Write when the disk is currently marked
// failed; any I/O failure also flips liveness to failed.
var ErrFailed = errors.New("disk: failed")

// ErrBounds is returned when a read or write range exceeds the disk's size.
var ErrBounds = errors.New("disk: offset+length exceeds disk size")

// Disk is one simulated disk: a flat file of exactly Size bytes.
type Disk struct {
	mu     sync.RWMutex
	path   string
	size   int64
	file   *os.File
	failed bool

	reads  uint64
	writes uint64
}

// Open ensures a backing container of exactly size bytes exists at path,
// creating a zero-filled one if it is missing or the wrong size, and
// establishes liveness = good.
func Open(path string, size int64) (*Disk, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "disk: open %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "disk: stat %s", path)
	}
	if info.Size() != size {
		if err := f.Truncate(0); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "disk: clear %s", path)
		}
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "disk: resize %s to %d", path, size)
		}
	}

	return &Disk{path: path, size: size, file: f}, nil
}

// Read returns length bytes starting at offset. Any I/O failure flips
// liveness to failed and propagates an error.
func (d *Disk) Read(offset int64, length int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failed {
		return nil, errors.Wrapf(ErrFailed, "disk %s", d.path)
	}
	if offset < 0 || offset+int64(length) > d.size {
		return nil, errors.Wrapf(ErrBounds, "disk %s: offset %d length %d size %d", d.path, offset, length, d.size)
	}

	buf := make([]byte, length)
	n, err := d.file.ReadAt(buf, offset)
	if err != nil && n != length {
		d.failed = true
		return nil, errors.Wrapf(err, "disk %s: read at %d", d.path, offset)
	}
	d.reads++
	return buf, nil
}

// Write stores data at offset. Any I/O failure flips liveness to failed and
// propagates an error.
func (d *Disk) Write(offset int64, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failed {
		return errors.Wrapf(ErrFailed, "disk %s", d.path)
	}
	if offset < 0 || offset+int64(len(data)) > d.size {
		return errors.Wrapf(ErrBounds, "disk %s: offset %d length %d size %d", d.path, offset, len(data), d.size)
	}

	n, err := d.file.WriteAt(data, offset)
	if err != nil || n != len(data) {
		d.failed = true
		if err == nil {
			err = errors.Errorf("short write: wrote %d of %d bytes", n, len(data))
		}
		return errors.Wrapf(err, "disk %s: write at %d", d.path, offset)
	}
	d.writes++
	return nil
}

// Probe verifies the backing file's size still matches the declared size;
// any mismatch or I/O error flips liveness to failed. It returns whether the
// disk is currently healthy.
func (d *Disk) Probe() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	info, err := d.file.Stat()
	if err != nil || info.Size() != d.size {
		d.failed = true
	}
	return !d.failed
}

// Failed reports the disk's last-known liveness without re-probing.
func (d *Disk) Failed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.failed
}

// SetFailed forces the disk's liveness flag, simulating an external failure
// (or its recovery) for tests and for ProbeDisks-driven scenarios, grounded
// on arbhalerao-go-software-raid's SetFailed/IsFailed pair.
func (d *Disk) SetFailed(failed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failed = failed
}

// Rebuild creates a fresh zero-filled container at path (which may be the
// same path as before, truncated, or a replacement path) and re-establishes
// liveness = good.
func (d *Disk) Rebuild(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file != nil {
		d.file.Close()
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "disk: rebuild %s", path)
	}
	if err := f.Truncate(d.size); err != nil {
		f.Close()
		return errors.Wrapf(err, "disk: resize rebuilt %s", path)
	}

	d.path = path
	d.file = f
	d.failed = false
	return nil
}

// Close releases the backing file.
func (d *Disk) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

// Path returns the disk's current backing file path.
func (d *Disk) Path() string { return d.path }

// Size returns the disk's declared size in bytes.
func (d *Disk) Size() int64 { return d.size }
