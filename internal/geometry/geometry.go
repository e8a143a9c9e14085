// Package geometry computes the rotating stripe layout: which disks hold P
// and Q for a given stripe, and the mapping from a logical offset inside a
// stripe's data-space to a concrete (disk, byte offset) pair. Only that
// direction is provided; there is no (disk, byte offset) -> stripe offset
// lookup. Geometry is a pure function of the stripe index, so nothing here is
// persisted — it is cheaper to recompute than to keep in sync with a
// stored table.
package geometry

import "github.com/pkg/errors"

// Layout is the immutable geometry configuration: data disk count D, block
// size B, and the derived stripe width W = D+2.
type Layout struct {
	DataDisks int
	BlockSize int
}

// Width returns the stripe width W = D + 2 (two parity columns).
func (l Layout) Width() int { return l.DataDisks + 2 }

// StripeSize returns Z = D*B, the usable data bytes per stripe.
func (l Layout) StripeSize() int { return l.DataDisks * l.BlockSize }

// ParityIndices returns the disk index holding P, the disk index holding Q,
// and the remaining W-2 disk indices (in increasing order) that hold data,
// for stripe s.
func (l Layout) ParityIndices(s int) (p, q int, dataCols []int) {
	w := l.Width()
	d := l.DataDisks
	p = (d + s) % w
	q = (d + s + 1) % w

	dataCols = make([]int, 0, d)
	for i := 0; i < w; i++ {
		if i != p && i != q {
			dataCols = append(dataCols, i)
		}
	}
	return p, q, dataCols
}

// Span is one contiguous (disk, byte offset, length) run within a single
// stripe, produced by decomposing a stripe-relative [offset, offset+length)
// range across data-column boundaries.
type Span struct {
	Disk   int
	Offset int // absolute byte offset within the disk
	Length int
}

// Locate returns the (disk index, absolute disk byte offset) holding the
// single byte at stripe-relative offset o (0 <= o < Z).
func (l Layout) Locate(s, o int) (disk, diskOffset int, err error) {
	z := l.StripeSize()
	if o < 0 || o >= z {
		return 0, 0, errors.Errorf("geometry: offset %d out of bounds [0,%d) for stripe %d", o, z, s)
	}
	_, _, dataCols := l.ParityIndices(s)
	col := o / l.BlockSize
	disk = dataCols[col]
	diskOffset = s*l.BlockSize + (o % l.BlockSize)
	return disk, diskOffset, nil
}

// DecomposeSpan breaks the stripe-relative byte range [offset, offset+length)
// into a sequence of per-disk contiguous spans, one per data column it
// touches, in increasing stripe-offset order.
func (l Layout) DecomposeSpan(s, offset, length int) ([]Span, error) {
	z := l.StripeSize()
	if offset < 0 || length < 0 || offset+length > z {
		return nil, errors.Errorf("geometry: span [%d,%d) out of bounds [0,%d) for stripe %d", offset, offset+length, z, s)
	}
	if length == 0 {
		return nil, nil
	}

	_, _, dataCols := l.ParityIndices(s)
	b := l.BlockSize

	var spans []Span
	pos := offset
	end := offset + length
	for pos < end {
		col := pos / b
		colEnd := (col + 1) * b
		runEnd := colEnd
		if end < runEnd {
			runEnd = end
		}
		spans = append(spans, Span{
			Disk:   dataCols[col],
			Offset: s*b + (pos % b),
			Length: runEnd - pos,
		})
		pos = runEnd
	}
	return spans, nil
}
