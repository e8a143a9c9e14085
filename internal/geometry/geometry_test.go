package geometry_test

import (
	"testing"

	"github.com/Anthya1104/raid6store/internal/geometry"
	"github.com/stretchr/testify/assert"
)

// D=6, B=4, W=8: six data disks plus P and Q.
func layout() geometry.Layout {
	return geometry.Layout{DataDisks: 6, BlockSize: 4}
}

func TestWidthAndStripeSize(t *testing.T) {
	l := layout()
	assert.Equal(t, 8, l.Width())
	assert.Equal(t, 24, l.StripeSize())
}

func TestParityIndicesStripeZero(t *testing.T) {
	l := layout()
	p, q, data := l.ParityIndices(0)
	assert.Equal(t, 6, p)
	assert.Equal(t, 7, q)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, data)
}

func TestParityIndicesRotateAtWrap(t *testing.T) {
	l := layout()
	// stripe s = W - D = 2: parity wraps back around to disk 0.
	p, q, data := l.ParityIndices(2)
	assert.Equal(t, 0, p)
	assert.Equal(t, 1, q)
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7}, data)
}

func TestParityIndicesNeverCollide(t *testing.T) {
	l := layout()
	for s := 0; s < 100; s++ {
		p, q, data := l.ParityIndices(s)
		assert.NotEqual(t, p, q)
		seen := map[int]bool{p: true, q: true}
		for _, d := range data {
			assert.False(t, seen[d], "disk %d appears twice in stripe %d layout", d, s)
			seen[d] = true
		}
		assert.Equal(t, l.Width(), len(seen))
	}
}

func TestLocate(t *testing.T) {
	l := layout()
	disk, off, err := l.Locate(0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, disk)
	assert.Equal(t, 0, off)

	disk, off, err = l.Locate(0, 5)
	assert.NoError(t, err)
	assert.Equal(t, 1, disk) // column 1 (byte 5 / block size 4 == col 1)
	assert.Equal(t, 1, off)  // 5 % 4 == 1

	disk, off, err = l.Locate(3, 23) // last byte of stripe 3
	assert.NoError(t, err)
	assert.Equal(t, 7, disk) // stripe 3: P=1, Q=2, data columns [0,3,4,5,6,7]
	assert.Equal(t, 3*4+3, off)
}

func TestLocateOutOfBounds(t *testing.T) {
	l := layout()
	_, _, err := l.Locate(0, 24)
	assert.Error(t, err)
	_, _, err = l.Locate(0, -1)
	assert.Error(t, err)
}

func TestDecomposeSpanWithinOneColumn(t *testing.T) {
	l := layout()
	spans, err := l.DecomposeSpan(0, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, []geometry.Span{{Disk: 0, Offset: 1, Length: 2}}, spans)
}

func TestDecomposeSpanAcrossColumns(t *testing.T) {
	l := layout()
	spans, err := l.DecomposeSpan(0, 2, 6)
	assert.NoError(t, err)
	// bytes [2,8): 2 bytes finishing column 0 (offsets 2,3), then 4 bytes of column 1 (disk 1, disk offsets 0..3 since stripe 0 starts at offset 0).
	assert.Equal(t, []geometry.Span{
		{Disk: 0, Offset: 2, Length: 2},
		{Disk: 1, Offset: 0, Length: 4},
	}, spans)
}

func TestDecomposeSpanFullStripe(t *testing.T) {
	l := layout()
	spans, err := l.DecomposeSpan(0, 0, 24)
	assert.NoError(t, err)
	assert.Equal(t, 6, len(spans))
	for i, sp := range spans {
		assert.Equal(t, i, sp.Disk)
		assert.Equal(t, 0, sp.Offset)
		assert.Equal(t, 4, sp.Length)
	}
}

func TestDecomposeSpanZeroLength(t *testing.T) {
	l := layout()
	spans, err := l.DecomposeSpan(0, 5, 0)
	assert.NoError(t, err)
	assert.Nil(t, spans)
}

func TestDecomposeSpanOutOfBounds(t *testing.T) {
	l := layout()
	_, err := l.DecomposeSpan(0, 20, 10)
	assert.Error(t, err)
}
