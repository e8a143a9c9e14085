package parity_test

import (
	"testing"

	"github.com/Anthya1104/raid6store/internal/parity"
	"github.com/stretchr/testify/assert"
)

func sampleBlocks() [][]byte {
	return [][]byte{
		[]byte("AAAA"),
		[]byte("BBBB"),
		[]byte("CCCC"),
		[]byte("DDDD"),
		[]byte("EEEE"),
		[]byte("FFFF"),
	}
}

func colsFor(n int) []int {
	cols := make([]int, n)
	for i := range cols {
		cols[i] = i
	}
	return cols
}

func TestComputePAndQLength(t *testing.T) {
	blocks := sampleBlocks()
	p := parity.ComputeP(blocks)
	q := parity.ComputeQ(blocks, colsFor(len(blocks)))
	assert.Equal(t, 4, len(p))
	assert.Equal(t, 4, len(q))
}

func TestRecoverSingleFromP(t *testing.T) {
	blocks := sampleBlocks()
	p := parity.ComputeP(blocks)

	missingIdx := 2
	survivors := append(append([][]byte{}, blocks[:missingIdx]...), blocks[missingIdx+1:]...)

	recovered := parity.RecoverSingleFromP(p, survivors)
	assert.Equal(t, blocks[missingIdx], recovered)
}

func TestRecoverSingleFromQ(t *testing.T) {
	blocks := sampleBlocks()
	cols := colsFor(len(blocks))
	q := parity.ComputeQ(blocks, cols)

	missing := 3
	var survivors [][]byte
	var survivorCols []int
	for i, b := range blocks {
		if i == missing {
			continue
		}
		survivors = append(survivors, b)
		survivorCols = append(survivorCols, cols[i])
	}

	recovered := parity.RecoverSingleFromQ(q, survivors, survivorCols, missing)
	assert.Equal(t, blocks[missing], recovered)
}

func TestRecoverTwo(t *testing.T) {
	blocks := sampleBlocks()
	cols := colsFor(len(blocks))
	p := parity.ComputeP(blocks)
	q := parity.ComputeQ(blocks, cols)

	x, y := 1, 4
	var others [][]byte
	var otherCols []int
	for i, b := range blocks {
		if i == x || i == y {
			continue
		}
		others = append(others, b)
		otherCols = append(otherCols, cols[i])
	}

	dx, dy := parity.RecoverTwo(p, q, others, otherCols, x, y)
	assert.Equal(t, blocks[x], dx)
	assert.Equal(t, blocks[y], dy)
}

func TestRecoverTwoAllPairs(t *testing.T) {
	blocks := sampleBlocks()
	cols := colsFor(len(blocks))
	p := parity.ComputeP(blocks)
	q := parity.ComputeQ(blocks, cols)

	for x := 0; x < len(blocks); x++ {
		for y := x + 1; y < len(blocks); y++ {
			var others [][]byte
			var otherCols []int
			for i, b := range blocks {
				if i == x || i == y {
					continue
				}
				others = append(others, b)
				otherCols = append(otherCols, cols[i])
			}
			dx, dy := parity.RecoverTwo(p, q, others, otherCols, x, y)
			assert.Equal(t, blocks[x], dx, "x=%d y=%d", x, y)
			assert.Equal(t, blocks[y], dy, "x=%d y=%d", x, y)
		}
	}
}

func TestComputePEmptyBlocks(t *testing.T) {
	assert.Nil(t, parity.ComputeP(nil))
}
