// Package parity implements the P and Q parity kernels over GF(2^8) and the
// single- and double-data recovery algebra that the RAID controller in
// internal/raid dispatches to when a stripe's failure classification calls
// for it.
package parity

import "github.com/Anthya1104/raid6store/internal/gf"

// weightTables[w] is a 256-entry lookup table for multiplying any byte by the
// fixed weight w. Building one per distinct weight and indexing it byte-wise
// over a block turns the weighted sums in ComputeQ, RecoverSingleFromQ and
// RecoverTwo into table lookups instead of per-byte gf.Mul calls — the same "precomputed multiply table
// applied to a contiguous run" idiom used by reed-solomon libraries' pure-Go
// fallback multiply (e.g. galMulSlice), just kept local to this package.
var weightTables [256][256]byte

func init() {
	for w := 0; w < 256; w++ {
		for b := 0; b < 256; b++ {
			weightTables[w][b] = gf.Mul(byte(w), byte(b))
		}
	}
}

func mulByWeight(w byte, block []byte, out []byte) {
	table := &weightTables[w]
	for i, v := range block {
		out[i] ^= table[v]
	}
}

func xorInto(dst, src []byte) {
	for i, v := range src {
		dst[i] ^= v
	}
}

// ComputeP returns the XOR sum of the given data blocks, all of which must be
// the same length (the stripe's block size B).
func ComputeP(blocks [][]byte) []byte {
	if len(blocks) == 0 {
		return nil
	}
	p := make([]byte, len(blocks[0]))
	for _, b := range blocks {
		xorInto(p, b)
	}
	return p
}

// ComputeQ returns the GF(2^8)-weighted sum of the given data blocks. cols[i]
// is the column index (0..D-1) that blocks[i] occupies within the stripe's
// data-space; the weight contributed by blocks[i] is generator^cols[i].
func ComputeQ(blocks [][]byte, cols []int) []byte {
	if len(blocks) == 0 {
		return nil
	}
	q := make([]byte, len(blocks[0]))
	for i, b := range blocks {
		w := gf.Pow(cols[i])
		mulByWeight(w, b, q)
	}
	return q
}

// RecoverSingleFromP reconstructs the one missing data block given P and all
// surviving data blocks (column index does not matter for P-based recovery:
// XOR is commutative and weight-free).
func RecoverSingleFromP(p []byte, survivors [][]byte) []byte {
	out := make([]byte, len(p))
	copy(out, p)
	for _, s := range survivors {
		xorInto(out, s)
	}
	return out
}

// RecoverSingleFromQ reconstructs the data block at missing column index m,
// given Q, the surviving blocks, and the column index of each survivor.
func RecoverSingleFromQ(q []byte, survivors [][]byte, survivorCols []int, m int) []byte {
	qPrime := make([]byte, len(q))
	copy(qPrime, q)
	for i, s := range survivors {
		w := gf.Pow(survivorCols[i])
		mulByWeight(w, s, qPrime)
	}
	gm := gf.Pow(m)
	invGm := gf.Inv(gm)
	out := make([]byte, len(q))
	for i, v := range qPrime {
		out[i] = gf.Mul(invGm, v)
	}
	return out
}

// RecoverTwo reconstructs the two data blocks missing at column indices x and
// y (x != y), given P, Q, and every other surviving data block (with its
// column index). It returns the recovered blocks in (x, y) order.
func RecoverTwo(p, q []byte, others [][]byte, otherCols []int, x, y int) (dx, dy []byte) {
	n := len(p)

	pxy := make([]byte, n)
	copy(pxy, p)
	for _, o := range others {
		xorInto(pxy, o)
	}

	qxy := make([]byte, n)
	copy(qxy, q)
	for i, o := range others {
		w := gf.Pow(otherCols[i])
		mulByWeight(w, o, qxy)
	}

	gx := gf.Pow(x)
	gy := gf.Pow(y)
	gxy := gf.Add(gx, gy) // non-zero: weights are distinct for distinct columns
	invGxy := gf.Inv(gxy)
	a := gf.Mul(gy, invGxy)

	dx = make([]byte, n)
	dy = make([]byte, n)
	for i := 0; i < n; i++ {
		dx[i] = gf.Add(gf.Mul(a, pxy[i]), gf.Mul(invGxy, qxy[i]))
		dy[i] = gf.Add(pxy[i], dx[i])
	}
	return dx, dy
}
