// Package raid implements the RAID6 controller: the orchestration layer
// that ties configuration, stripe geometry, the disk array, parity kernels,
// and the allocator together into save/load/delete/modify and the
// probe/recover failure-handling cycle.
package raid

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Anthya1104/raid6store/internal/alloc"
	"github.com/Anthya1104/raid6store/internal/config"
	"github.com/Anthya1104/raid6store/internal/disk"
	"github.com/Anthya1104/raid6store/internal/geometry"
	"github.com/Anthya1104/raid6store/internal/parity"
)

// Controller owns the disk array, the allocator, and the stripe geometry
// for one configured array, and is the single entry point for file
// operations and failure handling.
type Controller struct {
	cfg    config.Config
	layout geometry.Layout
	disks  []*disk.Disk
	alloc  *alloc.Allocator

	// needsRecovery[i] is set when ProbeDisks rebuilds disk i after a newly
	// detected failure: the disk reports healthy again (it is a fresh,
	// zero-filled container) but its stripe content still needs
	// reconstructing from survivors. Cleared once RecoverDisks has rebuilt
	// every stripe without hitting an unrecoverable one.
	needsRecovery []bool
}

// New opens (creating if necessary) the W disk containers named disk0..diskW-1
// under cfg.DataPath and constructs a Controller over them. cfg is checked
// with config.Config.Validate first; an invalid cfg yields ErrConfigInvalid.
func New(cfg config.Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(ErrConfigInvalid, err.Error())
	}

	if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
		return nil, errors.Wrapf(err, "raid: create data path %s", cfg.DataPath)
	}

	layout := geometry.Layout{DataDisks: cfg.DataDisks, BlockSize: cfg.BlockSize}
	width := layout.Width()

	disks := make([]*disk.Disk, width)
	for i := 0; i < width; i++ {
		path := diskPath(cfg.DataPath, i)
		d, err := disk.Open(path, cfg.DiskSize)
		if err != nil {
			return nil, errors.Wrapf(err, "raid: open disk %d", i)
		}
		disks[i] = d
	}

	return &Controller{
		cfg:           cfg,
		layout:        layout,
		disks:         disks,
		alloc:         alloc.New(cfg.StripeCount(), cfg.StripeSize()),
		needsRecovery: make([]bool, width),
	}, nil
}

func diskPath(dataPath string, i int) string {
	return filepath.Join(dataPath, fmt.Sprintf("disk%d", i))
}

// translateAllocErr maps the allocator's sentinels onto this package's own,
// so callers that only import internal/raid can check errors.Is against a
// single set of kinds instead of reaching into internal/alloc.
func translateAllocErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, alloc.ErrUnknownFile):
		return errors.Wrap(ErrUnknownFile, err.Error())
	case errors.Is(err, alloc.ErrNoSpace):
		return errors.Wrap(ErrNoSpace, err.Error())
	case errors.Is(err, alloc.ErrFragmentation):
		return errors.Wrap(ErrFragmentation, err.Error())
	default:
		return err
	}
}

// SimulateDiskFailure marks disk idx failed without touching its bytes,
// for exercising ProbeDisks/RecoverDisks in tests. ProbeDisks treats this
// exactly like a real I/O-detected failure.
func (c *Controller) SimulateDiskFailure(idx int) {
	c.disks[idx].SetFailed(true)
}

// Close releases every disk's backing file.
func (c *Controller) Close() error {
	var firstErr error
	for _, d := range c.disks {
		if err := d.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Save reserves stripe space for name, writes data's bytes to the data
// disks, and recomputes P and Q for every stripe touched.
func (c *Controller) Save(name string, data []byte) error {
	placements, err := c.alloc.Allocate(name, len(data))
	if err != nil {
		return translateAllocErr(err)
	}

	touched := make(map[int]struct{})
	pos := 0
	for _, p := range placements {
		for _, r := range p.Reservations {
			spans, err := c.layout.DecomposeSpan(p.Stripe, r.Offset, r.Length)
			if err != nil {
				return errors.Wrapf(ErrBounds, "raid: save decompose span: %v", err)
			}
			if err := c.writeSpans(spans, data[pos:pos+r.Length]); err != nil {
				return err
			}
			pos += r.Length
			touched[p.Stripe] = struct{}{}
		}
	}

	for s := range touched {
		if err := c.recomputeParity(s); err != nil {
			return errors.Wrapf(err, "raid: save recompute parity for stripe %d", s)
		}
	}

	logrus.WithFields(logrus.Fields{"file": name, "bytes": len(data), "stripes": len(touched)}).Debug("raid: save complete")
	return nil
}

// Load reads name's full contents back in placement order. If verify is
// true, every touched stripe is parity-checked before its data is read.
func (c *Controller) Load(name string, verify bool) ([]byte, error) {
	placements, err := c.alloc.Placements(name)
	if err != nil {
		return nil, translateAllocErr(err)
	}

	total := 0
	for _, p := range placements {
		for _, r := range p.Reservations {
			total += r.Length
		}
	}

	out := make([]byte, 0, total)
	verified := make(map[int]bool)
	for _, p := range placements {
		if verify && !verified[p.Stripe] {
			if err := c.VerifyStripe(p.Stripe); err != nil {
				return nil, errors.Wrapf(err, "raid: load %q", name)
			}
			verified[p.Stripe] = true
		}
		for _, r := range p.Reservations {
			spans, err := c.layout.DecomposeSpan(p.Stripe, r.Offset, r.Length)
			if err != nil {
				return nil, errors.Wrapf(ErrBounds, "raid: load decompose span: %v", err)
			}
			for _, sp := range spans {
				b, err := c.disks[sp.Disk].Read(int64(sp.Offset), sp.Length)
				if err != nil {
					return nil, errors.Wrapf(ErrIO, "raid: load %q: %v", name, err)
				}
				out = append(out, b...)
			}
		}
	}
	return out, nil
}

// StripesFor returns the distinct stripe indices name currently occupies,
// in placement order, for callers (such as tests) that need to
// reason about physical layout without reaching into the allocator.
func (c *Controller) StripesFor(name string) ([]int, error) {
	placements, err := c.alloc.Placements(name)
	if err != nil {
		return nil, translateAllocErr(err)
	}
	seen := make(map[int]struct{}, len(placements))
	var stripes []int
	for _, p := range placements {
		if _, ok := seen[p.Stripe]; ok {
			continue
		}
		seen[p.Stripe] = struct{}{}
		stripes = append(stripes, p.Stripe)
	}
	return stripes, nil
}

// ParityDisks returns the P and Q disk indices for stripe s, for callers
// that need to reason about physical layout without importing
// internal/geometry directly.
func (c *Controller) ParityDisks(s int) (p, q int) {
	p, q, _ = c.layout.ParityIndices(s)
	return p, q
}

// DataDisks returns stripe s's data-column disk indices, in column order.
func (c *Controller) DataDisks(s int) []int {
	_, _, dataCols := c.layout.ParityIndices(s)
	return dataCols
}

// Delete frees name's placement. No disk I/O is performed; parity over the
// orphaned bytes remains valid until a later save reclaims the space.
func (c *Controller) Delete(name string) error {
	return translateAllocErr(c.alloc.Deallocate(name))
}

// Modify overwrites name's bytes with newData: in-place where the existing
// placement suffices, truncating the tail if newData is shorter or
// appending fresh stripes if it is longer. Every stripe that receives a
// data write gets P and Q recomputed afterward.
func (c *Controller) Modify(name string, newData []byte) error {
	placements, err := c.alloc.Placements(name)
	if err != nil {
		return translateAllocErr(err)
	}

	total := 0
	for _, p := range placements {
		for _, r := range p.Reservations {
			total += r.Length
		}
	}

	overwriteLen := total
	if len(newData) < overwriteLen {
		overwriteLen = len(newData)
	}

	touched := make(map[int]struct{})
	pos := 0
	for _, p := range placements {
		for _, r := range p.Reservations {
			if pos >= overwriteLen {
				break
			}
			writeLen := r.Length
			if pos+writeLen > overwriteLen {
				writeLen = overwriteLen - pos
			}
			spans, err := c.layout.DecomposeSpan(p.Stripe, r.Offset, writeLen)
			if err != nil {
				return errors.Wrapf(ErrBounds, "raid: modify decompose span: %v", err)
			}
			if err := c.writeSpans(spans, newData[pos:pos+writeLen]); err != nil {
				return err
			}
			touched[p.Stripe] = struct{}{}
			pos += writeLen
		}
	}

	switch {
	case len(newData) < total:
		if err := c.alloc.Truncate(name, len(newData)); err != nil {
			return translateAllocErr(err)
		}
	case len(newData) > total:
		extra := len(newData) - total
		added, err := c.alloc.Append(name, extra)
		if err != nil {
			return translateAllocErr(err)
		}
		epos := total
		for _, p := range added {
			for _, r := range p.Reservations {
				spans, err := c.layout.DecomposeSpan(p.Stripe, r.Offset, r.Length)
				if err != nil {
					return errors.Wrapf(ErrBounds, "raid: modify decompose appended span: %v", err)
				}
				if err := c.writeSpans(spans, newData[epos:epos+r.Length]); err != nil {
					return err
				}
				touched[p.Stripe] = struct{}{}
				epos += r.Length
			}
		}
	}

	for s := range touched {
		if err := c.recomputeParity(s); err != nil {
			return errors.Wrapf(err, "raid: modify recompute parity for stripe %d", s)
		}
	}
	return nil
}

func (c *Controller) writeSpans(spans []geometry.Span, data []byte) error {
	pos := 0
	for _, sp := range spans {
		if err := c.disks[sp.Disk].Write(int64(sp.Offset), data[pos:pos+sp.Length]); err != nil {
			return errors.Wrapf(ErrIO, "raid: write disk %d: %v", sp.Disk, err)
		}
		pos += sp.Length
	}
	return nil
}

// readDataColumns reads every data column of stripe s, in column-index order.
func (c *Controller) readDataColumns(s int) ([][]byte, error) {
	_, _, dataCols := c.layout.ParityIndices(s)
	blocks := make([][]byte, len(dataCols))
	for j, d := range dataCols {
		b, err := c.disks[d].Read(int64(s)*int64(c.cfg.BlockSize), c.cfg.BlockSize)
		if err != nil {
			return nil, errors.Wrapf(ErrIO, "raid: read data column %d of stripe %d: %v", j, s, err)
		}
		blocks[j] = b
	}
	return blocks, nil
}

// recomputeParity reads every data column of stripe s and rewrites both P
// and Q from it.
func (c *Controller) recomputeParity(s int) error {
	blocks, err := c.readDataColumns(s)
	if err != nil {
		return err
	}
	return c.writeParityFromBlocks(s, blocks)
}

func (c *Controller) writeParityFromBlocks(s int, blocks [][]byte) error {
	p, q, _ := c.layout.ParityIndices(s)
	cols := make([]int, len(blocks))
	for i := range cols {
		cols[i] = i
	}

	pBlock := parity.ComputeP(blocks)
	qBlock := parity.ComputeQ(blocks, cols)

	off := int64(s) * int64(c.cfg.BlockSize)
	if err := c.disks[p].Write(off, pBlock); err != nil {
		return errors.Wrapf(ErrIO, "raid: write P for stripe %d: %v", s, err)
	}
	if err := c.disks[q].Write(off, qBlock); err != nil {
		return errors.Wrapf(ErrIO, "raid: write Q for stripe %d: %v", s, err)
	}
	return nil
}

// VerifyStripe recomputes P and Q from stripe s's data columns and compares
// them against the stored values, returning ErrParityMismatch on any
// disagreement. It cannot identify which side is wrong, only that a
// mismatch exists.
func (c *Controller) VerifyStripe(s int) error {
	blocks, err := c.readDataColumns(s)
	if err != nil {
		return err
	}

	p, q, _ := c.layout.ParityIndices(s)
	off := int64(s) * int64(c.cfg.BlockSize)
	storedP, err := c.disks[p].Read(off, c.cfg.BlockSize)
	if err != nil {
		return errors.Wrapf(ErrIO, "raid: read stored P for stripe %d: %v", s, err)
	}
	storedQ, err := c.disks[q].Read(off, c.cfg.BlockSize)
	if err != nil {
		return errors.Wrapf(ErrIO, "raid: read stored Q for stripe %d: %v", s, err)
	}

	cols := make([]int, len(blocks))
	for i := range cols {
		cols[i] = i
	}
	computedP := parity.ComputeP(blocks)
	computedQ := parity.ComputeQ(blocks, cols)

	if !bytesEqual(storedP, computedP) || !bytesEqual(storedQ, computedQ) {
		return errors.Wrapf(ErrParityMismatch, "stripe %d", s)
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ProbeDisks polls every disk's liveness. A disk that transitions from good
// to failed has its container rebuilt fresh (zero-filled) immediately, and
// is flagged for content reconstruction by RecoverDisks.
func (c *Controller) ProbeDisks() error {
	for i, d := range c.disks {
		healthy := d.Probe()
		if healthy {
			continue
		}
		if c.needsRecovery[i] {
			continue // already rebuilt, awaiting RecoverDisks
		}
		logrus.WithField("disk", i).Warn("raid: disk failure detected, rebuilding container")
		if err := d.Rebuild(diskPath(c.cfg.DataPath, i)); err != nil {
			return errors.Wrapf(err, "raid: rebuild disk %d", i)
		}
		c.needsRecovery[i] = true
	}
	return nil
}

// stripeClassification is one stripe's failure pattern relative to the set
// of disks currently needing recovery.
type stripeClassification struct {
	stripe       int
	missingCols  []int // column indices (within the stripe's data-space) that are down
	pFailed      bool
	qFailed      bool
	pDisk, qDisk int
	dataCols     []int
}

func (c *Controller) classifyStripe(s int, failed []bool) stripeClassification {
	p, q, dataCols := c.layout.ParityIndices(s)
	cl := stripeClassification{stripe: s, pDisk: p, qDisk: q, dataCols: dataCols}
	cl.pFailed = failed[p]
	cl.qFailed = failed[q]
	for j, d := range dataCols {
		if failed[d] {
			cl.missingCols = append(cl.missingCols, j)
		}
	}
	return cl
}

func (cl stripeClassification) total() int {
	n := len(cl.missingCols)
	if cl.pFailed {
		n++
	}
	if cl.qFailed {
		n++
	}
	return n
}

// RecoverDisks walks every stripe that is not entirely free, classifies its
// failure pattern against the disks flagged by ProbeDisks, and reconstructs
// lost data and/or parity according to the failure case table. Classification
// for every stripe is computed before any disk is written, so a stripe found
// CORRUPTED (three or more failed columns) aborts the whole call with
// ErrUnrecoverable and leaves every disk untouched.
func (c *Controller) RecoverDisks() error {
	anyFailed := false
	for _, f := range c.needsRecovery {
		if f {
			anyFailed = true
			break
		}
	}
	if !anyFailed {
		return nil
	}

	var classifications []stripeClassification
	for s := 0; s < c.cfg.StripeCount(); s++ {
		if c.alloc.StripeFree(s) {
			continue
		}
		cl := c.classifyStripe(s, c.needsRecovery)
		if cl.total() == 0 {
			continue
		}
		if cl.total() >= 3 {
			return errors.Wrapf(ErrUnrecoverable, "stripe %d", s)
		}
		classifications = append(classifications, cl)
	}

	for _, cl := range classifications {
		if err := c.recoverStripe(cl); err != nil {
			return errors.Wrapf(err, "raid: recover stripe %d", cl.stripe)
		}
	}

	for i := range c.needsRecovery {
		c.needsRecovery[i] = false
	}
	logrus.WithField("stripes_recovered", len(classifications)).Info("raid: recovery complete")
	return nil
}

func (c *Controller) recoverStripe(cl stripeClassification) error {
	switch {
	case len(cl.missingCols) == 0 && cl.pFailed && !cl.qFailed:
		return c.recoverParityOnly(cl, true, false)
	case len(cl.missingCols) == 0 && !cl.pFailed && cl.qFailed:
		return c.recoverParityOnly(cl, false, true)
	case len(cl.missingCols) == 0 && cl.pFailed && cl.qFailed:
		return c.recoverParityOnly(cl, true, true)
	case len(cl.missingCols) == 1 && !cl.pFailed && !cl.qFailed:
		return c.recoverSingleFromP(cl)
	case len(cl.missingCols) == 1 && cl.pFailed && !cl.qFailed:
		return c.recoverSingleFromQThenP(cl)
	case len(cl.missingCols) == 1 && !cl.pFailed && cl.qFailed:
		return c.recoverSingleFromPThenQ(cl)
	case len(cl.missingCols) == 2 && !cl.pFailed && !cl.qFailed:
		return c.recoverTwoData(cl)
	}
	// total() < 3 and none of the above matched only for the all-good case,
	// already filtered out by total()==0 above.
	return nil
}

func (c *Controller) readSurvivorBlocks(cl stripeClassification) (blocks [][]byte, cols []int, err error) {
	missing := make(map[int]bool, len(cl.missingCols))
	for _, j := range cl.missingCols {
		missing[j] = true
	}
	for j, d := range cl.dataCols {
		if missing[j] {
			continue
		}
		b, err := c.disks[d].Read(int64(cl.stripe)*int64(c.cfg.BlockSize), c.cfg.BlockSize)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrIO, "raid: read survivor column %d of stripe %d: %v", j, cl.stripe, err)
		}
		blocks = append(blocks, b)
		cols = append(cols, j)
	}
	return blocks, cols, nil
}

func (c *Controller) readStoredP(cl stripeClassification) ([]byte, error) {
	off := int64(cl.stripe) * int64(c.cfg.BlockSize)
	b, err := c.disks[cl.pDisk].Read(off, c.cfg.BlockSize)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "raid: read stored P for stripe %d: %v", cl.stripe, err)
	}
	return b, nil
}

func (c *Controller) readStoredQ(cl stripeClassification) ([]byte, error) {
	off := int64(cl.stripe) * int64(c.cfg.BlockSize)
	b, err := c.disks[cl.qDisk].Read(off, c.cfg.BlockSize)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "raid: read stored Q for stripe %d: %v", cl.stripe, err)
	}
	return b, nil
}

// recoverParityOnly handles the P_only/Q_only/PQ cases: data is intact,
// only parity needs recomputing onto the rebuilt disk(s).
func (c *Controller) recoverParityOnly(cl stripeClassification, fixP, fixQ bool) error {
	blocks, err := c.readDataColumns(cl.stripe)
	if err != nil {
		return err
	}
	cols := make([]int, len(blocks))
	for i := range cols {
		cols[i] = i
	}
	off := int64(cl.stripe) * int64(c.cfg.BlockSize)
	if fixP {
		p := parity.ComputeP(blocks)
		if err := c.disks[cl.pDisk].Write(off, p); err != nil {
			return errors.Wrapf(ErrIO, "raid: write P for stripe %d: %v", cl.stripe, err)
		}
	}
	if fixQ {
		q := parity.ComputeQ(blocks, cols)
		if err := c.disks[cl.qDisk].Write(off, q); err != nil {
			return errors.Wrapf(ErrIO, "raid: write Q for stripe %d: %v", cl.stripe, err)
		}
	}
	return nil
}

// recoverSingleFromP is the D_only case: P and Q are intact, one data
// column is missing. No parity rewrite is needed — it is already
// consistent with the restored data.
func (c *Controller) recoverSingleFromP(cl stripeClassification) error {
	survivors, cols, err := c.readSurvivorBlocks(cl)
	if err != nil {
		return err
	}
	storedP, err := c.readStoredP(cl)
	if err != nil {
		return err
	}
	m := cl.missingCols[0]
	// RecoverSingleFromP is weight-free; column identity of survivors does
	// not matter for it, only that exactly one is missing.
	_ = cols
	d := parity.RecoverSingleFromP(storedP, survivors)
	return c.writeRecoveredColumn(cl, m, d)
}

// recoverSingleFromQThenP is the D_P case: P is down, so the missing data
// column must be recovered via Q, then P is recomputed from the full
// (restored) data set and written to the rebuilt P disk.
func (c *Controller) recoverSingleFromQThenP(cl stripeClassification) error {
	survivors, cols, err := c.readSurvivorBlocks(cl)
	if err != nil {
		return err
	}
	storedQ, err := c.readStoredQ(cl)
	if err != nil {
		return err
	}
	m := cl.missingCols[0]
	d := parity.RecoverSingleFromQ(storedQ, survivors, cols, m)
	if err := c.writeRecoveredColumn(cl, m, d); err != nil {
		return err
	}

	full, err := c.readDataColumns(cl.stripe)
	if err != nil {
		return err
	}
	p := parity.ComputeP(full)
	off := int64(cl.stripe) * int64(c.cfg.BlockSize)
	if err := c.disks[cl.pDisk].Write(off, p); err != nil {
		return errors.Wrapf(ErrIO, "raid: write recovered P for stripe %d: %v", cl.stripe, err)
	}
	return nil
}

// recoverSingleFromPThenQ is the D_Q case: Q is down, so the missing data
// column is recovered via P, then Q is recomputed and written to the
// rebuilt Q disk.
func (c *Controller) recoverSingleFromPThenQ(cl stripeClassification) error {
	survivors, _, err := c.readSurvivorBlocks(cl)
	if err != nil {
		return err
	}
	storedP, err := c.readStoredP(cl)
	if err != nil {
		return err
	}
	m := cl.missingCols[0]
	d := parity.RecoverSingleFromP(storedP, survivors)
	if err := c.writeRecoveredColumn(cl, m, d); err != nil {
		return err
	}

	full, err := c.readDataColumns(cl.stripe)
	if err != nil {
		return err
	}
	cols := make([]int, len(full))
	for i := range cols {
		cols[i] = i
	}
	q := parity.ComputeQ(full, cols)
	off := int64(cl.stripe) * int64(c.cfg.BlockSize)
	if err := c.disks[cl.qDisk].Write(off, q); err != nil {
		return errors.Wrapf(ErrIO, "raid: write recovered Q for stripe %d: %v", cl.stripe, err)
	}
	return nil
}

// recoverTwoData is the DD case: two data columns are missing, P and Q are
// both intact. No parity rewrite is needed.
func (c *Controller) recoverTwoData(cl stripeClassification) error {
	survivors, cols, err := c.readSurvivorBlocks(cl)
	if err != nil {
		return err
	}
	storedP, err := c.readStoredP(cl)
	if err != nil {
		return err
	}
	storedQ, err := c.readStoredQ(cl)
	if err != nil {
		return err
	}

	x, y := cl.missingCols[0], cl.missingCols[1]
	dx, dy := parity.RecoverTwo(storedP, storedQ, survivors, cols, x, y)
	if err := c.writeRecoveredColumn(cl, x, dx); err != nil {
		return err
	}
	return c.writeRecoveredColumn(cl, y, dy)
}

func (c *Controller) writeRecoveredColumn(cl stripeClassification, col int, data []byte) error {
	diskIdx := cl.dataCols[col]
	off := int64(cl.stripe) * int64(c.cfg.BlockSize)
	if err := c.disks[diskIdx].Write(off, data); err != nil {
		return errors.Wrapf(ErrIO, "raid: write recovered column %d of stripe %d: %v", col, cl.stripe, err)
	}
	return nil
}

// Stats is a read-only snapshot of the array's free space and liveness,
// exposed for the status CLI command and for tests.
type Stats struct {
	LeftSize      int
	DiskHealthy   []bool
	NeedsRecovery []bool
	Files         map[string]int
}

// Stats reports current free space, per-disk liveness, and the byte length
// of every currently-saved file.
func (c *Controller) Stats() Stats {
	healthy := make([]bool, len(c.disks))
	needsRecovery := make([]bool, len(c.needsRecovery))
	for i, d := range c.disks {
		healthy[i] = !d.Failed()
		needsRecovery[i] = c.needsRecovery[i]
	}
	return Stats{
		LeftSize:      c.alloc.LeftSize(),
		DiskHealthy:   healthy,
		NeedsRecovery: needsRecovery,
		Files:         c.fileLengths(),
	}
}

func (c *Controller) fileLengths() map[string]int {
	lengths := make(map[string]int)
	for _, name := range c.alloc.FileNames() {
		placements, err := c.alloc.Placements(name)
		if err != nil {
			continue
		}
		total := 0
		for _, p := range placements {
			for _, r := range p.Reservations {
				total += r.Length
			}
		}
		lengths[name] = total
	}
	return lengths
}
