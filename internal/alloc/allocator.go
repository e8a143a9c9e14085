// Package alloc implements the fragment-aware free-space allocator over a
// fixed grid of stripes: a per-stripe free-list tracking which byte ranges
// belong to which file, and a free-size index used to pick placement
// stripes quickly.
package alloc

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrNoSpace is returned when a request exceeds total free bytes.
var ErrNoSpace = errors.New("alloc: not enough free space")

// ErrFragmentation is returned when a full-stripe chunk cannot be satisfied
// by the single largest available remaining stripe, even though enough
// free bytes exist in aggregate. No defragmentation policy is attempted;
// the condition is surfaced to the caller instead.
var ErrFragmentation = errors.New("alloc: fragmentation prevents a full-stripe allocation")

// ErrUnknownFile is returned by Deallocate for a name with no placement.
var ErrUnknownFile = errors.New("alloc: unknown file")

// Entry is one free-list record: a byte range [Offset, Offset+Length) within
// a stripe's data-space, owned either by a file name or free (Owner == "").
type Entry struct {
	Offset int
	Length int
	Owner  string
}

// Reservation is one (offset, length) range a file occupies within a single
// stripe.
type Reservation struct {
	Offset int
	Length int
}

// Placement is the full set of reservations a file occupies in one stripe.
type Placement struct {
	Stripe       int
	Reservations []Reservation
}

// Allocator owns the per-stripe free-lists, the free-size index, and the
// file->stripe placement map for a fixed grid of K stripes, each with Z
// usable bytes.
type Allocator struct {
	stripeSize int
	freeLists  []*freeList     // index by stripe
	status     []statusEntry   // kept sorted ascending by remaining, linear scan + binary search (§ size: no stripe count in this design needs a heap)
	files      map[string][]Placement
	leftSize   int
}

type freeList struct {
	entries []Entry
}

type statusEntry struct {
	remaining int
	stripe    int
}

// New creates an allocator over stripeCount stripes of stripeSize usable
// bytes each, all initially free.
func New(stripeCount, stripeSize int) *Allocator {
	a := &Allocator{
		stripeSize: stripeSize,
		freeLists:  make([]*freeList, stripeCount),
		status:     make([]statusEntry, stripeCount),
		files:      make(map[string][]Placement),
		leftSize:   stripeCount * stripeSize,
	}
	for s := 0; s < stripeCount; s++ {
		a.freeLists[s] = &freeList{entries: []Entry{{Offset: 0, Length: stripeSize, Owner: ""}}}
		a.status[s] = statusEntry{remaining: stripeSize, stripe: s}
	}
	sort.Slice(a.status, func(i, j int) bool { return a.status[i].remaining < a.status[j].remaining })
	return a
}

// LeftSize returns total free bytes across all stripes.
func (a *Allocator) LeftSize() int { return a.leftSize }

// FreeList returns a copy of stripe s's free-list entries, in offset order.
func (a *Allocator) FreeList(s int) []Entry {
	out := make([]Entry, len(a.freeLists[s].entries))
	copy(out, a.freeLists[s].entries)
	return out
}

// Placements returns the file's stripe placements, or ErrUnknownFile.
func (a *Allocator) Placements(name string) ([]Placement, error) {
	p, ok := a.files[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFile, "file %q", name)
	}
	return p, nil
}

// FileNames returns every currently-placed file name, in no particular
// order.
func (a *Allocator) FileNames() []string {
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	return names
}

// StripeFree reports whether stripe s is entirely unused: a single free
// entry spanning its whole usable size.
func (a *Allocator) StripeFree(s int) bool {
	entries := a.freeLists[s].entries
	return len(entries) == 1 && entries[0].Owner == "" && entries[0].Length == a.stripeSize
}

func (a *Allocator) statusIndex(stripe int) int {
	for i, e := range a.status {
		if e.stripe == stripe {
			return i
		}
	}
	return -1
}

func (a *Allocator) reinsertStatus(stripe, remaining int) {
	idx := a.statusIndex(stripe)
	a.status = append(a.status[:idx], a.status[idx+1:]...)
	pos := sort.Search(len(a.status), func(i int) bool { return a.status[i].remaining >= remaining })
	a.status = append(a.status, statusEntry{})
	copy(a.status[pos+1:], a.status[pos:])
	a.status[pos] = statusEntry{remaining: remaining, stripe: stripe}
}

// popLargest removes and returns the status entry with the largest
// remaining free bytes; among stripes tied at that value, the lowest stripe
// index is taken.
func (a *Allocator) popLargest() statusEntry {
	last := len(a.status) - 1
	best := last
	for i := last - 1; i >= 0 && a.status[i].remaining == a.status[last].remaining; i-- {
		if a.status[i].stripe < a.status[best].stripe {
			best = i
		}
	}
	e := a.status[best]
	a.status = append(a.status[:best], a.status[best+1:]...)
	return e
}

// bestFit removes and returns the status entry with the smallest remaining
// >= need, or ok=false if none qualifies.
func (a *Allocator) bestFit(need int) (statusEntry, bool) {
	pos := sort.Search(len(a.status), func(i int) bool { return a.status[i].remaining >= need })
	if pos == len(a.status) {
		return statusEntry{}, false
	}
	e := a.status[pos]
	a.status = append(a.status[:pos], a.status[pos+1:]...)
	return e, true
}

func (a *Allocator) pushStatus(e statusEntry) {
	pos := sort.Search(len(a.status), func(i int) bool { return a.status[i].remaining >= e.remaining })
	a.status = append(a.status, statusEntry{})
	copy(a.status[pos+1:], a.status[pos:])
	a.status[pos] = e
}

// reserve walks stripe s's free-list in entry order, assigning owner to
// exactly `need` bytes, splitting the final consumed entry if it is larger
// than needed. It returns the reservations made.
func (fl *freeList) reserve(owner string, need int) []Reservation {
	var reservations []Reservation
	var newEntries []Entry

	for _, e := range fl.entries {
		if e.Owner != "" || need == 0 {
			newEntries = append(newEntries, e)
			continue
		}
		if e.Length > need {
			newEntries = append(newEntries, Entry{Offset: e.Offset, Length: need, Owner: owner})
			newEntries = append(newEntries, Entry{Offset: e.Offset + need, Length: e.Length - need, Owner: ""})
			reservations = append(reservations, Reservation{Offset: e.Offset, Length: need})
			need = 0
		} else {
			newEntries = append(newEntries, Entry{Offset: e.Offset, Length: e.Length, Owner: owner})
			reservations = append(reservations, Reservation{Offset: e.Offset, Length: e.Length})
			need -= e.Length
		}
	}
	fl.entries = newEntries
	return reservations
}

// release clears ownership of the given reservations and coalesces adjacent
// free entries. It returns the total bytes released.
func (fl *freeList) release(reservations []Reservation) int {
	released := 0
	for _, r := range reservations {
		for i := range fl.entries {
			if fl.entries[i].Offset == r.Offset && fl.entries[i].Length == r.Length {
				fl.entries[i].Owner = ""
				released += r.Length
				break
			}
		}
	}
	fl.coalesce()
	return released
}

// coalesce merges adjacent free entries in offset order.
func (fl *freeList) coalesce() {
	var merged []Entry
	for _, e := range fl.entries {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if last.Owner == "" && e.Owner == "" && last.Offset+last.Length == e.Offset {
				last.Length += e.Length
				continue
			}
		}
		merged = append(merged, e)
	}
	fl.entries = merged
}

// truncateReservation shrinks the owned entry at [offset, offset+fullLength)
// down to [offset, offset+keepLength), freeing the tail and coalescing it
// into neighboring free entries. It returns the number of bytes freed.
func (fl *freeList) truncateReservation(offset, fullLength, keepLength int) int {
	var newEntries []Entry
	freed := fullLength - keepLength

	for _, e := range fl.entries {
		if e.Offset != offset || e.Length != fullLength {
			newEntries = append(newEntries, e)
			continue
		}
		if keepLength > 0 {
			newEntries = append(newEntries, Entry{Offset: e.Offset, Length: keepLength, Owner: e.Owner})
		}
		if freed > 0 {
			newEntries = append(newEntries, Entry{Offset: e.Offset + keepLength, Length: freed, Owner: ""})
		}
	}
	fl.entries = newEntries
	fl.coalesce()
	return freed
}

// reserveBytes implements the five-step placement recipe: full
// stripe-sized chunks go to the stripe with the largest remaining free
// space, the remainder (if any) goes to the smallest stripe whose remaining
// free space still fits it. It is shared by Allocate (new file) and Append
// (existing file, grown by Modify).
func (a *Allocator) reserveBytes(owner string, length int) ([]Placement, error) {
	if length > a.leftSize {
		return nil, errors.Wrapf(ErrNoSpace, "need %d, have %d", length, a.leftSize)
	}
	if length == 0 {
		return nil, nil
	}

	fullChunks := length / a.stripeSize
	remainder := length % a.stripeSize

	// Pick stripes first, tracking the original (stripe, remaining) pairs we
	// popped out of the status index so a mid-pick failure can restore the
	// index exactly as it was before this call — no freeList is touched
	// until every stripe has been chosen, so a failure here never leaves a
	// free-list partially reserved without a matching status entry.
	var picked []statusEntry
	rollback := func() {
		for _, e := range picked {
			a.pushStatus(e)
		}
	}

	var chosenStripes []int
	for i := 0; i < fullChunks; i++ {
		largest := a.popLargest()
		if largest.remaining < a.stripeSize {
			a.pushStatus(largest)
			rollback()
			return nil, errors.Wrapf(ErrFragmentation, "need a full stripe of %d bytes, largest available is %d", a.stripeSize, largest.remaining)
		}
		picked = append(picked, largest)
		chosenStripes = append(chosenStripes, largest.stripe)
	}

	remainderStripe := -1
	if remainder > 0 {
		fit, ok := a.bestFit(remainder)
		if !ok {
			rollback()
			return nil, errors.Wrapf(ErrNoSpace, "no stripe has %d free bytes for the remainder", remainder)
		}
		picked = append(picked, fit)
		remainderStripe = fit.stripe
		chosenStripes = append(chosenStripes, fit.stripe)
	}

	// All picks succeeded: commit the new remaining values and reserve the
	// actual byte ranges.
	for _, e := range picked {
		newRemaining := e.remaining - a.stripeSize
		if e.stripe == remainderStripe {
			newRemaining = e.remaining - remainder
		}
		a.pushStatus(statusEntry{remaining: newRemaining, stripe: e.stripe})
	}

	var placements []Placement
	for _, s := range chosenStripes {
		need := a.stripeSize
		if s == remainderStripe {
			need = remainder
		}
		reservations := a.freeLists[s].reserve(owner, need)
		placements = append(placements, Placement{Stripe: s, Reservations: reservations})
	}

	a.leftSize -= length
	return placements, nil
}

// Allocate reserves L bytes across one or more stripes for a new file name
// and records the placement in the file map.
func (a *Allocator) Allocate(name string, length int) ([]Placement, error) {
	placements, err := a.reserveBytes(name, length)
	if err != nil {
		return nil, err
	}
	a.files[name] = placements
	return placements, nil
}

// Append reserves extra additional bytes for an already-placed file and
// extends its recorded placement with the new stripes. Used by Modify's
// growth path.
func (a *Allocator) Append(name string, extra int) ([]Placement, error) {
	existing, ok := a.files[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFile, "file %q", name)
	}
	added, err := a.reserveBytes(name, extra)
	if err != nil {
		return nil, err
	}
	a.files[name] = append(existing, added...)
	return added, nil
}

// Truncate shrinks the named file to newLength bytes (newLength must not
// exceed its current length), freeing the tail of its placement and
// coalescing the released ranges into their stripes' free-lists. Used by
// Modify's shrink path.
func (a *Allocator) Truncate(name string, newLength int) error {
	placements, ok := a.files[name]
	if !ok {
		return errors.Wrapf(ErrUnknownFile, "file %q", name)
	}

	total := 0
	for _, p := range placements {
		for _, r := range p.Reservations {
			total += r.Length
		}
	}
	if newLength > total {
		return errors.Errorf("alloc: truncate target %d exceeds current length %d", newLength, total)
	}
	if newLength == total {
		return nil
	}

	remaining := newLength
	var kept []Placement
	totalFreed := 0

	for _, p := range placements {
		fl := a.freeLists[p.Stripe]
		freedHere := 0
		var keptRes []Reservation

		for _, r := range p.Reservations {
			keepLen := r.Length
			if remaining <= 0 {
				keepLen = 0
			} else if r.Length > remaining {
				keepLen = remaining
			}
			remaining -= keepLen

			if keepLen < r.Length {
				freedHere += fl.truncateReservation(r.Offset, r.Length, keepLen)
			}
			if keepLen > 0 {
				keptRes = append(keptRes, Reservation{Offset: r.Offset, Length: keepLen})
			}
		}

		if freedHere > 0 {
			idx := a.statusIndex(p.Stripe)
			old := a.status[idx].remaining
			a.reinsertStatus(p.Stripe, old+freedHere)
			totalFreed += freedHere
		}
		if len(keptRes) > 0 {
			kept = append(kept, Placement{Stripe: p.Stripe, Reservations: keptRes})
		}
	}

	a.files[name] = kept
	a.leftSize += totalFreed
	return nil
}

// Deallocate frees every range the named file occupies, coalescing adjacent
// free entries and updating the free-size index.
func (a *Allocator) Deallocate(name string) error {
	placements, ok := a.files[name]
	if !ok {
		return errors.Wrapf(ErrUnknownFile, "file %q", name)
	}

	for _, p := range placements {
		fl := a.freeLists[p.Stripe]
		released := fl.release(p.Reservations)

		idx := a.statusIndex(p.Stripe)
		old := a.status[idx].remaining
		a.reinsertStatus(p.Stripe, old+released)
		a.leftSize += released
	}

	delete(a.files, name)
	return nil
}
