package raid

import "github.com/pkg/errors"

// Error kinds for the engine's operations. Every sentinel is checked with
// errors.Is and wrapped with call-site context via pkg/errors at the
// boundary that detects it.
var (
	// ErrConfigInvalid mirrors config.ErrConfigInvalid for callers that only
	// import internal/raid.
	ErrConfigInvalid = errors.New("raid: invalid configuration")

	// ErrBounds is an offset/length outside a disk's or stripe's range.
	ErrBounds = errors.New("raid: bounds error")

	// ErrNoSpace is an allocation exceeding total free bytes.
	ErrNoSpace = errors.New("raid: no space")

	// ErrFragmentation is a full-stripe chunk that cannot be satisfied by
	// the largest available remaining stripe. No defragmentation policy
	// is attempted.
	ErrFragmentation = errors.New("raid: fragmentation unhandled")

	// ErrUnknownFile is delete/load/modify on a name with no placement.
	ErrUnknownFile = errors.New("raid: unknown file")

	// ErrParityMismatch is a non-fatal verification failure during load:
	// P or Q read from disk disagrees with the recomputed value. The
	// caller may invoke ProbeDisks + RecoverDisks and retry.
	ErrParityMismatch = errors.New("raid: parity mismatch")

	// ErrUnrecoverable is fatal: three or more failed columns in one
	// stripe (data + P + Q combined).
	ErrUnrecoverable = errors.New("raid: unrecoverable")

	// ErrIO is propagated from the disk facade; the failing disk is
	// marked failed as a side effect.
	ErrIO = errors.New("raid: disk I/O error")
)
