package latex

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGen mints node identities. Identities must be unique within one AST
// generation (one parse, or one chain of zipper edits sharing a
// generator); there is no continuity requirement across full re-parses.
// The generator is threaded explicitly through construction so parses are
// reproducible without process-global state.
type IDGen interface {
	Next() string
}

// SeqGen mints identities from a monotonic counter with a fixed prefix.
// It is the default generator: cheap, and reproducible in tests.
// Safe for concurrent use.
type SeqGen struct {
	prefix string
	n      atomic.Int64
}

// NewSeqGen creates a sequential generator. Identities look like
// "<prefix>1", "<prefix>2", ...
func NewSeqGen(prefix string) *SeqGen {
	return &SeqGen{prefix: prefix}
}

// Next returns the next identity.
func (g *SeqGen) Next() string {
	return g.prefix + strconv.FormatInt(g.n.Add(1), 10)
}

// UUIDGen mints RFC 4122 v4 identities, for consumers that correlate
// nodes across process boundaries (e.g. a renderer keyed by node id).
type UUIDGen struct{}

// Next returns a fresh random UUID string.
func (UUIDGen) Next() string { return uuid.NewString() }
