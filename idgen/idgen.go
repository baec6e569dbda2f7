// Package idgen generates IDs for events, transitions and trace tasks.
package idgen

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// Generator can generate IDs.
type Generator interface {
	// Generate an ID
	Generate() string
}

// NewSequential returns a generator whose first emitted ID is "1". IDs are
// deterministic, which keeps scenario replays and traces reproducible.
func NewSequential() Generator {
	return &sequentialGenerator{}
}

// NewUnique returns a generator backed by xid. IDs are globally unique but not
// deterministic.
func NewUnique() Generator {
	return uniqueGenerator{}
}

var (
	defaultLock      sync.Mutex
	defaultGenerator Generator
)

// Default returns the process-wide generator. It is sequential unless
// UseUnique was called before the first use.
func Default() Generator {
	defaultLock.Lock()
	defer defaultLock.Unlock()

	if defaultGenerator == nil {
		defaultGenerator = NewSequential()
	}

	return defaultGenerator
}

// UseUnique switches the process-wide generator to xid-based IDs. It panics if
// the default generator has already handed out IDs of another kind.
func UseUnique() {
	defaultLock.Lock()
	defer defaultLock.Unlock()

	if defaultGenerator != nil {
		if _, ok := defaultGenerator.(uniqueGenerator); ok {
			return
		}

		panic("idgen: cannot change id generator type after using it")
	}

	defaultGenerator = NewUnique()
}

// Generate is a shortcut for Default().Generate().
func Generate() string {
	return Default().Generate()
}

type sequentialGenerator struct {
	nextID uint64
}

func (g *sequentialGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(idNumber, 10)
}

type uniqueGenerator struct{}

func (uniqueGenerator) Generate() string {
	return xid.New().String()
}
