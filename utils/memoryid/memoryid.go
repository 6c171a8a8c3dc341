package memoryid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyOnce sync.Once
	entropy     *ulid.MonotonicEntropy
	entropyMu   sync.Mutex
)

func newEntropy() *ulid.MonotonicEntropy {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	return entropy
}

// New returns a mem_* ULID string. Every created entity (media item, comment,
// reply, guestbook message, client token) gets its id from here.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), newEntropy())
	return "mem_" + strings.ToLower(id.String())
}

// IsValid reports whether the string is a mem_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, "mem_") {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// Parse strips the mem_ prefix and returns the ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "mem_")
	value = strings.TrimPrefix(value, "MEM_")
	return ulid.Parse(value)
}
