package reportcache

import (
	"context"
	"errors"
	"time"

	"github.com/compsherpa/compsherpa/internal/types"
)

// ErrEmptyUserID is returned when a cache is used without a user id.
var ErrEmptyUserID = errors.New("user id is required")

// Entry is the last report generated for a user.
type Entry struct {
	Fingerprint string        `json:"fingerprint"`
	Report      *types.Report `json:"report"`
	IsExploring bool          `json:"isExploring"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// Cache is a last-write-wins store of one Entry per user id.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the entry for userID. A miss is (nil, false, nil).
	Get(ctx context.Context, userID string) (*Entry, bool, error)
	// Put replaces the entry for userID.
	Put(ctx context.Context, userID string, entry *Entry) error
	// Ping checks the backing store.
	Ping(ctx context.Context) error
}

func cloneEntry(e *Entry) *Entry {
	if e == nil {
		return nil
	}
	out := *e
	out.Report = e.Report.Clone()
	return &out
}
