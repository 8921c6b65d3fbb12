// Package journal records executed transactions.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	klog "github.com/liquidlink-lab/swirl-engine/internal/log"
	"github.com/liquidlink-lab/swirl-engine/internal/storage"
	"github.com/liquidlink-lab/swirl-engine/pkg/types"
)

// Key prefixes.
var (
	prefixEntry = []byte("e/") // e/<digest> -> Entry JSON
	prefixTime  = []byte("t/") // t/<unix nanos BE><digest> -> digest
)

// Journal errors.
var (
	ErrNotFound    = errors.New("journal entry not found")
	ErrEmptyDigest = errors.New("journal entry without digest")
	ErrDuplicateTx = errors.New("transaction already recorded")
)

// Entry is one executed transaction.
type Entry struct {
	Digest      string        `json:"digest"`
	Action      string        `json:"action"`
	Intent      string        `json:"intent"`
	Chain       string        `json:"chain"`
	Sender      types.Address `json:"sender"`
	Fingerprint types.Hash    `json:"fingerprint"`
	GasBudget   uint64        `json:"gasBudget,omitempty"`
	GasPrice    uint64        `json:"gasPrice,omitempty"`
	Time        time.Time     `json:"time"`
}

// Journal stores entries in a storage.DB.
type Journal struct {
	db     storage.DB
	now    func() time.Time
	logger zerolog.Logger
}

// New creates a journal over db.
func New(db storage.DB) *Journal {
	return &Journal{db: db, now: time.Now, logger: klog.Journal}
}

// Record stores e. A zero Time is set to the current time.
func (j *Journal) Record(e Entry) error {
	if e.Digest == "" {
		return ErrEmptyDigest
	}
	key := entryKey(e.Digest)
	exists, err := j.db.Has(key)
	if err != nil {
		return fmt.Errorf("check entry: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTx, e.Digest)
	}
	if e.Time.IsZero() {
		e.Time = j.now()
	}
	e.Time = e.Time.UTC()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	err = j.db.PutAll([]storage.KV{
		{Key: key, Value: data},
		{Key: timeKey(e.Time, e.Digest), Value: []byte(e.Digest)},
	})
	if err != nil {
		return fmt.Errorf("store entry: %w", err)
	}
	j.logger.Debug().Str("digest", e.Digest).Str("action", e.Action).Msg("Recorded transaction")
	return nil
}

// Get returns the entry for digest.
func (j *Journal) Get(digest string) (*Entry, error) {
	data, err := j.db.Get(entryKey(digest))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, digest)
	}
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", digest, err)
	}
	return &e, nil
}

// List returns up to limit entries, newest first. A non-positive limit
// returns all of them.
func (j *Journal) List(limit int) ([]Entry, error) {
	var digests []string
	err := j.db.ForEach(prefixTime, func(_, value []byte) error {
		digests = append(digests, string(value))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan index: %w", err)
	}

	out := make([]Entry, 0, len(digests))
	for i := len(digests) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		e, err := j.Get(digests[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

func entryKey(digest string) []byte {
	return append(append([]byte(nil), prefixEntry...), digest...)
}

func timeKey(t time.Time, digest string) []byte {
	key := make([]byte, 0, len(prefixTime)+8+len(digest))
	key = append(key, prefixTime...)
	key = binary.BigEndian.AppendUint64(key, uint64(t.UnixNano()))
	return append(key, digest...)
}
