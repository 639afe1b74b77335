package histlog

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"go.klb.dev/clipjar/internal/entry"
)

var (
	badgerEntryPrefix = []byte("entry/")
	badgerSeqKey      = []byte("meta/seq")
)

// Badger keeps history in a Badger directory. Keys are entry/<big-endian
// sequence> so key order is append order; values are encoded records in the
// same line format as the file backend.
type Badger struct {
	dir string

	mu  sync.Mutex
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadger returns a Badger log rooted at dir. Call Initialize before use.
func NewBadger(dir string) *Badger {
	return &Badger{dir: dir}
}

func (b *Badger) Path() string { return b.dir }

func (b *Badger) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db != nil {
		return nil
	}

	if err := os.MkdirAll(b.dir, 0o700); err != nil {
		return fmt.Errorf("histlog: create %s: %w", b.dir, err)
	}
	opts := badger.DefaultOptions(b.dir).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("histlog: open badger: %w", err)
	}
	seq, err := db.GetSequence(badgerSeqKey, 64)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("histlog: badger sequence: %w", err)
	}
	b.db = db
	b.seq = seq
	return nil
}

func (b *Badger) Append(e entry.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return errNotInitialized
	}

	n, err := b.seq.Next()
	if err != nil {
		return fmt.Errorf("histlog: next sequence: %w", err)
	}
	key := badgerKey(n)
	val := []byte(Exact.Encode(e))
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	}); err != nil {
		return fmt.Errorf("histlog: badger set: %w", err)
	}
	return nil
}

func (b *Badger) Load(limit int) ([]entry.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil, errNotInitialized
	}

	var out []entry.Entry
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = badgerEntryPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the largest key <= seek key.
		seek := append(append([]byte{}, badgerEntryPrefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(badgerEntryPrefix); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			if e, ok := Exact.Decode(string(val)); ok {
				out = append(out, e)
				if limit > 0 && len(out) >= limit {
					return nil
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("histlog: badger load: %w", err)
	}
	return out, nil
}

func (b *Badger) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return errNotInitialized
	}
	if err := b.db.DropPrefix(badgerEntryPrefix); err != nil {
		return fmt.Errorf("histlog: badger clear: %w", err)
	}
	return nil
}

func (b *Badger) Count() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return 0, errNotInitialized
	}

	n := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = badgerEntryPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("histlog: badger count: %w", err)
	}
	return n, nil
}

func (b *Badger) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	if err := b.seq.Release(); err != nil {
		_ = b.db.Close()
		b.db = nil
		return fmt.Errorf("histlog: release sequence: %w", err)
	}
	err := b.db.Close()
	b.db = nil
	return err
}

func badgerKey(n uint64) []byte {
	key := make([]byte, len(badgerEntryPrefix)+8)
	copy(key, badgerEntryPrefix)
	binary.BigEndian.PutUint64(key[len(badgerEntryPrefix):], n)
	return key
}
