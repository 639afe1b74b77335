package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipjar/internal/entry"
)

func contents(es []entry.Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Content
	}
	return out
}

func TestNewDefaultsCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Capacity())
	assert.Equal(t, 5, New(5).Capacity())
}

func TestAddNewestFirst(t *testing.T) {
	s := New(10)
	s.Add("first", entry.KindText)
	s.Add("second", entry.KindText)

	es := s.Entries()
	require.Len(t, es, 2)
	assert.Equal(t, "second", es[0].Content)
	assert.Equal(t, "first", es[1].Content)
}

func TestAddRejectsEmpty(t *testing.T) {
	s := New(10)
	assert.False(t, s.Add("", entry.KindText))
	assert.Equal(t, 0, s.Count())
}

func TestAddAdjacentDedupOnly(t *testing.T) {
	s := New(10)
	assert.True(t, s.Add("A", entry.KindText))
	assert.False(t, s.Add("A", entry.KindText))
	assert.Equal(t, 1, s.Count())

	// Kind is not part of the duplicate check.
	assert.False(t, s.Add("A", entry.KindFiles))
	assert.Equal(t, 1, s.Count())

	s.Add("B", entry.KindText)
	assert.True(t, s.Add("A", entry.KindText))
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []string{"A", "B", "A"}, contents(s.Entries()))
}

func TestBoundedFIFOEviction(t *testing.T) {
	s := New(3)
	for i := range 7 {
		s.Add(fmt.Sprintf("e%d", i), entry.KindText)
		assert.LessOrEqual(t, s.Count(), 3)
	}
	assert.Equal(t, []string{"e6", "e5", "e4"}, contents(s.Entries()))
}

func TestEntriesIsSnapshot(t *testing.T) {
	s := New(5)
	s.Add("a", entry.KindText)
	snap := s.Entries()
	snap[0].Content = "mutated"
	s.Add("b", entry.KindText)

	assert.Equal(t, "mutated", snap[0].Content)
	assert.Len(t, snap, 1)
	assert.Equal(t, []string{"b", "a"}, contents(s.Entries()))
}

func TestAddEntryKeepsTimestamp(t *testing.T) {
	s := New(5)
	ts := time.Unix(1700000000, 0)
	s.AddEntry(entry.Entry{Kind: entry.KindFiles, Content: "/x", CapturedAt: ts})
	e, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, ts, e.CapturedAt)
	assert.Equal(t, entry.KindFiles, e.Kind)

	_, ok = s.Get(1)
	assert.False(t, ok)
	_, ok = s.Get(-1)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	s := New(5)
	s.Add("a", entry.KindText)
	s.Add("b", entry.KindText)
	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Entries())

	// After a clear the old front no longer blocks a re-add.
	assert.True(t, s.Add("b", entry.KindText))
}

func TestSetCapacityTrimsOldest(t *testing.T) {
	s := New(5)
	for _, c := range []string{"1", "2", "3", "4", "5"} {
		s.Add(c, entry.KindText)
	}
	s.SetCapacity(2)
	assert.Equal(t, 2, s.Capacity())
	assert.Equal(t, []string{"5", "4"}, contents(s.Entries()))

	s.SetCapacity(4)
	s.Add("6", entry.KindText)
	s.Add("7", entry.KindText)
	s.Add("8", entry.KindText)
	assert.Equal(t, []string{"8", "7", "6", "5"}, contents(s.Entries()))

	s.SetCapacity(0)
	assert.Equal(t, 1, s.Capacity())
	assert.Equal(t, []string{"8"}, contents(s.Entries()))
}

func TestSearch(t *testing.T) {
	s := New(10)
	s.Add("foo", entry.KindText)
	s.Add("Hello World", entry.KindText)

	assert.Equal(t, []string{"Hello World"}, contents(s.Search("hello")))
	assert.Equal(t, []string{"Hello World", "foo"}, contents(s.Search("")))
	assert.Equal(t, []string{"Hello World", "foo"}, contents(s.Search("O")))
	assert.Empty(t, s.Search("missing"))
}

func TestConcurrentAdd(t *testing.T) {
	s := New(50)
	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				s.Add(fmt.Sprintf("w%d-%d", w, i), entry.KindText)
				_ = s.Entries()
				_ = s.Search("w1")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Count())
}

func TestConcurrentIdenticalAddsStoreOnce(t *testing.T) {
	s := New(10)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add("same", entry.KindText)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.Count())
}

func TestFindReportsHistoryIndex(t *testing.T) {
	s := New(10)
	s.Add("alpha", entry.KindText)
	s.Add("beta", entry.KindText)
	s.Add("ALPHABET", entry.KindText)

	hits := s.Find("alpha")
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].Index)
	assert.Equal(t, "ALPHABET", hits[0].Entry.Content)
	assert.Equal(t, 2, hits[1].Index)
	assert.Equal(t, "alpha", hits[1].Entry.Content)

	assert.Len(t, s.Find(""), 3)
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	s := New(20)
	for i := range 20 {
		s.Add(fmt.Sprintf("seed %d", i), entry.KindText)
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 300 {
			s.Add(fmt.Sprintf("new %d", i), entry.KindText)
			s.SetCapacity(10 + i%10)
		}
	}()
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 300 {
				n := s.Count()
				assert.LessOrEqual(t, n, 20)
				_, _ = s.Get(n - 1)
				_ = s.Capacity()
				for _, m := range s.Find("new") {
					assert.Contains(t, m.Entry.Content, "new")
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, s.Capacity(), s.Count())
}
