package table

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, opts ...func(*Builder[string, int])) (*Table[string, int], Token) {
	t.Helper()

	b := New[string, int]("t")
	for _, opt := range opts {
		opt(b)
	}

	tab, owner, err := b.BuildUnordered(NewRegistry())
	require.NoError(t, err)
	return tab, owner
}

func TestTable_InsertGet(t *testing.T) {
	tab, owner := newTestTable(t)

	require.NoError(t, tab.Insert(owner, "k", 1))

	v, err := tab.Get(Anonymous, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestTable_Insert_LastWriteWins(t *testing.T) {
	tab, owner := newTestTable(t)

	require.NoError(t, tab.Insert(owner, "k", 1))
	require.NoError(t, tab.Insert(owner, "k", 2))

	v, err := tab.Get(Anonymous, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, tab.Size(), "overwrite must not grow the table")
}

func TestTable_Get_Miss(t *testing.T) {
	tab, _ := newTestTable(t)

	_, err := tab.Get(Anonymous, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTable_Delete_Idempotent(t *testing.T) {
	tab, owner := newTestTable(t)

	require.NoError(t, tab.Insert(owner, "k", 1))
	require.NoError(t, tab.Delete(owner, "k"))

	_, err := tab.Get(Anonymous, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error.
	assert.NoError(t, tab.Delete(owner, "k"))
	assert.Equal(t, 0, tab.Size())
}

func TestTable_InsertMany_OrderAndDuplicates(t *testing.T) {
	tab, owner := newTestTable(t)

	err := tab.InsertMany(owner, []Entry[string, int]{
		{Key: "k", Value: 1},
		{Key: "other", Value: 7},
		{Key: "k", Value: 2},
	})
	require.NoError(t, err)

	v, err := tab.Get(Anonymous, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, v, "later duplicate keys win over earlier ones")
	assert.Equal(t, 2, tab.Size())
}

func TestTable_Snapshot_OrderedSortsByKey(t *testing.T) {
	reg := NewRegistry()
	tab, owner, err := New[int, string]("sorted").BuildOrdered(reg)
	require.NoError(t, err)

	require.NoError(t, tab.Insert(owner, 3, "c"))
	require.NoError(t, tab.Insert(owner, 1, "a"))
	require.NoError(t, tab.Insert(owner, 2, "b"))

	entries, err := tab.Snapshot(Anonymous)
	require.NoError(t, err)

	want := []Entry[int, string]{{1, "a"}, {2, "b"}, {3, "c"}}
	assert.Equal(t, want, entries)
}

func TestTable_Snapshot_DetachedFromTable(t *testing.T) {
	tab, owner := newTestTable(t)
	require.NoError(t, tab.Insert(owner, "k", 1))

	entries, err := tab.Snapshot(Anonymous)
	require.NoError(t, err)

	require.NoError(t, tab.Insert(owner, "k", 2))
	assert.Equal(t, 1, entries[0].Value, "snapshot must be stable under later writes")
}

func TestTable_Privacy_Protected(t *testing.T) {
	tab, owner := newTestTable(t)

	// Reads are open to anyone, writes are owner-only.
	require.NoError(t, tab.Insert(owner, "k", 1))

	_, err := tab.Get(Anonymous, "k")
	assert.NoError(t, err)

	assert.ErrorIs(t, tab.Insert(Anonymous, "k", 2), ErrPrivacyViolation)
	assert.ErrorIs(t, tab.Delete(Anonymous, "k"), ErrPrivacyViolation)
	assert.ErrorIs(t, tab.InsertMany(Anonymous, nil), ErrPrivacyViolation)
	assert.ErrorIs(t, tab.Insert(Token("forged"), "k", 2), ErrPrivacyViolation)
}

func TestTable_Privacy_Private(t *testing.T) {
	tab, owner := newTestTable(t, func(b *Builder[string, int]) {
		b.WithPrivacy(Private)
	})

	require.NoError(t, tab.Insert(owner, "k", 1))

	_, err := tab.Get(Anonymous, "k")
	assert.ErrorIs(t, err, ErrPrivacyViolation)
	_, err = tab.Snapshot(Anonymous)
	assert.ErrorIs(t, err, ErrPrivacyViolation)

	v, err := tab.Get(owner, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestTable_Privacy_Public(t *testing.T) {
	tab, _ := newTestTable(t, func(b *Builder[string, int]) {
		b.WithPrivacy(Public)
	})

	require.NoError(t, tab.Insert(Anonymous, "k", 1))
	require.NoError(t, tab.Delete(Anonymous, "k"))
}

func TestTable_Drop(t *testing.T) {
	reg := NewRegistry()
	tab, owner, err := New[string, int]("doomed").BuildUnordered(reg)
	require.NoError(t, err)

	require.NoError(t, tab.Insert(owner, "k", 1))

	assert.ErrorIs(t, tab.Drop(Anonymous), ErrPrivacyViolation)
	require.NoError(t, tab.Drop(owner))

	// Every subsequent operation on the handle fails.
	assert.ErrorIs(t, tab.Insert(owner, "k", 2), ErrTableNotFound)
	_, err = tab.Get(owner, "k")
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.ErrorIs(t, tab.Drop(owner), ErrTableNotFound)

	// And the name no longer resolves.
	_, err = reg.Resolve("doomed")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestTable_Size_CounterModes(t *testing.T) {
	for _, mode := range []CounterMode{Centralized, Decentralized} {
		t.Run(mode.String(), func(t *testing.T) {
			tab, owner := newTestTable(t, func(b *Builder[string, int]) {
				b.WithWriteConcurrency()
				if mode == Decentralized {
					b.WithDecentralizedCounters()
				}
			})

			for i := range 100 {
				require.NoError(t, tab.Insert(owner, fmt.Sprintf("k%d", i), i))
			}
			assert.Equal(t, 100, tab.Size())

			for i := range 40 {
				require.NoError(t, tab.Delete(owner, fmt.Sprintf("k%d", i)))
			}
			assert.Equal(t, 60, tab.Size())
		})
	}
}

func TestTable_ConcurrentReadersDuringWrites(t *testing.T) {
	tab, owner := newTestTable(t, func(b *Builder[string, int]) {
		b.WithReadConcurrency().WithWriteConcurrency()
	})

	const n = 100

	var wg sync.WaitGroup
	wg.Add(3 * n)

	for i := range n {
		go func() {
			defer wg.Done()
			_ = tab.Insert(owner, "k", i)
		}()
		go func() {
			defer wg.Done()
			_, _ = tab.Get(Anonymous, "k")
		}()
		go func() {
			defer wg.Done()
			_, _ = tab.Snapshot(Anonymous)
		}()
	}
	wg.Wait()
}

func TestTable_NoTornValues(t *testing.T) {
	// Concurrent readers during a batch insert must only ever observe a
	// value that was fully assigned to the key, never a partial one.
	tab, owner := newTestTable(t, func(b *Builder[string, int]) {
		b.WithWriteConcurrency()
	})

	assigned := map[int]bool{}
	batch := make([]Entry[string, int], 0, 50)
	for i := range 50 {
		assigned[i] = true
		batch = append(batch, Entry[string, int]{Key: "hot", Value: i})
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(4)
	for range 4 {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if v, err := tab.Get(Anonymous, "hot"); err == nil {
					assert.True(t, assigned[v], "observed value %d was never assigned", v)
				}
			}
		}()
	}

	for range 20 {
		require.NoError(t, tab.InsertMany(owner, batch))
	}
	close(done)
	wg.Wait()
}
