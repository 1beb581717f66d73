package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is an in-memory Store keyed by id holding the city field.
type memStore struct {
	rows     map[string]string
	failOn   string
	vanishOn string
	inserts  int
	checks   int
}

func newMemStore(ids ...string) *memStore {
	s := &memStore{rows: make(map[string]string)}
	for _, id := range ids {
		s.rows[id] = "old"
	}
	return s
}

func city(rec Record) string {
	c, _ := rec.Doc["city"].(string)
	return c
}

func (s *memStore) Exists(_ context.Context, id string) (bool, error) {
	s.checks++
	_, ok := s.rows[id]
	return ok, nil
}

func (s *memStore) Insert(_ context.Context, rec Record) error {
	if rec.ID == s.failOn {
		return errors.New("disk full")
	}
	if _, ok := s.rows[rec.ID]; ok {
		return errors.New("duplicate id " + rec.ID)
	}
	s.inserts++
	s.rows[rec.ID] = city(rec)
	return nil
}

func (s *memStore) Update(_ context.Context, rec Record) (bool, error) {
	if rec.ID == s.failOn {
		return false, errors.New("disk full")
	}
	if rec.ID == s.vanishOn {
		return false, nil
	}
	if _, ok := s.rows[rec.ID]; !ok {
		return false, nil
	}
	s.rows[rec.ID] = city(rec)
	return true, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	if id == s.failOn {
		return errors.New("disk full")
	}
	delete(s.rows, id)
	return nil
}

// batchStore records InsertBatch chunk sizes.
type batchStore struct {
	*memStore
	chunks []int
}

func (b *batchStore) InsertBatch(ctx context.Context, recs []Record) error {
	b.chunks = append(b.chunks, len(recs))
	for _, rec := range recs {
		if err := b.Insert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func ad(id, c string) Record {
	return Record{ID: id, Doc: map[string]any{"city": c}}
}

func removed(id string) Record {
	return Record{ID: id, Removed: true}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		rec    Record
		exists bool
		want   ActionType
	}{
		{"new", ad("1", "x"), false, ActionInsert},
		{"existing", ad("1", "x"), true, ActionUpdate},
		{"removed present", removed("1"), true, ActionDelete},
		{"removed absent", removed("1"), false, ActionDelete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.rec, tt.exists))
		})
	}
}

func TestApply_Counts(t *testing.T) {
	store := newMemStore("u1", "u2", "d1")
	r := New(zap.NewNop())

	counts, err := r.Apply(context.Background(), store, []Record{
		ad("n1", "Solna"),
		ad("u1", "Lund"),
		removed("d1"),
		ad("n2", "Umeå"),
		ad("u2", "Kiruna"),
		removed("missing"),
		ad("n3", "Malmö"),
	})
	require.NoError(t, err)

	assert.Equal(t, Counts{New: 3, Updated: 2, Deleted: 2, Total: 7}, counts)
	assert.Equal(t, map[string]string{
		"n1": "Solna",
		"n2": "Umeå",
		"n3": "Malmö",
		"u1": "Lund",
		"u2": "Kiruna",
	}, store.rows)
}

func TestApply_RemovedLeavesNoRow(t *testing.T) {
	store := newMemStore("A", "B")

	_, err := New(nil).Apply(context.Background(), store, []Record{removed("A"), removed("A"), removed("Z")})
	require.NoError(t, err)

	assert.NotContains(t, store.rows, "A")
	assert.NotContains(t, store.rows, "Z")
	assert.Contains(t, store.rows, "B")
}

func TestApply_Idempotent(t *testing.T) {
	once := newMemStore()
	twice := newMemStore()
	r := New(zap.NewNop())
	rec := ad("A", "Solna")

	_, err := r.Apply(context.Background(), once, []Record{rec})
	require.NoError(t, err)

	counts, err := r.Apply(context.Background(), twice, []Record{rec, rec})
	require.NoError(t, err)

	assert.Equal(t, once.rows, twice.rows)
	assert.Equal(t, 1, counts.New)
	assert.Equal(t, 1, counts.Updated)
}

func TestApply_AbortsOnFailure(t *testing.T) {
	store := newMemStore("B")
	store.failOn = "B"

	counts, err := New(zap.NewNop()).Apply(context.Background(), store, []Record{
		ad("A", "Solna"),
		ad("B", "Lund"),
		ad("C", "Umeå"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "update ad B")
	assert.Equal(t, Counts{New: 1, Total: 1}, counts)
	// Work done before the failure stays; nothing after it runs.
	assert.Contains(t, store.rows, "A")
	assert.NotContains(t, store.rows, "C")
}

func TestApply_VanishedRowSkipped(t *testing.T) {
	store := newMemStore("A")
	store.vanishOn = "A"

	counts, err := New(zap.NewNop()).Apply(context.Background(), store, []Record{ad("A", "Solna"), ad("B", "Lund")})
	require.NoError(t, err)

	assert.Equal(t, Counts{New: 1, Skipped: 1, Total: 2}, counts)
	assert.Equal(t, "old", store.rows["A"])
}

func TestApply_Empty(t *testing.T) {
	counts, err := New(zap.NewNop()).Apply(context.Background(), newMemStore(), nil)
	require.NoError(t, err)
	assert.Equal(t, Counts{}, counts)
}

func TestLoadAll_NoExistenceChecks(t *testing.T) {
	store := newMemStore()

	counts, err := New(zap.NewNop()).LoadAll(context.Background(), store, []Record{ad("A", "Solna"), ad("B", "Lund")})
	require.NoError(t, err)

	assert.Equal(t, Counts{New: 2, Total: 2}, counts)
	assert.Zero(t, store.checks)
	assert.Equal(t, map[string]string{"A": "Solna", "B": "Lund"}, store.rows)
}

func TestLoadAll_Batches(t *testing.T) {
	store := &batchStore{memStore: newMemStore()}
	var recs []Record
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		recs = append(recs, ad(id, "x"))
	}

	counts, err := New(zap.NewNop(), WithBatchSize(2)).LoadAll(context.Background(), store, recs)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 1}, store.chunks)
	assert.Equal(t, 5, counts.New)
	assert.Equal(t, 5, counts.Total)
}

func TestLoadAll_FailureKeepsEarlierInserts(t *testing.T) {
	store := newMemStore()
	store.failOn = "B"

	counts, err := New(zap.NewNop()).LoadAll(context.Background(), store, []Record{ad("A", "x"), ad("B", "y"), ad("C", "z")})

	require.Error(t, err)
	assert.Equal(t, 1, counts.New)
	assert.Contains(t, store.rows, "A")
	assert.NotContains(t, store.rows, "C")
}

func TestWithBatchSize_IgnoresNonPositive(t *testing.T) {
	r := New(zap.NewNop(), WithBatchSize(0), WithBatchSize(-3))
	assert.Equal(t, DefaultBatchSize, r.batchSize)
}
