package flat

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("creates empty index", func(t *testing.T) {
		idx, err := New(4)

		require.NoError(t, err)
		assert.Equal(t, 0, idx.Len())
		assert.Equal(t, 4, idx.Dimension())
	})

	t.Run("rejects non-positive dimension", func(t *testing.T) {
		_, err := New(0)
		assert.Error(t, err)

		_, err = New(-3)
		assert.Error(t, err)
	})
}

func TestIndex_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("appends vectors in order", func(t *testing.T) {
		idx, err := New(3)
		require.NoError(t, err)

		err = idx.Add(ctx, [][]float32{{1, 0, 0}, {0, 1, 0}})
		require.NoError(t, err)

		assert.Equal(t, 2, idx.Len())
	})

	t.Run("rejects dimension mismatch", func(t *testing.T) {
		idx, err := New(3)
		require.NoError(t, err)

		err = idx.Add(ctx, [][]float32{{1, 0}})

		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
		assert.Equal(t, 0, idx.Len())
	})
}

func TestIndex_Search(t *testing.T) {
	ctx := context.Background()

	newIndex := func(t *testing.T) *Index {
		t.Helper()
		idx, err := New(3)
		require.NoError(t, err)
		require.NoError(t, idx.Add(ctx, [][]float32{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		}))
		return idx
	}

	t.Run("returns nearest vector first", func(t *testing.T) {
		idx := newIndex(t)

		hits, err := idx.Search(ctx, []float32{0, 1, 0}, 2)

		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, 1, hits[0].Position)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	})

	t.Run("k larger than index returns all", func(t *testing.T) {
		idx := newIndex(t)

		hits, err := idx.Search(ctx, []float32{1, 0, 0}, 10)

		require.NoError(t, err)
		assert.Len(t, hits, 3)
	})

	t.Run("equal scores break ties by position", func(t *testing.T) {
		idx := newIndex(t)

		// Equidistant from the first two basis vectors.
		hits, err := idx.Search(ctx, []float32{0.7071, 0.7071, 0}, 3)

		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, 0, hits[0].Position)
		assert.Equal(t, 1, hits[1].Position)
	})

	t.Run("rejects query dimension mismatch", func(t *testing.T) {
		idx := newIndex(t)

		_, err := idx.Search(ctx, []float32{1, 0}, 1)

		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("non-positive k returns nothing", func(t *testing.T) {
		idx := newIndex(t)

		hits, err := idx.Search(ctx, []float32{1, 0, 0}, 0)

		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestIndex_SaveAndOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips vectors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.bin")

		idx, err := New(3)
		require.NoError(t, err)
		require.NoError(t, idx.Add(ctx, [][]float32{{0.5, 0.5, 0.7071}, {1, 0, 0}}))
		require.NoError(t, idx.Save(path))

		loaded, err := Open(path)
		require.NoError(t, err)

		assert.Equal(t, 2, loaded.Len())
		assert.Equal(t, 3, loaded.Dimension())

		hits, err := loaded.Search(ctx, []float32{1, 0, 0}, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, hits[0].Position)
	})

	t.Run("missing file reports database missing", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "absent.bin"))

		assert.ErrorIs(t, err, domain.ErrDatabaseMissing)
	})

	t.Run("empty index persists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.bin")

		idx, err := New(8)
		require.NoError(t, err)
		require.NoError(t, idx.Save(path))

		loaded, err := Open(path)
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Len())
	})
}

func TestIndex_Closed(t *testing.T) {
	ctx := context.Background()

	idx, err := New(2)
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	assert.Error(t, idx.Add(ctx, [][]float32{{1, 0}}))
	_, err = idx.Search(ctx, []float32{1, 0}, 1)
	assert.Error(t, err)
}
