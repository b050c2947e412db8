// Package flat provides a dense, brute-force vector index with binary
// on-disk persistence. Every query scans all vectors, which is exact
// and fast enough for document collections of this size.
package flat

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// magic identifies a flat index file.
var magic = [4]byte{'O', 'R', 'I', 'X'}

// fileVersion is the current on-disk format version.
const fileVersion uint32 = 1

// Index is a flat inner-product index. Vectors are expected to be
// unit-normalised so the inner product equals cosine similarity.
// Position i in the index corresponds to position i in the chunk
// records persisted alongside it.
type Index struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	closed    bool
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, errors.New("flat: dimension must be positive")
	}
	return &Index{dimension: dimension}, nil
}

// Open reads a persisted index from path.
// Returns domain.ErrDatabaseMissing if the file does not exist.
func Open(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("flat: open %s: %w", path, domain.ErrDatabaseMissing)
		}
		return nil, fmt.Errorf("flat: open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("flat: read header: %w", err)
	}
	if header != magic {
		return nil, fmt.Errorf("flat: %s is not a flat index file", path)
	}

	var version, dimension, count uint32
	for _, field := range []*uint32{&version, &dimension, &count} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("flat: read header: %w", err)
		}
	}
	if version != fileVersion {
		return nil, fmt.Errorf("flat: unsupported file version %d", version)
	}
	if dimension == 0 {
		return nil, errors.New("flat: zero dimension in header")
	}

	idx := &Index{
		dimension: int(dimension),
		vectors:   make([][]float32, 0, count),
	}

	buf := make([]byte, int(dimension)*4)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("flat: read vector %d: %w", i, err)
		}
		idx.vectors = append(idx.vectors, bytesToFloat32Slice(buf))
	}

	return idx, nil
}

// Add appends vectors to the index in order.
func (idx *Index) Add(_ context.Context, vectors [][]float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return errors.New("flat: index is closed")
	}

	for _, vec := range vectors {
		if len(vec) != idx.dimension {
			return fmt.Errorf("flat: vector has dimension %d, index has %d: %w",
				len(vec), idx.dimension, domain.ErrDimensionMismatch)
		}
	}

	idx.vectors = append(idx.vectors, vectors...)
	return nil
}

// Search scans all vectors and returns the k highest inner products,
// ties broken by ascending position for deterministic ordering.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, errors.New("flat: index is closed")
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("flat: query has dimension %d, index has %d: %w",
			len(query), idx.dimension, domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, nil
	}
	if k > len(idx.vectors) {
		k = len(idx.vectors)
	}

	hits := make([]driven.VectorHit, len(idx.vectors))
	for i, vec := range idx.vectors {
		hits[i] = driven.VectorHit{
			Position: i,
			Score:    dot(query, vec),
		}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Position < hits[b].Position
	})

	return hits[:k], nil
}

// Len returns the number of vectors in the index.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Dimension returns the vector size shared by all entries.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// Save persists the index to path. The write goes to a temporary file
// first and is renamed into place so readers never observe a partial
// index.
func (idx *Index) Save(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return errors.New("flat: index is closed")
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("flat: create %s: %w", tmp, err)
	}

	w := bufio.NewWriter(f)

	if _, err := w.Write(magic[:]); err != nil {
		f.Close()
		return fmt.Errorf("flat: write header: %w", err)
	}
	for _, field := range []uint32{fileVersion, uint32(idx.dimension), uint32(len(idx.vectors))} {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			f.Close()
			return fmt.Errorf("flat: write header: %w", err)
		}
	}
	for i, vec := range idx.vectors {
		if _, err := w.Write(float32SliceToBytes(vec)); err != nil {
			f.Close()
			return fmt.Errorf("flat: write vector %d: %w", i, err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flat: flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("flat: close: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("flat: rename into place: %w", err)
	}
	return nil
}

// Close releases resources.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	idx.vectors = nil
	return nil
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
