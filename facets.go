package ngramsearch

import (
	"cmp"
	"container/heap"
	"io"
	"os"
	"slices"
	"sync"
	"unsafe"

	"github.com/RoaringBitmap/roaring"
	"github.com/vmihailenco/msgpack/v5"
)

// FacetStore indexes key ids by categorical fields using roaring bitmaps,
// so a Search result set can be AND/OR-filtered down to, say,
// media_type=book without touching the core Corpus. It sits entirely
// outside the corpus's bit-packed CSR: the core's representation is fixed
// by the bipartite-graph contract, while facets are an optional companion
// keyed by the same key ids.
type FacetStore struct {
	mu     sync.RWMutex
	fields map[string]map[string]*roaring.Bitmap
}

// NewFacetStore creates an empty facet store.
func NewFacetStore() *FacetStore {
	return &FacetStore{fields: make(map[string]map[string]*roaring.Bitmap)}
}

// Set tags a key id with a category within a field.
func (c *FacetStore) Set(keyID uint32, field, category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(keyID, field, category)
}

func (c *FacetStore) setLocked(keyID uint32, field, category string) {
	fieldMap, ok := c.fields[field]
	if !ok {
		fieldMap = make(map[string]*roaring.Bitmap)
		c.fields[field] = fieldMap
	}
	bm, ok := fieldMap[category]
	if !ok {
		bm = roaring.New()
		fieldMap[category] = bm
	}
	bm.Add(keyID)
}

// FacetBatch accumulates tags for efficient batch insertion into one field.
type FacetBatch struct {
	store      *FacetStore
	field      string
	keyIDs     []uint32
	categories []string
}

// Batch creates a batch builder for the given field.
func (c *FacetStore) Batch(field string) *FacetBatch {
	return &FacetBatch{store: c, field: field, keyIDs: make([]uint32, 0, 1024), categories: make([]string, 0, 1024)}
}

// Add queues a key id/category tag into the batch.
func (b *FacetBatch) Add(keyID uint32, category string) {
	b.keyIDs = append(b.keyIDs, keyID)
	b.categories = append(b.categories, category)
}

// Flush commits every queued tag to the store.
func (b *FacetBatch) Flush() {
	if len(b.keyIDs) == 0 {
		return
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	fieldMap, ok := b.store.fields[b.field]
	if !ok {
		fieldMap = make(map[string]*roaring.Bitmap)
		b.store.fields[b.field] = fieldMap
	}
	for i, cat := range b.categories {
		bm, ok := fieldMap[cat]
		if !ok {
			bm = roaring.New()
			fieldMap[cat] = bm
		}
		bm.Add(b.keyIDs[i])
	}
	b.keyIDs = b.keyIDs[:0]
	b.categories = b.categories[:0]
}

// Get returns the bitmap of key ids tagged with category within field, or
// nil if the field/category is unknown.
func (c *FacetStore) Get(field, category string) *roaring.Bitmap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fieldMap, ok := c.fields[field]
	if !ok {
		return nil
	}
	return fieldMap[category]
}

// GetAny OR-combines the bitmaps of several categories within a field.
func (c *FacetStore) GetAny(field string, categories []string) *roaring.Bitmap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := roaring.New()
	fieldMap, ok := c.fields[field]
	if !ok {
		return result
	}
	for _, cat := range categories {
		if bm, ok := fieldMap[cat]; ok {
			result.Or(bm)
		}
	}
	return result
}

// Filter narrows a Search result set to only the key ids present in bm.
func Filter(results []SearchResult, bm *roaring.Bitmap) []SearchResult {
	if bm == nil {
		return nil
	}
	out := results[:0:0]
	for _, r := range results {
		if bm.Contains(uint32(r.KeyID)) {
			out = append(out, r)
		}
	}
	return out
}

// FilterAny narrows a Search result set to the key ids tagged with any of
// categories within field, reading straight from the store: no caller-side
// bitmap plumbing needed to facet a search call's own output.
func (c *FacetStore) FilterAny(results []SearchResult, field string, categories ...string) []SearchResult {
	return Filter(results, c.GetAny(field, categories))
}

// facetStoreData is the msgpack wire representation of a FacetStore.
type facetStoreData struct {
	Fields map[string]map[string][]byte `msgpack:"fields"`
}

// Encode serializes the facet store.
func (c *FacetStore) Encode(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data := facetStoreData{Fields: make(map[string]map[string][]byte, len(c.fields))}
	for field, fieldMap := range c.fields {
		data.Fields[field] = make(map[string][]byte, len(fieldMap))
		for cat, bm := range fieldMap {
			b, err := bm.ToBytes()
			if err != nil {
				return err
			}
			data.Fields[field][cat] = b
		}
	}
	return msgpack.NewEncoder(w).Encode(data)
}

// SaveToFile writes the facet store to path atomically: encode to a temp
// file, fsync, then rename over the destination.
func (c *FacetStore) SaveToFile(path string) error {
	return atomicSave(path, c.Encode)
}

// LoadFacetStore reads a facet store previously written by SaveToFile.
func LoadFacetStore(path string) (*FacetStore, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var data facetStoreData
	if err := msgpack.NewDecoder(file).Decode(&data); err != nil {
		return nil, err
	}

	c := &FacetStore{fields: make(map[string]map[string]*roaring.Bitmap, len(data.Fields))}
	for field, fieldMap := range data.Fields {
		c.fields[field] = make(map[string]*roaring.Bitmap, len(fieldMap))
		for cat, b := range fieldMap {
			bm := roaring.New()
			if err := bm.UnmarshalBinary(b); err != nil {
				return nil, err
			}
			c.fields[field][cat] = bm
		}
	}
	return c, nil
}

// atomicSave writes via a temp file and renames into place, so a crash
// mid-write never leaves a corrupt file at path.
func atomicSave(path string, encode func(io.Writer) error) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	if err := encode(file); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// SortColumn is a typed columnar array for re-ranking a Search result set
// by a value held outside the corpus entirely (popularity, price, a
// timestamp), instead of by similarity score.
type SortColumn[T cmp.Ordered] struct {
	mu     sync.RWMutex
	values []T
	maxID  uint32
}

// SortedResult is a Search result re-ranked by a SortColumn value: it
// carries the key and key id through from the original SearchResult so a
// caller never has to re-resolve them from a bare id.
type SortedResult[T cmp.Ordered] struct {
	KeyID int
	Key   string
	Value T
}

// NewSortColumn creates an empty sort column.
func NewSortColumn[T cmp.Ordered]() *SortColumn[T] {
	return &SortColumn[T]{values: make([]T, 0)}
}

// Set stores value for keyID (a Corpus key id), growing the backing array
// if needed.
func (col *SortColumn[T]) Set(keyID int, value T) {
	col.mu.Lock()
	defer col.mu.Unlock()

	id := uint32(keyID)
	if id >= uint32(len(col.values)) {
		newSize := id + 1
		if grown := uint32(len(col.values) * 5 / 4); grown > newSize {
			newSize = grown
		}
		if newSize < 1024 {
			newSize = 1024
		}
		grownValues := make([]T, newSize)
		copy(grownValues, col.values)
		col.values = grownValues
	}
	col.values[id] = value
	if id > col.maxID {
		col.maxID = id
	}
}

// Get returns the value stored for keyID, or the zero value if unset.
func (col *SortColumn[T]) Get(keyID int) T {
	col.mu.RLock()
	defer col.mu.RUnlock()
	return col.valueAt(uint32(keyID))
}

// MemoryUsage reports the byte size of the backing values array.
func (col *SortColumn[T]) MemoryUsage() uint64 {
	col.mu.RLock()
	defer col.mu.RUnlock()
	var zero T
	return uint64(len(col.values)) * uint64(unsafe.Sizeof(zero))
}

// Sort re-ranks a Search result set by this column's value, ascending or
// descending, truncated to limit (0 means no truncation). Results missing
// from the column (never Set) sort using the zero value, so an unscored
// key never panics the comparison, only sorts to one end. Falls back to a
// bounded heap-based partial sort when limit is small relative to
// len(results).
func (col *SortColumn[T]) Sort(results []SearchResult, asc bool, limit int) []SortedResult[T] {
	col.mu.RLock()
	defer col.mu.RUnlock()

	if len(results) == 0 {
		return nil
	}
	if limit > 0 && limit < len(results)/4 {
		return col.heapSort(results, asc, limit)
	}

	out := make([]SortedResult[T], len(results))
	for i, r := range results {
		out[i] = SortedResult[T]{KeyID: r.KeyID, Key: r.Key, Value: col.valueAt(uint32(r.KeyID))}
	}
	if asc {
		slices.SortFunc(out, func(a, b SortedResult[T]) int { return cmp.Compare(a.Value, b.Value) })
	} else {
		slices.SortFunc(out, func(a, b SortedResult[T]) int { return cmp.Compare(b.Value, a.Value) })
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (col *SortColumn[T]) valueAt(keyID uint32) T {
	var zero T
	if keyID >= uint32(len(col.values)) {
		return zero
	}
	return col.values[keyID]
}

func (col *SortColumn[T]) heapSort(results []SearchResult, asc bool, limit int) []SortedResult[T] {
	h := &resultHeap[T]{items: make([]SortedResult[T], 0, limit), asc: asc}
	for _, r := range results {
		value := col.valueAt(uint32(r.KeyID))
		if h.Len() < limit {
			h.items = append(h.items, SortedResult[T]{KeyID: r.KeyID, Key: r.Key, Value: value})
			if h.Len() == limit {
				heap.Init(h)
			}
		} else {
			top := h.items[0]
			better := (asc && value < top.Value) || (!asc && value > top.Value)
			if better {
				h.items[0] = SortedResult[T]{KeyID: r.KeyID, Key: r.Key, Value: value}
				heap.Fix(h, 0)
			}
		}
	}
	if h.Len() < limit && h.Len() > 0 {
		heap.Init(h)
	}
	out := make([]SortedResult[T], h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(SortedResult[T])
	}
	return out
}

// resultHeap implements heap.Interface for SortedResult, oriented so its
// root is the first item to evict to keep the opposite ordering at
// capacity (a max-heap for an ascending top-K, and vice versa).
type resultHeap[T cmp.Ordered] struct {
	items []SortedResult[T]
	asc   bool
}

func (h *resultHeap[T]) Len() int { return len(h.items) }
func (h *resultHeap[T]) Less(i, j int) bool {
	if h.asc {
		return h.items[i].Value > h.items[j].Value
	}
	return h.items[i].Value < h.items[j].Value
}
func (h *resultHeap[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *resultHeap[T]) Push(x any)    { h.items = append(h.items, x.(SortedResult[T])) }
func (h *resultHeap[T]) Pop() any {
	n := len(h.items)
	x := h.items[n-1]
	h.items = h.items[:n-1]
	return x
}

// sortColumnData is the msgpack wire representation of a SortColumn.
type sortColumnData[T cmp.Ordered] struct {
	Values []T    `msgpack:"values"`
	MaxID  uint32 `msgpack:"max_id"`
}

// Encode serializes the sort column.
func (col *SortColumn[T]) Encode(w io.Writer) error {
	col.mu.RLock()
	defer col.mu.RUnlock()
	data := sortColumnData[T]{MaxID: col.maxID}
	if len(col.values) > 0 {
		data.Values = col.values[:col.maxID+1]
	}
	return msgpack.NewEncoder(w).Encode(data)
}

// SaveToFile writes the sort column to path atomically.
func (col *SortColumn[T]) SaveToFile(path string) error {
	return atomicSave(path, col.Encode)
}

// LoadSortColumn reads a sort column previously written by SaveToFile.
func LoadSortColumn[T cmp.Ordered](path string) (*SortColumn[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var data sortColumnData[T]
	if err := msgpack.NewDecoder(file).Decode(&data); err != nil {
		return nil, err
	}
	return &SortColumn[T]{values: data.Values, maxID: data.MaxID}, nil
}
