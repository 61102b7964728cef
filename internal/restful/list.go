package restful

import (
	"context"
	"sync"
)

const DefaultPageSize = 10

// ListModel owns the in-memory collection behind one list view. The stream cursor is
// advanced by one loader at a time; reads and patches of loaded items never wait on it.
type ListModel[T any, F comparable] struct {
	PageSize int

	indexKey func(T) string
	open     func(F) *Stream[T]

	load sync.Mutex

	mu         sync.RWMutex
	filter     F
	stream     *Stream[T]
	items      []T
	totalCount int
	noMore     bool
	currentOne *T

	downloading Busy
	uploading   Busy
}

// NewListModel builds a list model keyed by indexKey whose pages come from open.
func NewListModel[T any, F comparable](indexKey func(T) string, open func(F) *Stream[T]) *ListModel[T, F] {
	return &ListModel[T, F]{
		PageSize: DefaultPageSize,
		indexKey: indexKey,
		open:     open,
	}
}

// GetList returns page pageIndex (1-based) for filter, fetching more pages as needed.
// A different filter than the previous call starts a new stream.
func (m *ListModel[T, F]) GetList(ctx context.Context, filter F, pageIndex int) ([]T, error) {
	if pageIndex < 1 {
		pageIndex = 1
	}
	defer m.BeginDownload()()

	m.load.Lock()
	defer m.load.Unlock()

	if err := m.fill(ctx, filter, pageIndex*m.pageSize()); err != nil {
		return nil, err
	}
	return m.page(pageIndex), nil
}

// GetAll drains the stream for filter and returns every loaded item.
func (m *ListModel[T, F]) GetAll(ctx context.Context, filter F) ([]T, error) {
	defer m.BeginDownload()()

	m.load.Lock()
	defer m.load.Unlock()

	if err := m.fill(ctx, filter, -1); err != nil {
		return nil, err
	}
	return m.AllItems(), nil
}

// CountAll loads everything for filter and counts the items by key.
func (m *ListModel[T, F]) CountAll(ctx context.Context, filter F, key func(T) string) (map[string]int, error) {
	items, err := m.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts, nil
}

// fill pulls pages until at least want items are loaded, or all of them when want < 0.
// Items of a new filter replace the old ones only once its first page has arrived.
func (m *ListModel[T, F]) fill(ctx context.Context, filter F, want int) error {
	m.mu.RLock()
	stream, loaded := m.stream, len(m.items)
	fresh := stream == nil || m.filter != filter
	m.mu.RUnlock()

	if fresh {
		stream, loaded = m.open(filter), 0
	}

	for (want < 0 || loaded < want) && !stream.Done() {
		items, err := stream.Next(ctx)
		if err != nil {
			return err
		}

		m.mu.Lock()
		if fresh {
			m.filter, m.stream, m.items = filter, stream, nil
			fresh = false
		}
		m.items = append(m.items, items...)
		m.noMore = stream.Done()
		loaded = len(m.items)
		m.mu.Unlock()
	}

	if fresh {
		m.mu.Lock()
		m.filter, m.stream, m.items = filter, stream, nil
		m.noMore = stream.Done()
		m.mu.Unlock()
	}
	return nil
}

func (m *ListModel[T, F]) page(pageIndex int) []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	size := m.pageSize()
	start := (pageIndex - 1) * size
	if start >= len(m.items) {
		return []T{}
	}
	end := min(start+size, len(m.items))

	page := make([]T, end-start)
	copy(page, m.items[start:end])
	return page
}

func (m *ListModel[T, F]) pageSize() int {
	if m.PageSize <= 0 {
		return DefaultPageSize
	}
	return m.PageSize
}

// AllItems returns a copy of every item loaded so far.
func (m *ListModel[T, F]) AllItems() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]T, len(m.items))
	copy(items, m.items)
	return items
}

// ChangeOne patches the loaded item whose index key is id, and the current one when it
// matches. It reports whether anything was patched.
func (m *ListModel[T, F]) ChangeOne(id string, patch func(*T)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := false
	for i := range m.items {
		if m.indexKey(m.items[i]) == id {
			patch(&m.items[i])
			changed = true
		}
	}
	if m.currentOne != nil && m.indexKey(*m.currentOne) == id {
		patch(m.currentOne)
		changed = true
	}
	return changed
}

func (m *ListModel[T, F]) SetCurrentOne(item T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentOne = &item
}

func (m *ListModel[T, F]) CurrentOne() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.currentOne == nil {
		var zero T
		return zero, false
	}
	return *m.currentOne, true
}

// SetTotalCount is the onCount callback for streams opened by this model.
func (m *ListModel[T, F]) SetTotalCount(count int, _ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCount = count
}

func (m *ListModel[T, F]) TotalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.totalCount
}

// NoMore reports whether the current stream has been drained.
func (m *ListModel[T, F]) NoMore() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.noMore
}

func (m *ListModel[T, F]) BeginDownload() func() {
	return m.downloading.Begin()
}

func (m *ListModel[T, F]) BeginUpload() func() {
	return m.uploading.Begin()
}

func (m *ListModel[T, F]) Downloading() bool {
	return m.downloading.Active()
}

func (m *ListModel[T, F]) Uploading() bool {
	return m.uploading.Active()
}
