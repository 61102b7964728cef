package restful

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openhackathon/internal/model"
)

type item struct {
	ID    string `json:"id"`
	Group string `json:"group"`
}

// pagedClient serves items in pages of pageSize, linking pages through "?page=N".
type pagedClient struct {
	mu       sync.Mutex
	items    []item
	pageSize int
	failOn   map[string]error
	requests []string
}

func (c *pagedClient) Get(ctx context.Context, path string, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, path)
	if err, ok := c.failOn[path]; ok {
		return err
	}

	page := 1
	if _, raw, ok := strings.Cut(path, "page="); ok {
		page, _ = strconv.Atoi(raw)
	}
	base, _, _ := strings.Cut(path, "?")

	start := (page - 1) * c.pageSize
	end := min(start+c.pageSize, len(c.items))
	body := model.ListPage[item]{Value: c.items[start:end]}
	if end < len(c.items) {
		body.NextLink = fmt.Sprintf("%s?page=%d", base, page+1)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (c *pagedClient) Post(ctx context.Context, path string, body, out any) error {
	return errors.New("not supported")
}

func makeItems(n int) []item {
	items := make([]item, n)
	for i := range items {
		group := "odd"
		if i%2 == 0 {
			group = "even"
		}
		items[i] = item{ID: fmt.Sprintf("i%d", i), Group: group}
	}
	return items
}

func newTestModel(client *pagedClient) *ListModel[item, string] {
	var m *ListModel[item, string]
	m = NewListModel(func(i item) string { return i.ID }, func(filter string) *Stream[item] {
		return NewListStream[item]("items/"+filter, client, m.SetTotalCount)
	})
	return m
}

func TestStream_FollowsNextLink(t *testing.T) {
	client := &pagedClient{items: makeItems(5), pageSize: 2}

	var counts []int
	stream := NewListStream[item]("items", client, func(count int, done bool) {
		counts = append(counts, count)
	})

	var all []item
	for !stream.Done() {
		page, err := stream.Next(context.Background())
		require.NoError(t, err)
		all = append(all, page...)
	}

	assert.Len(t, all, 5)
	assert.Equal(t, []int{2, 4, 5}, counts)
	assert.Equal(t, []string{"items", "items?page=2", "items?page=3"}, client.requests)

	page, err := stream.Next(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, page, "a drained stream returns nothing")
}

func TestListModel_GetList(t *testing.T) {
	client := &pagedClient{items: makeItems(25), pageSize: 4}
	m := newTestModel(client)
	m.PageSize = 10

	first, err := m.GetList(context.Background(), "a", 1)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assert.Equal(t, "i0", first[0].ID)
	assert.Equal(t, 12, m.TotalCount())
	assert.False(t, m.NoMore())

	third, err := m.GetList(context.Background(), "a", 3)
	require.NoError(t, err)
	assert.Len(t, third, 5)
	assert.Equal(t, "i20", third[0].ID)
	assert.True(t, m.NoMore())
	assert.Equal(t, 25, m.TotalCount())

	beyond, err := m.GetList(context.Background(), "a", 9)
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.False(t, m.Downloading())
}

func TestListModel_NewFilterRestartsStream(t *testing.T) {
	client := &pagedClient{items: makeItems(6), pageSize: 10}
	m := newTestModel(client)

	_, err := m.GetAll(context.Background(), "a")
	require.NoError(t, err)
	_, err = m.GetAll(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"items/a"}, client.requests, "same filter reuses the drained stream")

	items, err := m.GetAll(context.Background(), "b")
	require.NoError(t, err)
	assert.Len(t, items, 6)
	assert.Equal(t, []string{"items/a", "items/b"}, client.requests)
}

func TestListModel_FailedFetchKeepsCache(t *testing.T) {
	failure := errors.New("boom")
	client := &pagedClient{items: makeItems(3), pageSize: 10}
	m := newTestModel(client)

	_, err := m.GetAll(context.Background(), "a")
	require.NoError(t, err)

	client.failOn = map[string]error{"items/b": failure}
	_, err = m.GetAll(context.Background(), "b")
	assert.ErrorIs(t, err, failure)
	assert.Len(t, m.AllItems(), 3, "items of the previous filter survive a failed switch")
}

func TestListModel_CountAll(t *testing.T) {
	client := &pagedClient{items: makeItems(5), pageSize: 2}
	m := newTestModel(client)

	counts, err := m.CountAll(context.Background(), "", func(i item) string { return i.Group })
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"even": 3, "odd": 2}, counts)
}

func TestListModel_ChangeOne(t *testing.T) {
	client := &pagedClient{items: makeItems(3), pageSize: 10}
	m := newTestModel(client)
	_, err := m.GetAll(context.Background(), "")
	require.NoError(t, err)
	m.SetCurrentOne(item{ID: "i1", Group: "odd"})

	changed := m.ChangeOne("i1", func(i *item) { i.Group = "patched" })
	assert.True(t, changed)
	assert.Equal(t, "patched", m.AllItems()[1].Group)
	current, ok := m.CurrentOne()
	require.True(t, ok)
	assert.Equal(t, "patched", current.Group)

	assert.False(t, m.ChangeOne("missing", func(i *item) { i.Group = "x" }))
}

func TestBusy(t *testing.T) {
	var busy Busy
	assert.False(t, busy.Active())

	endA := busy.Begin()
	endB := busy.Begin()
	assert.True(t, busy.Active())

	endA()
	assert.True(t, busy.Active(), "still busy while one call is running")
	endB()
	assert.False(t, busy.Active())
}
