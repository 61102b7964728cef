package restful

import (
	"context"
	"fmt"

	"openhackathon/internal/model"
)

// Stream walks a paged collection by following nextLink until the API stops returning one.
type Stream[T any] struct {
	client  Client
	next    string
	count   int
	done    bool
	onCount func(count int, done bool)
}

func NewListStream[T any](path string, client Client, onCount func(count int, done bool)) *Stream[T] {
	return &Stream[T]{
		client:  client,
		next:    path,
		onCount: onCount,
	}
}

// Next fetches the following page. It returns nil items once the stream is done.
func (s *Stream[T]) Next(ctx context.Context) ([]T, error) {
	if s.done {
		return nil, nil
	}

	var page model.ListPage[T]
	if err := s.client.Get(ctx, s.next, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch page %q: %w", s.next, err)
	}

	s.next = page.NextLink
	s.done = page.NextLink == ""
	s.count += len(page.Value)

	if s.onCount != nil {
		s.onCount(s.count, s.done)
	}
	return page.Value, nil
}

func (s *Stream[T]) Done() bool {
	return s.done
}
