package restful

import "context"

// Client is the part of the API client the list models need.
type Client interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}
