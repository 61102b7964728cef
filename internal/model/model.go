package model

// Base carries the fields every API resource shares.
type Base struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

type User struct {
	Base
	Nickname string `json:"nickname"`
	City     string `json:"city,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Token    string `json:"token,omitempty"`
}

// ListPage is the body of a paged collection response.
type ListPage[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"nextLink,omitempty"`
}
