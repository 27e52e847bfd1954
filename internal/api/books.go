package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// bookEnvelope wraps the {"book": ...} response shape.
type bookEnvelope struct {
	Book Book `json:"book"`
}

// Books lists the public catalog with paging and optional filters.
func (c *Client) Books(ctx context.Context, opts BookListOptions) (BookPage, error) {
	query := url.Values{}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.Category != "" {
		query.Set("category", opts.Category)
	}
	if opts.Author != "" {
		query.Set("author", opts.Author)
	}

	var out BookPage
	if err := c.get(ctx, "/books", query, &out); err != nil {
		return BookPage{}, err
	}
	return out, nil
}

// Book fetches one catalog entry by id.
func (c *Client) Book(ctx context.Context, id int) (Book, error) {
	var out bookEnvelope
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d", id), nil, &out); err != nil {
		return Book{}, err
	}
	return out.Book, nil
}

// CreateBook adds a catalog entry. Requires a staff or admin session.
func (c *Client) CreateBook(ctx context.Context, input BookInput) (Book, error) {
	var out bookEnvelope
	if err := c.do(ctx, http.MethodPost, "/books", input, &out); err != nil {
		return Book{}, err
	}
	return out.Book, nil
}

// UpdateBook replaces the writable fields of a catalog entry.
func (c *Client) UpdateBook(ctx context.Context, id int, input BookInput) (Book, error) {
	var out bookEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/books/%d", id), input, &out); err != nil {
		return Book{}, err
	}
	return out.Book, nil
}

// DeleteBook removes a catalog entry.
func (c *Client) DeleteBook(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil, nil)
}
