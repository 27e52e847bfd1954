package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// bannerEnvelope wraps the {"banner": ...} response shape.
type bannerEnvelope struct {
	Banner Banner `json:"banner"`
}

// bannersEnvelope wraps the {"banners": [...]} response shape.
type bannersEnvelope struct {
	Banners []Banner `json:"banners"`
}

// Banners lists active storefront banners, optionally filtered by position.
func (c *Client) Banners(ctx context.Context, position string) ([]Banner, error) {
	query := url.Values{}
	if position != "" {
		query.Set("position", position)
	}
	var out bannersEnvelope
	if err := c.get(ctx, "/banners", query, &out); err != nil {
		return nil, err
	}
	return out.Banners, nil
}

// AdminBanners lists all banners for the admin console, active or not.
func (c *Client) AdminBanners(ctx context.Context, page, perPage int) (BannerPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		query.Set("per_page", strconv.Itoa(perPage))
	}
	var out BannerPage
	if err := c.get(ctx, "/admin/banners", query, &out); err != nil {
		return BannerPage{}, err
	}
	return out, nil
}

// AdminBanner fetches one banner by id.
func (c *Client) AdminBanner(ctx context.Context, id int) (Banner, error) {
	var out bannerEnvelope
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/banners/%d", id), nil, &out); err != nil {
		return Banner{}, err
	}
	return out.Banner, nil
}

// CreateBanner adds a banner.
func (c *Client) CreateBanner(ctx context.Context, input BannerInput) (Banner, error) {
	var out bannerEnvelope
	if err := c.do(ctx, http.MethodPost, "/admin/banners", input, &out); err != nil {
		return Banner{}, err
	}
	return out.Banner, nil
}

// UpdateBanner replaces the writable fields of a banner.
func (c *Client) UpdateBanner(ctx context.Context, id int, input BannerInput) (Banner, error) {
	var out bannerEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/banners/%d", id), input, &out); err != nil {
		return Banner{}, err
	}
	return out.Banner, nil
}

// DeleteBanner removes a banner.
func (c *Client) DeleteBanner(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/banners/%d", id), nil, nil)
}

// ToggleBanner flips a banner's active flag and returns the updated record.
func (c *Client) ToggleBanner(ctx context.Context, id int) (Banner, error) {
	var out bannerEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/banners/%d/toggle", id), nil, &out); err != nil {
		return Banner{}, err
	}
	return out.Banner, nil
}
