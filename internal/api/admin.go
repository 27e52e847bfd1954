package api

import (
	"context"
	"fmt"
	"net/http"
)

// usersEnvelope wraps the {"users": [...]} response shape.
type usersEnvelope struct {
	Users []User `json:"users"`
}

// AdminUsers lists all accounts for the admin console.
func (c *Client) AdminUsers(ctx context.Context) ([]User, error) {
	var out usersEnvelope
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// SetUserActive enables or disables an account.
func (c *Client) SetUserActive(ctx context.Context, id int, active bool) (User, error) {
	in := struct {
		IsActive bool `json:"is_active"`
	}{IsActive: active}

	var out userEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d/status", id), in, &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

// AdminOrders lists every order across all users.
func (c *Client) AdminOrders(ctx context.Context) ([]Order, error) {
	var out ordersEnvelope
	if err := c.do(ctx, http.MethodGet, "/admin/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// SetOrderStatus updates order and payment status.
func (c *Client) SetOrderStatus(ctx context.Context, id int, patch OrderStatusPatch) (Order, error) {
	var out orderEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/orders/%d/status", id), patch, &out); err != nil {
		return Order{}, err
	}
	return out.Order, nil
}

// AdminStatistics returns the dashboard aggregate.
func (c *Client) AdminStatistics(ctx context.Context) (Statistics, error) {
	var out Statistics
	if err := c.do(ctx, http.MethodGet, "/admin/statistics", nil, &out); err != nil {
		return Statistics{}, err
	}
	return out, nil
}
