package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bikecare/internal/domain/models"
)

// Admin endpoints are a thin passthrough for the dashboard; the backend
// enforces the actual authorization.

func (c *Client) AdminBookings(ctx context.Context, status string) ([]models.Booking, error) {
	path := "/api/admin/bookings"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []models.Booking
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

type adminBookingPatch struct {
	Status string `json:"status"`
}

// AdminUpdateBookingStatus approves or rejects a booking.
func (c *Client) AdminUpdateBookingStatus(ctx context.Context, id int64, status string) (models.Booking, error) {
	var out models.Booking
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/bookings/%d", id), adminBookingPatch{Status: status}, &out, true)
	return out, err
}

func (c *Client) AdminCompanies(ctx context.Context) ([]models.BikeCompany, error) {
	var out []models.BikeCompany
	if err := c.do(ctx, http.MethodGet, "/api/admin/companies", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminCreateCompany(ctx context.Context, name string) (models.BikeCompany, error) {
	var out models.BikeCompany
	err := c.do(ctx, http.MethodPost, "/api/admin/companies", models.BikeCompany{Name: name}, &out, true)
	return out, err
}

func (c *Client) AdminDeleteCompany(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/companies/%d", id), nil, nil, true)
}

func (c *Client) AdminModels(ctx context.Context) ([]models.BikeModel, error) {
	var out []models.BikeModel
	if err := c.do(ctx, http.MethodGet, "/api/admin/models", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminCreateModel(ctx context.Context, m models.BikeModel) (models.BikeModel, error) {
	var out models.BikeModel
	err := c.do(ctx, http.MethodPost, "/api/admin/models", m, &out, true)
	return out, err
}

func (c *Client) AdminDeleteModel(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/models/%d", id), nil, nil, true)
}

// AdminUser is the dashboard's user listing row.
type AdminUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (c *Client) AdminUsers(ctx context.Context) ([]AdminUser, error) {
	var out []AdminUser
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminStats is the revenue dashboard summary.
type AdminStats struct {
	TotalBookings   int64 `json:"totalBookings"`
	PendingBookings int64 `json:"pendingBookings"`
	TotalUsers      int64 `json:"totalUsers"`
	TotalRevenue    int64 `json:"totalRevenue"`
}

func (c *Client) AdminStats(ctx context.Context) (AdminStats, error) {
	var out AdminStats
	err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &out, true)
	return out, err
}
