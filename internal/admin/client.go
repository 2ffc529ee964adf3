// Package admin wraps the administrator endpoints: user and booking
// management, soft-deleted record archives and aggregate statistics. Every
// call requires an admin session; the server enforces the role.
package admin

import (
	"context"
	"fmt"
	"net/http"

	"museovini/internal/apiclient"
	"museovini/internal/models"

	"github.com/rs/zerolog"
)

// Stats is the aggregate dashboard snapshot.
type Stats struct {
	TotalUsers        int `json:"total_users"`
	TotalAdmins       int `json:"total_admins"`
	TotalRegularUsers int `json:"total_regular_users"`
	ActiveBookings    int `json:"active_bookings"`
	DeletedUsers      int `json:"deleted_users"`
	DeletedBookings   int `json:"deleted_bookings"`
}

// TrendPoint is one bucket of a signup or booking trend series.
type TrendPoint struct {
	Date  string `json:"date,omitempty"`
	Month string `json:"month,omitempty"`
	Count int    `json:"count"`
}

// Trends groups the weekly and monthly series.
type Trends struct {
	WeeklyUserSignups  []TrendPoint `json:"weekly_user_signups"`
	MonthlyUserSignups []TrendPoint `json:"monthly_user_signups"`
	WeeklyBookings     []TrendPoint `json:"weekly_bookings"`
	MonthlyBookings    []TrendPoint `json:"monthly_bookings"`
}

// UserOverview is a user together with booking summaries, as returned by the
// overview endpoint.
type UserOverview struct {
	models.User
	Bookings []BookingSummary `json:"bookings"`
}

// BookingSummary is the trimmed booking shape embedded in overviews.
type BookingSummary struct {
	ID          int64  `json:"id"`
	DateTime    string `json:"date_time"`
	People      int    `json:"people"`
	InfoMessage string `json:"info_message,omitempty"`
}

// DeletedUser is an archived account.
type DeletedUser struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	DeletedAt string `json:"deleted_at"`
}

// DeletedBooking is an archived reservation including a snapshot of its
// owner's contact details.
type DeletedBooking struct {
	ID          int64  `json:"id"`
	BookingID   int64  `json:"booking_id"`
	DateTime    string `json:"date_time"`
	People      int    `json:"people"`
	InfoMessage string `json:"info_message,omitempty"`
	UserID      int64  `json:"user_id"`
	UserName    string `json:"user_name"`
	UserSurname string `json:"user_surname"`
	UserEmail   string `json:"user_email"`
	UserPhone   string `json:"user_phone"`
	DeletedAt   string `json:"deleted_at"`
}

// UserUpdate carries admin-edited user fields. Nil leaves a field untouched.
type UserUpdate struct {
	Name    *string `json:"name,omitempty"`
	Surname *string `json:"surname,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	IsAdmin *bool   `json:"is_admin,omitempty"`
}

// Client issues admin API calls.
type Client struct {
	api    *apiclient.Client
	logger *zerolog.Logger
}

func NewClient(api *apiclient.Client, logger *zerolog.Logger) *Client {
	return &Client{api: api, logger: logger}
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.api.RequestJSON(ctx, "/admin/stats", apiclient.Options{Auth: true}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Trends(ctx context.Context) (*Trends, error) {
	var trends Trends
	if err := c.api.RequestJSON(ctx, "/admin/trends", apiclient.Options{Auth: true}, &trends); err != nil {
		return nil, err
	}
	return &trends, nil
}

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.api.RequestJSON(ctx, "/admin/users", apiclient.Options{Auth: true}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Overview(ctx context.Context) ([]UserOverview, error) {
	var overview []UserOverview
	if err := c.api.RequestJSON(ctx, "/admin/overview", apiclient.Options{Auth: true}, &overview); err != nil {
		return nil, err
	}
	return overview, nil
}

func (c *Client) Bookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.api.RequestJSON(ctx, "/admin/bookings", apiclient.Options{Auth: true}, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) DeletedUsers(ctx context.Context) ([]DeletedUser, error) {
	var deleted []DeletedUser
	if err := c.api.RequestJSON(ctx, "/admin/deleted-users", apiclient.Options{Auth: true}, &deleted); err != nil {
		return nil, err
	}
	return deleted, nil
}

func (c *Client) DeletedBookings(ctx context.Context) ([]DeletedBooking, error) {
	var deleted []DeletedBooking
	if err := c.api.RequestJSON(ctx, "/admin/deleted-bookings", apiclient.Options{Auth: true}, &deleted); err != nil {
		return nil, err
	}
	return deleted, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID int64, update UserUpdate) (*models.User, error) {
	var user models.User
	path := fmt.Sprintf("/admin/users/%d", userID)
	opt := apiclient.Options{Method: http.MethodPut, Body: update, Auth: true}
	if err := c.api.RequestJSON(ctx, path, opt, &user); err != nil {
		return nil, err
	}
	c.logger.Info().Int64("user_id", userID).Msg("user updated by admin")
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/admin/users/%d", userID)
	if err := c.api.RequestJSON(ctx, path, apiclient.Options{Method: http.MethodDelete, Auth: true}, nil); err != nil {
		return err
	}
	c.logger.Info().Int64("user_id", userID).Msg("user deleted by admin")
	return nil
}

func (c *Client) ResetUserPassword(ctx context.Context, userID int64, newPassword string) error {
	path := fmt.Sprintf("/admin/users/%d/password", userID)
	body := map[string]string{"new_password": newPassword}
	return c.api.RequestJSON(ctx, path, apiclient.Options{Method: http.MethodPost, Body: body, Auth: true}, nil)
}

func (c *Client) UpdateBooking(ctx context.Context, bookingID int64, update models.UpdateRequestCreate) (*models.Booking, error) {
	var booking models.Booking
	path := fmt.Sprintf("/admin/bookings/%d", bookingID)
	body := map[string]interface{}{}
	if update.RequestedDateTime != nil {
		body["date_time"] = update.RequestedDateTime
	}
	if update.RequestedPeople != nil {
		body["people"] = *update.RequestedPeople
	}
	if update.RequestedInfoMessage != nil {
		body["info_message"] = *update.RequestedInfoMessage
	}
	opt := apiclient.Options{Method: http.MethodPut, Body: body, Auth: true}
	if err := c.api.RequestJSON(ctx, path, opt, &booking); err != nil {
		return nil, err
	}
	c.logger.Info().Int64("booking_id", bookingID).Msg("booking updated by admin")
	return &booking, nil
}

func (c *Client) DeleteBooking(ctx context.Context, bookingID int64) error {
	path := fmt.Sprintf("/admin/bookings/%d", bookingID)
	if err := c.api.RequestJSON(ctx, path, apiclient.Options{Method: http.MethodDelete, Auth: true}, nil); err != nil {
		return err
	}
	c.logger.Info().Int64("booking_id", bookingID).Msg("booking deleted by admin")
	return nil
}
