// Package apiclient talks to a running planner server over HTTP.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/http/handlers"
	"github.com/mauv0809/team-planner/internal/planner"
	"github.com/mauv0809/team-planner/internal/roster"
)

// ErrUnauthorized is returned when the server rejects the auth cookie.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Client calls the planner HTTP API.
type Client struct {
	host string
	http *http.Client
}

var _ planner.Source = (*Client)(nil)

// New creates a client for host, e.g. "http://localhost:8080".
func New(host string) (*Client, error) {
	if _, err := url.Parse(host); err != nil {
		return nil, fmt.Errorf("invalid host %q: %w", host, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		host: host,
		http: &http.Client{Timeout: 10 * time.Second, Jar: jar},
	}, nil
}

// Login exchanges the shared password for an auth cookie kept by the client.
func (c *Client) Login(ctx context.Context, password string) error {
	return c.do(ctx, http.MethodPost, "/auth", handlers.AuthRequest{Password: password}, nil)
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) GetPlayers(ctx context.Context, activeOnly bool) ([]roster.Player, error) {
	path := "/players"
	if activeOnly {
		path += "?active=true"
	}
	var players []roster.Player
	if err := c.do(ctx, http.MethodGet, path, nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (c *Client) AddPlayer(ctx context.Context, name string, role roster.Role) (*roster.Player, error) {
	var p roster.Player
	if err := c.do(ctx, http.MethodPost, "/players", handlers.PlayerRequest{Name: name, Role: role}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePlayer(ctx context.Context, playerID, name string, role roster.Role) error {
	return c.do(ctx, http.MethodPut, "/players/"+url.PathEscape(playerID), handlers.PlayerRequest{Name: name, Role: role}, nil)
}

// Reorder stores a new display order and returns the roster as the server
// now has it. When the reorder fails the authoritative order is reloaded and
// returned together with the error, so callers never keep a local order the
// server rejected.
func (c *Client) Reorder(ctx context.Context, playerIDs []string) ([]roster.Player, error) {
	reorderErr := c.do(ctx, http.MethodPut, "/players/order", handlers.OrderRequest{IDs: playerIDs}, nil)
	players, err := c.GetPlayers(ctx, false)
	if reorderErr != nil {
		if err != nil {
			log.Warn("Failed to reload players after rejected reorder", "error", err)
		}
		return players, fmt.Errorf("reorder rejected: %w", reorderErr)
	}
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (c *Client) SetActive(ctx context.Context, playerID string, active bool) error {
	return c.do(ctx, http.MethodPost, "/players/"+url.PathEscape(playerID)+"/active", handlers.ActiveRequest{Active: active}, nil)
}

func (c *Client) DeletePlayer(ctx context.Context, playerID string) error {
	return c.do(ctx, http.MethodDelete, "/players/"+url.PathEscape(playerID), nil, nil)
}

func (c *Client) Window(ctx context.Context) (*handlers.WindowResponse, error) {
	var w handlers.WindowResponse
	if err := c.do(ctx, http.MethodGet, "/window", nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) GetAvailabilityForDate(ctx context.Context, date string) ([]availability.PlayerAvailability, error) {
	var data []availability.PlayerAvailability
	if err := c.do(ctx, http.MethodGet, "/availability/"+url.PathEscape(date), nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) UpdateIndividualStatus(ctx context.Context, playerID, date, hour string, status availability.Status) error {
	path := fmt.Sprintf("/availability/%s/players/%s/hours/%s", url.PathEscape(date), url.PathEscape(playerID), url.PathEscape(hour))
	return c.do(ctx, http.MethodPut, path, handlers.StatusRequest{Status: status}, nil)
}

func (c *Client) UpdateBulkStatus(ctx context.Context, playerID, date string, hours []string, status availability.Status) error {
	path := fmt.Sprintf("/availability/%s/players/%s", url.PathEscape(date), url.PathEscape(playerID))
	return c.do(ctx, http.MethodPut, path, handlers.HoursStatusRequest{Hours: hours, Status: status}, nil)
}

func (c *Client) DeleteDay(ctx context.Context, date string) (int64, error) {
	var resp handlers.DeleteDayResponse
	if err := c.do(ctx, http.MethodDelete, "/availability/"+url.PathEscape(date), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

func (c *Client) Opportunities(ctx context.Context, date string) (*handlers.OpportunitiesResponse, error) {
	var resp handlers.OpportunitiesResponse
	if err := c.do(ctx, http.MethodGet, "/availability/"+url.PathEscape(date)+"/opportunities", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug("Making request", "method", method, "url", req.URL.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e handlers.ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = string(bytes.TrimSpace(raw))
		}
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
