// Package backend is the boundary adapter for the remote Cleanify REST
// API. All positions cross this boundary exactly once, where the wire's
// [longitude, latitude] order is swapped into the internal (lat, lng)
// convention.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cleanify-client/internal/model"

	"github.com/avast/retry-go"
)

const (
	getRetryAttempts = 3
	getRetryDelay    = 200 * time.Millisecond
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// getJSON fetches with a short backoff retry. Only GETs are retried: they
// are idempotent, while a retried vote or submission could act twice.
// A 4xx response is unrecoverable and fails immediately.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return retry.Do(
		func() error {
			u := c.baseURL + path
			if len(query) > 0 {
				u += "?" + query.Encode()
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 {
				return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
			}
			if resp.StatusCode >= 400 {
				return retry.Unrecoverable(fmt.Errorf("GET %s: status %d", path, resp.StatusCode))
			}
			if out == nil {
				io.Copy(io.Discard, resp.Body)
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("GET %s: decode: %w", path, err))
			}
			return nil
		},
		retry.Attempts(getRetryAttempts),
		retry.Delay(getRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// cacheBuster defeats intermediary caching on list fetches, matching the
// original client's t= parameter.
func cacheBuster() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func (c *Client) ListReports(ctx context.Context) ([]model.Report, error) {
	q := url.Values{"t": {cacheBuster()}}
	var wire []wireReport
	if err := c.getJSON(ctx, "/api/reports", q, &wire); err != nil {
		return nil, err
	}
	reports := make([]model.Report, len(wire))
	for i, w := range wire {
		reports[i] = w.toReport()
	}
	return reports, nil
}

func (c *Client) ListReportsNearby(ctx context.Context, ref model.Point, radiusM float64) ([]model.Report, error) {
	q := url.Values{
		"filter": {"nearby"},
		"lat":    {strconv.FormatFloat(ref.Lat, 'f', -1, 64)},
		"lng":    {strconv.FormatFloat(ref.Lng, 'f', -1, 64)},
		"radius": {strconv.FormatFloat(radiusM, 'f', -1, 64)},
		"t":      {cacheBuster()},
	}
	var wire []wireReport
	if err := c.getJSON(ctx, "/api/reports", q, &wire); err != nil {
		return nil, err
	}
	reports := make([]model.Report, len(wire))
	for i, w := range wire {
		reports[i] = w.toReport()
	}
	return reports, nil
}

func (c *Client) GetReport(ctx context.Context, id string) (model.Report, error) {
	var wire wireReport
	if err := c.getJSON(ctx, "/api/reports/"+url.PathEscape(id), nil, &wire); err != nil {
		return model.Report{}, err
	}
	return wire.toReport(), nil
}

func (c *Client) CreateReport(ctx context.Context, category, description, address string, pos model.Point, photos []string) (model.Report, error) {
	payload := createReportPayload{
		Category:    category,
		Description: description,
		Address:     address,
		Lat:         pos.Lat,
		Lng:         pos.Lng,
		Photos:      photos,
	}
	var wire wireReport
	if err := c.send(ctx, http.MethodPost, "/api/reports", payload, &wire); err != nil {
		return model.Report{}, err
	}
	return wire.toReport(), nil
}

// Vote casts one vote and returns the backend's count of record.
func (c *Client) Vote(ctx context.Context, reportID string) (int, error) {
	var result voteResult
	if err := c.send(ctx, http.MethodPost, "/api/reports/"+url.PathEscape(reportID)+"/vote", nil, &result); err != nil {
		return 0, err
	}
	return result.Votes, nil
}

func (c *Client) GetBadge(ctx context.Context, name string) (model.Badge, error) {
	var wire wireBadge
	if err := c.getJSON(ctx, "/api/users/"+url.PathEscape(name), nil, &wire); err != nil {
		return model.Badge{}, err
	}
	return wire.toBadge(), nil
}

// IncrementReports bumps the user's submitted-reports counter and returns
// the updated badge.
func (c *Client) IncrementReports(ctx context.Context, name string) (model.Badge, error) {
	var wire wireBadge
	if err := c.send(ctx, http.MethodPost, "/api/users/"+url.PathEscape(name)+"/report-submitted", nil, &wire); err != nil {
		return model.Badge{}, err
	}
	return wire.toBadge(), nil
}

func (c *Client) UpdateEmail(ctx context.Context, name, email string) error {
	payload := map[string]string{"email": email}
	return c.send(ctx, http.MethodPost, "/api/users/"+url.PathEscape(name)+"/update-email", payload, nil)
}

func (c *Client) ListFacilities(ctx context.Context, near *model.Point) ([]model.Facility, error) {
	q := url.Values{}
	if near != nil {
		q.Set("nearby", fmt.Sprintf("%v,%v", near.Lat, near.Lng))
	}
	var wire []wireToilet
	if err := c.getJSON(ctx, "/api/toilets", q, &wire); err != nil {
		return nil, err
	}
	facilities := make([]model.Facility, len(wire))
	for i, w := range wire {
		facilities[i] = w.toFacility()
	}
	return facilities, nil
}

func (c *Client) CreateFacility(ctx context.Context, name, address string, pos model.Point) (model.Facility, error) {
	payload := createToiletPayload{Name: name, Address: address, Lat: pos.Lat, Lng: pos.Lng}
	var wire wireToilet
	if err := c.send(ctx, http.MethodPost, "/api/toilets", payload, &wire); err != nil {
		return model.Facility{}, err
	}
	return wire.toFacility(), nil
}

func (c *Client) UpdateFacilityStatus(ctx context.Context, id string, status model.FacilityStatus) error {
	payload := updateToiletPayload{Status: string(status)}
	return c.send(ctx, http.MethodPut, "/api/toilets/"+url.PathEscape(id), payload, nil)
}

func (c *Client) DeleteFacility(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/toilets/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListChat(ctx context.Context) ([]model.ChatMessage, error) {
	var wire []wireChatMessage
	if err := c.getJSON(ctx, "/api/chat", nil, &wire); err != nil {
		return nil, err
	}
	messages := make([]model.ChatMessage, len(wire))
	for i, w := range wire {
		messages[i] = w.toMessage()
	}
	return messages, nil
}

func (c *Client) SendChat(ctx context.Context, msg model.ChatMessage) (model.ChatMessage, error) {
	payload := wireChatMessage{Sender: msg.Sender, Badge: msg.Badge, Text: msg.Text}
	var wire wireChatMessage
	if err := c.send(ctx, http.MethodPost, "/api/chat", payload, &wire); err != nil {
		return model.ChatMessage{}, err
	}
	return wire.toMessage(), nil
}
