// Package backendsvc reads the hostel collections from the REST backend that owns them.
package backendsvc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/hostel"
	"github.com/pgmhostel/pgm/core/report"
)

// Collection endpoints, relative to the backend base URL.
const (
	studentsPath   = "/students"
	roomsPath      = "/rooms"
	paymentsPath   = "/payments"
	attendancePath = "/attendance"

	maxBodySize = 32 << 20
)

// ErrBodyTooLarge is returned when a collection exceeds the readable body size.
var ErrBodyTooLarge = errors.New("backend response too large")

// StatusError is returned when the backend answers with a non 2xx status.
type StatusError struct {
	Path string
	Code int
}

func (err StatusError) Error() string {
	return fmt.Sprintf("backend %s: %d %s", err.Path, err.Code, http.StatusText(err.Code))
}

// Client is a report.Source fetching every collection with a GET request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	maxBody int64
}

var _ report.Source = (*Client)(nil)

func NewClient(conf *core.Config) *Client {
	timeout := conf.Backend.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(conf.Backend.BaseURL, "/"),
		token:   conf.Backend.Token,
		http:    &http.Client{Timeout: timeout},
		maxBody: maxBodySize,
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, StatusError{Path: path, Code: res.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, c.maxBody+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if int64(len(body)) > c.maxBody {
		return nil, errors.Wrapf(ErrBodyTooLarge, "GET %s: over %d bytes", path, c.maxBody)
	}
	return body, nil
}

func (c *Client) Students(ctx context.Context) ([]hostel.Student, error) {
	body, err := c.get(ctx, studentsPath)
	if err != nil {
		return nil, err
	}
	return hostel.DecodeStudents(body)
}

func (c *Client) Rooms(ctx context.Context) ([]hostel.Room, error) {
	body, err := c.get(ctx, roomsPath)
	if err != nil {
		return nil, err
	}
	return hostel.DecodeRooms(body)
}

func (c *Client) Payments(ctx context.Context) ([]hostel.Payment, error) {
	body, err := c.get(ctx, paymentsPath)
	if err != nil {
		return nil, err
	}
	return hostel.DecodePayments(body)
}

func (c *Client) Attendance(ctx context.Context) ([]hostel.AttendanceRecord, error) {
	body, err := c.get(ctx, attendancePath)
	if err != nil {
		return nil, err
	}
	return hostel.DecodeAttendance(body)
}
