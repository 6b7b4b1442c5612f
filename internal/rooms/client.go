// Package rooms is the request/response client for room lifecycle calls.
package rooms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DoyleJ11/cube-draft/pkg/types"
)

var ErrNoDevice = errors.New("device id required")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rooms: http %d: %s", e.Code, e.Body)
}

type Client struct {
	BaseURL  string
	DeviceID string
	HTTP     *http.Client
}

func New(baseURL, deviceID string) *Client {
	return &Client{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		DeviceID: deviceID,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Create(ctx context.Context, req types.CreateRoomRequest) (string, error) {
	var out types.CreateRoomResponse
	if err := c.do(ctx, http.MethodPost, "/rooms", req, &out); err != nil {
		return "", err
	}
	return out.RoomID, nil
}

func (c *Client) List(ctx context.Context) ([]types.Room, error) {
	var out []types.Room
	if err := c.do(ctx, http.MethodGet, "/rooms", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/rooms/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.DeviceID == "" {
		return ErrNoDevice
	}
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set(types.DeviceHeader, c.DeviceID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
