package httpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/teslashibe/go-behavior/pkg/behavior"
)

// APIError is a non-2xx reply from the control API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("control api: %d: %s", e.Status, e.Message)
}

// Control talks to a running engine's REST API.
type Control struct {
	base string
	http *http.Client
}

// NewControl creates a client for base, e.g. http://localhost:8090.
// A nil client uses the shared Client.
func NewControl(base string, client *http.Client) *Control {
	if client == nil {
		client = Client
	}
	return &Control{base: strings.TrimRight(base, "/"), http: client}
}

// Health returns GET /api/health.
func (c *Control) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodGet, "/api/health", nil, &out)
}

// Snapshot returns the engine snapshot.
func (c *Control) Snapshot(ctx context.Context) (behavior.Snapshot, error) {
	var out behavior.Snapshot
	return out, c.do(ctx, http.MethodGet, "/api/state", nil, &out)
}

// Params returns the live parameters.
func (c *Control) Params(ctx context.Context) (behavior.Params, error) {
	var out behavior.Params
	return out, c.do(ctx, http.MethodGet, "/api/params", nil, &out)
}

// UpdateParams sends a partial parameter update.
func (c *Control) UpdateParams(ctx context.Context, u behavior.ParamUpdate) error {
	return c.do(ctx, http.MethodPut, "/api/params", u, nil)
}

// SetState forces the activity state by name.
func (c *Control) SetState(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/api/state/"+url.PathEscape(name), nil, nil)
}

// ReloadCatalog asks the engine to reload its animation catalog.
func (c *Control) ReloadCatalog(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/catalog/reload", nil, nil)
}

// Event injects a chat, speech or say event. body may be nil.
func (c *Control) Event(ctx context.Context, kind string, body any) error {
	return c.do(ctx, http.MethodPost, "/api/events/"+url.PathEscape(kind), body, nil)
}

func (c *Control) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
