package httpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teslashibe/go-behavior/pkg/behavior"
)

type call struct {
	method, path, body string
}

func fakeAPI(t *testing.T, calls *[]call) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*calls = append(*calls, call{r.Method, r.URL.Path, string(body)})
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/state" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(behavior.Snapshot{
				StateDisplay: behavior.StateDisplay{State: behavior.StateFocused},
				Ticks:        12,
			})
		case r.URL.Path == "/api/params":
			if r.Method == http.MethodGet {
				json.NewEncoder(w).Encode(behavior.DefaultParams())
				return
			}
			w.WriteHeader(http.StatusAccepted)
		case r.URL.Path == "/api/state/dancing":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"unknown mode: state \"dancing\""}`))
		default:
			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte(`{"status":"queued"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestControlReads(t *testing.T) {
	var calls []call
	c := NewControl(fakeAPI(t, &calls).URL+"/", nil)
	ctx := context.Background()

	snap, err := c.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.State != behavior.StateFocused || snap.Ticks != 12 {
		t.Errorf("snapshot = %+v", snap)
	}

	p, err := c.Params(ctx)
	if err != nil {
		t.Fatalf("Params() error = %v", err)
	}
	if p != behavior.DefaultParams() {
		t.Errorf("params = %+v", p)
	}
}

func TestControlWrites(t *testing.T) {
	var calls []call
	c := NewControl(fakeAPI(t, &calls).URL, nil)
	ctx := context.Background()

	rate := 20.0
	if err := c.UpdateParams(ctx, behavior.ParamUpdate{TickRate: &rate}); err != nil {
		t.Fatal(err)
	}
	if err := c.SetState(ctx, "listening"); err != nil {
		t.Fatal(err)
	}
	if err := c.ReloadCatalog(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Event(ctx, "say", map[string]string{"text": "hi"}); err != nil {
		t.Fatal(err)
	}

	want := []call{
		{http.MethodPut, "/api/params", `{"tick_rate":20}`},
		{http.MethodPost, "/api/state/listening", ""},
		{http.MethodPost, "/api/catalog/reload", ""},
		{http.MethodPost, "/api/events/say", `{"text":"hi"}`},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %+v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, calls[i], want[i])
		}
	}
}

func TestControlAPIError(t *testing.T) {
	var calls []call
	c := NewControl(fakeAPI(t, &calls).URL, nil)

	err := c.SetState(context.Background(), "dancing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message == "" {
		t.Errorf("APIError = %+v", apiErr)
	}
}
