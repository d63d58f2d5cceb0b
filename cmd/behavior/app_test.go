package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teslashibe/go-behavior/internal/config"
	"github.com/teslashibe/go-behavior/pkg/behavior"
	"github.com/teslashibe/go-behavior/pkg/catalog"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp().WithOutput(&out, &errOut).ExecuteWithArgs(context.Background(), args)
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(t, "catalog", "--profiles")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	for _, want := range []string{catalog.DefaultSource, "idle_gestures", "State profiles", "listening", "head_leads_gaze"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestCatalogCommandFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	os.WriteFile(good, []byte("idle_gestures:\n  - name: wave\n    probability: 0.5\n"), 0o644)
	out, err := run(t, "catalog", "-f", good)
	if err != nil {
		t.Fatalf("catalog -f: %v", err)
	}
	if !strings.Contains(out, "wave") {
		t.Errorf("output missing entry: %s", out)
	}

	out, err = run(t, "catalog", "-f", good, "--profiles")
	if err != nil {
		t.Fatalf("catalog -f --profiles: %v", err)
	}
	if !strings.Contains(out, "speaking_gestures (missing)") {
		t.Errorf("profiles do not flag a list the file lacks: %s", out)
	}
	if strings.Contains(out, "idle_gestures (missing)") {
		t.Errorf("profiles flag a list the file defines: %s", out)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("idle_gestures:\n  - name: wave\n    probability: 3\n"), 0o644)
	if _, err := run(t, "catalog", "-f", bad); err == nil {
		t.Error("expected an error for an invalid catalog")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	_, err := run(t, "run", "--listen", "", "--log-level", "info")
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "listen") {
		t.Errorf("error = %v", err)
	}
}

func TestRenderSnapshot(t *testing.T) {
	out := renderSnapshot(behavior.Snapshot{
		StateDisplay: behavior.StateDisplay{State: behavior.StateFocused, LookAt: behavior.LookAtHand},
		Ticks:        99,
	})
	for _, want := range []string{"focused", "hand", "99"} {
		if !strings.Contains(out, want) {
			t.Errorf("snapshot output missing %q", want)
		}
	}
}

func TestRunOptionsOverride(t *testing.T) {
	cmd := NewApp().newRunCmd()
	if err := cmd.ParseFlags([]string{"--listen", ":9999", "--seed", "7"}); err != nil {
		t.Fatal(err)
	}
	opts := &runOptions{listen: ":9999", seed: 7}
	cfg := config.Default()
	cfg.RobotName = "from-file"
	opts.apply(cmd, &cfg)
	if cfg.Listen != ":9999" || cfg.Seed != 7 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.RobotName != "from-file" {
		t.Errorf("unset flag overrode RobotName: %q", cfg.RobotName)
	}
}

func TestCtlParamsDefaults(t *testing.T) {
	var got behavior.ParamUpdate
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method + " " + r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status":"accepted"}`))
	}))
	defer srv.Close()

	if _, err := run(t, "ctl", "--api", srv.URL, "params", "--defaults"); err != nil {
		t.Fatalf("ctl params --defaults: %v", err)
	}
	if method != "PUT /api/params" {
		t.Errorf("request = %s", method)
	}
	def := behavior.DefaultParams()
	if got.TickRate == nil || *got.TickRate != def.TickRate || got.GazeSpeed == nil || *got.GazeSpeed != def.GazeSpeed {
		t.Errorf("update = %+v, want every default set", got)
	}
	if got.State != nil || got.LookAt != nil {
		t.Errorf("reset carried mode overrides: %+v", got)
	}

	if _, err := run(t, "ctl", "--api", srv.URL, "params", "--defaults", "p.yaml"); err == nil {
		t.Error("expected an error for --defaults with a file")
	}
}
