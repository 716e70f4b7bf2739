package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/san-kum/novacore/internal/loop"
	"github.com/san-kum/novacore/internal/telemetry"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := get(t, ts.URL+"/health")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Errorf("health = %d %q", resp.StatusCode, body)
	}
}

func TestSimulate(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := get(t, ts.URL+"/api/simulate?duration_min=10&metabolic_rate=0.001&temp_setpoint=21")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}

	var data telemetry.ExportData
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data.Time) != 600 {
		t.Errorf("expected 600 samples, got %d", len(data.Time))
	}
	if data.Params.MetabolicRate != 0.001 || data.Temp[0] != 21 {
		t.Errorf("query params not applied: %+v", data.Params)
	}
	if data.ID == "" {
		t.Error("missing run id")
	}
}

func TestSimulatePreset(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := get(t, ts.URL+"/api/simulate?preset=degraded-scrubber&duration=60")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}

	var data telemetry.ExportData
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Params.ScrubEfficiency != 0.05 {
		t.Errorf("preset not applied: %+v", data.Params)
	}
	if data.Summary.Steps != 60 {
		t.Errorf("expected 60 steps, got %d", data.Summary.Steps)
	}
}

func TestSimulateDivergingRun(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := get(t, ts.URL+"/api/simulate?rad_coeff=3&duration=3000")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %s", ct)
	}

	var data telemetry.ExportData
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data.Temp) != 3000 {
		t.Fatalf("expected 3000 samples, got %d", len(data.Temp))
	}
	if !math.IsNaN(float64(data.Summary.FinalTemp)) {
		t.Errorf("final temp = %v, want NaN", data.Summary.FinalTemp)
	}
	if !strings.Contains(body, `"NaN"`) {
		t.Error("body does not carry NaN samples")
	}
}

func TestSimulateBadRequests(t *testing.T) {
	ts := newTestServer(t, Options{MaxSteps: 1000})

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"negative dt", "dt=-1", "dt"},
		{"zero duration", "duration=0", "duration"},
		{"not a number", "heat_coeff=warm", "heat_coeff"},
		{"unknown parameter", "warp=9", "unknown parameter"},
		{"unknown preset", "preset=moonbase", "unknown preset"},
		{"over step limit", "duration_min=60", "server limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts.URL+"/api/simulate?"+tt.query)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("body %q missing %q", body, tt.want)
			}
		})
	}
}

func TestTelemetryCSV(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := get(t, ts.URL+"/api/telemetry.csv?duration=30")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %s", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "telemetry.csv") {
		t.Errorf("content disposition = %s", cd)
	}

	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 31 {
		t.Errorf("expected 31 records, got %d", len(records))
	}
}

func TestPresets(t *testing.T) {
	ts := newTestServer(t, Options{})

	_, body := get(t, ts.URL+"/api/presets")
	var presets map[string]loop.Params
	if err := json.Unmarshal([]byte(body), &presets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if presets["nominal"] != loop.DefaultParams() {
		t.Errorf("nominal preset = %+v", presets["nominal"])
	}
}

func TestConcurrentRequestsAreIsolated(t *testing.T) {
	ts := newTestServer(t, Options{})

	var wg sync.WaitGroup
	setpoints := []string{"18", "20", "22", "24", "26"}
	errs := make(chan string, len(setpoints))

	for _, sp := range setpoints {
		wg.Add(1)
		go func(sp string) {
			defer wg.Done()
			resp, err := http.Get(ts.URL + "/api/simulate?duration=120&temp_setpoint=" + sp)
			if err != nil {
				errs <- err.Error()
				return
			}
			defer resp.Body.Close()

			var data telemetry.ExportData
			if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
				errs <- err.Error()
				return
			}
			want, _ := strconv.ParseFloat(sp, 64)
			if data.Params.TempSetpoint != want || data.Temp[0] != telemetry.Float(want) {
				errs <- fmt.Sprintf("request for %s got setpoint %g", sp, data.Params.TempSetpoint)
			}
		}(sp)
	}

	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, Options{})

	get(t, ts.URL+"/api/simulate?duration=10")
	get(t, ts.URL+"/api/simulate?dt=0")

	_, body := get(t, ts.URL+"/metrics")
	for _, want := range []string{
		`novacore_runs_total{outcome="ok"} 1`,
		`novacore_runs_total{outcome="invalid"} 1`,
		"novacore_run_steps_count 1",
		"novacore_run_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
