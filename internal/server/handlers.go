package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/san-kum/novacore/internal/config"
	"github.com/san-kum/novacore/internal/experiment"
	"github.com/san-kum/novacore/internal/loop"
	"github.com/san-kum/novacore/internal/telemetry"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]loop.Params, len(config.Presets))
	for _, name := range config.ListPresets() {
		out[name] = config.GetPreset(name).Params()
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	result, ok := s.run(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, telemetry.NewExportData(result))
}

func (s *Server) handleTelemetryCSV(w http.ResponseWriter, r *http.Request) {
	result, ok := s.run(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", telemetry.Filename))
	if err := telemetry.WriteCSV(w, result.Trajectory); err != nil {
		s.log.Warn("csv write failed", "run", result.ID, "err", err)
	}
}

// run simulates the request's parameters and records metrics. On failure it
// has already written the error response.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (*experiment.Result, bool) {
	params, err := s.parseParams(r.URL.Query())
	if err != nil {
		s.runs.WithLabelValues("invalid").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	result, err := experiment.Run(r.Context(), params, s.log)
	if err != nil {
		status := http.StatusInternalServerError
		outcome := "error"
		if errors.Is(err, loop.ErrInvalidParameter) {
			status, outcome = http.StatusBadRequest, "invalid"
		}
		s.runs.WithLabelValues(outcome).Inc()
		http.Error(w, err.Error(), status)
		return nil, false
	}

	s.runs.WithLabelValues("ok").Inc()
	s.runSeconds.Observe(result.Elapsed.Seconds())
	s.runSteps.Observe(float64(result.Summary.Steps))
	return result, true
}

// parseParams overlays query values on the defaults or on ?preset=. Keys
// use the YAML parameter names.
func (s *Server) parseParams(q url.Values) (loop.Params, error) {
	cfg := config.DefaultConfig()
	if name := q.Get("preset"); name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return loop.Params{}, fmt.Errorf("unknown preset: %s", name)
		}
	}

	keys := make([]string, 0, len(q))
	for k := range q {
		if k != "preset" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		v, err := strconv.ParseFloat(q.Get(k), 64)
		if err != nil {
			return loop.Params{}, fmt.Errorf("parameter %s: %w", k, err)
		}
		if err := cfg.Set(k, v); err != nil {
			return loop.Params{}, err
		}
	}

	p := cfg.Params()
	if err := p.Validate(); err != nil {
		return loop.Params{}, err
	}
	if n := p.Steps(); n > s.opts.MaxSteps {
		return loop.Params{}, &loop.ParamError{
			Field:  "duration",
			Value:  p.Duration,
			Reason: fmt.Sprintf("%d steps exceeds server limit of %d", n, s.opts.MaxSteps),
		}
	}
	return p, nil
}

// writeJSON encodes v before touching the response so an encode failure
// still produces an error status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.Error("json encode failed", "err", err)
		http.Error(w, "encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn("json write failed", "err", err)
	}
}
