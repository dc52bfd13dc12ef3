package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/OldStager01/latency-dashboard/internal/logger"
)

// Feed serves a generated source over HTTP that grows by one row every Tick,
// so remote sources and the monitor have something live to poll.
type Feed struct {
	config  Config
	tick    time.Duration
	started time.Time
	now     func() time.Time
	mu      sync.RWMutex
}

type FeedConfig struct {
	Generator Config
	// Tick is the wall time per new row. Defaults to the generator interval.
	Tick time.Duration
	Now  func() time.Time
}

func NewFeed(cfg FeedConfig) (*Feed, error) {
	if err := cfg.Generator.validate(); err != nil {
		return nil, fmt.Errorf("invalid feed config: %w", err)
	}
	if cfg.Tick <= 0 {
		cfg.Tick = cfg.Generator.Interval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Feed{config: cfg.Generator, tick: cfg.Tick, started: cfg.Now(), now: cfg.Now}, nil
}

// Rows is the number of rows the feed currently serves.
func (f *Feed) Rows() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.rowsLocked()
}

func (f *Feed) rowsLocked() int {
	return f.config.Rows + int(f.now().Sub(f.started)/f.tick)
}

// Snapshot returns the config that renders the current contents.
func (f *Feed) Snapshot() Config {
	f.mu.RLock()
	defer f.mu.RUnlock()

	cfg := f.config
	cfg.Rows = f.rowsLocked()
	cfg.Servers = slices.Clone(f.config.Servers)
	cfg.Overrides = slices.Clone(f.config.Overrides)
	return cfg
}

// InjectSpike multiplies the server's values by factor for the next rows.
func (f *Feed) InjectSpike(server string, factor float64, rows int) (Override, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.indexOf(server) < 0 {
		return Override{}, fmt.Errorf("unknown server %q", server)
	}
	if factor <= 0 || rows <= 0 {
		return Override{}, fmt.Errorf("factor and rows must be positive")
	}

	from := f.rowsLocked()
	o := Override{Server: server, FromStep: from, ToStep: from + rows, Factor: factor}
	f.config.Overrides = append(f.config.Overrides, o)

	logger.WithServer(server).Infof("Injected spike: x%.1f for %d rows", factor, rows)
	return o, nil
}

func (f *Feed) SetPattern(server string, pattern Pattern) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(server)
	if i < 0 {
		return fmt.Errorf("unknown server %q", server)
	}
	servers := slices.Clone(f.config.Servers)
	servers[i].Pattern = pattern
	f.config.Servers = servers

	logger.WithServer(server).Infof("Set pattern %s", pattern.Name())
	return nil
}

func (f *Feed) indexOf(server string) int {
	for i, s := range f.config.Servers {
		if s.Name == server {
			return i
		}
	}
	return -1
}

// Handler exposes the feed:
//
//	GET  /health
//	GET  /data.csv
//	GET  /servers
//	POST /spike   {"server": "srv1", "factor": 8, "rows": 12}
//	POST /pattern {"server": "srv1", "pattern": "daily"}
func (f *Feed) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", f.healthHandler)
	mux.HandleFunc("GET /data.csv", f.dataHandler)
	mux.HandleFunc("GET /servers", f.serversHandler)
	mux.HandleFunc("POST /spike", f.spikeHandler)
	mux.HandleFunc("POST /pattern", f.patternHandler)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *Feed) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "latency-feed"})
}

func (f *Feed) dataHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := Generate(&buf, f.Snapshot()); err != nil {
		logger.Errorf("Feed generation failed: %v", err)
		http.Error(w, "generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Write(buf.Bytes())
}

func (f *Feed) serversHandler(w http.ResponseWriter, r *http.Request) {
	cfg := f.Snapshot()
	servers := make([]map[string]interface{}, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		pattern := PatternSteady
		if s.Pattern != nil {
			pattern = s.Pattern
		}
		servers = append(servers, map[string]interface{}{
			"name":    s.Name,
			"base":    s.Base,
			"pattern": pattern.Name(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"servers": servers,
		"rows":    cfg.Rows,
	})
}

type SpikeRequest struct {
	Server string  `json:"server"`
	Factor float64 `json:"factor"`
	Rows   int     `json:"rows"`
}

func (f *Feed) spikeHandler(w http.ResponseWriter, r *http.Request) {
	var req SpikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Factor == 0 {
		req.Factor = 8
	}
	if req.Rows == 0 {
		req.Rows = 12
	}

	o, err := f.InjectSpike(req.Server, req.Factor, req.Rows)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "spike injected",
		"server":    o.Server,
		"factor":    o.Factor,
		"from_step": o.FromStep,
		"to_step":   o.ToStep,
	})
}

type PatternRequest struct {
	Server  string `json:"server"`
	Pattern string `json:"pattern"`
}

func (f *Feed) patternHandler(w http.ResponseWriter, r *http.Request) {
	var req PatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	pattern, err := ParsePattern(req.Pattern)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := f.SetPattern(req.Server, pattern); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "pattern set",
		"server":  req.Server,
		"pattern": pattern.Name(),
	})
}
