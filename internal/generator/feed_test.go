package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/latency-dashboard/internal/dataset"
	"github.com/OldStager01/latency-dashboard/internal/source"
)

func newFeed(t *testing.T) (*Feed, *time.Time) {
	t.Helper()
	clock := start
	f, err := NewFeed(FeedConfig{
		Generator: Config{
			Servers:  []Server{{Name: "srv1", Base: 250}, {Name: "srv2", Base: 400}},
			Start:    start,
			Interval: time.Minute,
			Rows:     3,
		},
		Tick: time.Second,
		Now:  func() time.Time { return clock },
	})
	require.NoError(t, err)
	return f, &clock
}

func TestFeed_Grows(t *testing.T) {
	f, clock := newFeed(t)
	assert.Equal(t, 3, f.Rows())

	*clock = clock.Add(2500 * time.Millisecond)
	assert.Equal(t, 5, f.Rows())
	assert.Equal(t, 5, f.Snapshot().Rows)
}

func TestFeed_InjectSpike(t *testing.T) {
	f, _ := newFeed(t)

	o, err := f.InjectSpike("srv1", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, Override{Server: "srv1", FromStep: 3, ToStep: 5, Factor: 4}, o)

	_, err = f.InjectSpike("srv9", 4, 2)
	assert.Error(t, err)
	_, err = f.InjectSpike("srv1", 0, 2)
	assert.Error(t, err)
}

func TestFeed_Handler(t *testing.T) {
	f, clock := newFeed(t)
	srv := httptest.NewServer(f.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/spike", "application/json", strings.NewReader(`{"server":"srv1","factor":4,"rows":1}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/pattern", "application/json", strings.NewReader(`{"server":"srv2","pattern":"nope"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	*clock = clock.Add(time.Second)

	table, err := dataset.NewLoader(time.UTC).LoadSource(context.Background(), source.NewHTTP(source.HTTPConfig{URL: srv.URL + "/data.csv"}))
	require.NoError(t, err)
	require.Equal(t, 4, table.Len())
	assert.Equal(t, 250.0, table.Rows[2].Values[0])
	// 4 x 250 µs is written as "1.0 ms", which the unit heuristic keeps as 1
	assert.Equal(t, 1.0, table.Rows[3].Values[0])

	resp, err = http.Get(srv.URL + "/servers")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body struct {
		Rows    int `json:"rows"`
		Servers []struct {
			Name    string `json:"name"`
			Pattern string `json:"pattern"`
		} `json:"servers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 4, body.Rows)
	assert.Equal(t, "steady", body.Servers[1].Pattern)
}
