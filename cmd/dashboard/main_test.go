package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/OldStager01/latency-dashboard/internal/auth"
	"github.com/OldStager01/latency-dashboard/pkg/models"
	"github.com/OldStager01/latency-dashboard/pkg/validation"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestWriteStatus(t *testing.T) {
	report := statusReport{
		Server:       "srv1",
		Period:       "all",
		Rows:         2,
		HasData:      true,
		LatestValue:  250,
		MinThreshold: 100,
		MaxThreshold: 500,
		Status:       models.StatusWarning,
		Text:         "Status atual: WARNING",
		Mean:         165,
		P95:          250,
		Trend:        models.TrendFalling,
		Streak:       1,
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeStatus(&buf, report, "text"))
		assert.Contains(t, buf.String(), "Latest:      250 µs")
		assert.Contains(t, buf.String(), "Trend:       falling (mean 165 µs, p95 250 µs, 1 rows WARNING)")
		assert.True(t, strings.HasSuffix(buf.String(), "Status atual: WARNING\n"))
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeStatus(&buf, report, "json"))
		var got statusReport
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, report, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeStatus(&buf, report, "yaml"))
		assert.Contains(t, buf.String(), "status: WARNING")
		var got statusReport
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, report, got)
	})

	t.Run("no data", func(t *testing.T) {
		var buf bytes.Buffer
		empty := report
		empty.HasData, empty.LatestValue = false, 0
		require.NoError(t, writeStatus(&buf, empty, ""))
		assert.Contains(t, buf.String(), "Latest:      no data")
		assert.NotContains(t, buf.String(), "Trend:")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, writeStatus(&bytes.Buffer{}, report, "xml"))
	})
}

func TestParseStart(t *testing.T) {
	got, err := parseStart("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parseStart("2024-01-01T06:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 6, got.Hour())

	_, err = parseStart("yesterday")
	assert.Error(t, err)

	got, err = parseStart("")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), got, time.Hour)
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "data.csv")

	out := execute(t, "generate", "--data", source, "--log-level", "error",
		"--server", "srv1:250", "--server", "srv2:1500:spike",
		"--start", "2024-01-01", "--interval", "1h", "--rows", "3")
	assert.Contains(t, out, "Wrote 3 rows for 2 servers")

	out = execute(t, "status", "--data", source, "--log-level", "error", "--server", "srv1", "-o", "json")
	var report statusReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, models.StatusWarning, report.Status)
	assert.Equal(t, 250.0, report.LatestValue)
	assert.Equal(t, 3, report.Rows)

	exported := filepath.Join(dir, "dados.csv")
	out = execute(t, "export", "--data", source, "--log-level", "error", "--server", "srv1",
		"--start", "2024-01-01", "--end", "2024-01-01", "-o", exported)
	assert.Contains(t, out, "Exported 3 rows")

	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Time,srv1,srv2", lines[0])
	// "1.5 ms" is below the unit threshold and stays 1.5
	assert.Equal(t, "2024-01-01 00:00:00,250,1.5", lines[1])

	svg := filepath.Join(dir, "chart.svg")
	out = execute(t, "chart", "--data", source, "--log-level", "error", "--server", "srv1",
		"-f", "svg", "-o", svg)
	assert.Contains(t, out, "Status atual: WARNING")
	info, err := os.Stat(svg)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestHashPassword(t *testing.T) {
	run := func(stdin string) (string, error) {
		cmd := &cobra.Command{}
		var out bytes.Buffer
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(&out)
		err := runHashPassword(cmd, nil)
		return strings.TrimSpace(out.String()), err
	}

	hash, err := run("Str0ng!pass\n")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("Str0ng!pass", hash))

	_, err = run("weak\n")
	assert.ErrorIs(t, err, validation.ErrInvalidInput)

	_, err = run("")
	assert.ErrorContains(t, err, "no password")
}
