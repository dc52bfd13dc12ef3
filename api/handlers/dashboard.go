package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/latency-dashboard/api/middleware"
	"github.com/OldStager01/latency-dashboard/internal/chart"
	"github.com/OldStager01/latency-dashboard/internal/dashboard"
	"github.com/OldStager01/latency-dashboard/internal/dataset"
	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/pkg/models"
	"github.com/OldStager01/latency-dashboard/pkg/validation"
)

const (
	minChartSize = 200
	maxChartSize = 4096
)

// DashboardService is the request/response core shared by every binding.
type DashboardService interface {
	Bounds() dashboard.Bounds
	Table() (*models.Table, error)
	Evaluate(ctx context.Context, in dashboard.SelectionInput) (*models.ViewModel, error)
	Export(ctx context.Context, w io.Writer, vm *models.ViewModel) error
	Reload(ctx context.Context) (*models.Table, error)
}

type DashboardHandler struct {
	service        DashboardService
	exportFilename string
}

func NewDashboardHandler(service DashboardService, exportFilename string) *DashboardHandler {
	if exportFilename == "" {
		exportFilename = dataset.ExportFilename
	}
	return &DashboardHandler{service: service, exportFilename: exportFilename}
}

type ServersResponse struct {
	Servers  []string         `json:"servers"`
	Rows     int              `json:"rows"`
	First    *time.Time       `json:"first,omitempty"`
	Last     *time.Time       `json:"last,omitempty"`
	LoadedAt time.Time        `json:"loaded_at"`
	Bounds   dashboard.Bounds `json:"bounds"`
}

type StatusResponse struct {
	Server      string        `json:"server"`
	Status      models.Status `json:"status"`
	LatestValue float64       `json:"latest_value"`
	HasData     bool          `json:"has_data"`
	Text        string        `json:"text"`
}

type ReloadResponse struct {
	Rows     int       `json:"rows"`
	Servers  []string  `json:"servers"`
	LoadedAt time.Time `json:"loaded_at"`
}

// bindSelection reads the selection query. An empty server selects the
// first column.
func bindSelection(c *gin.Context, in *dashboard.SelectionInput) error {
	if err := c.ShouldBindQuery(in); err != nil {
		return fmt.Errorf("%w: %v", dashboard.ErrInvalidSelection, err)
	}
	in.Server = validation.SanitizeString(in.Server)
	if in.Server == "" {
		return nil
	}
	if err := validation.ValidateServerName(in.Server); err != nil {
		return fmt.Errorf("%w: %v", dashboard.ErrInvalidSelection, err)
	}
	return nil
}

func (h *DashboardHandler) evaluate(c *gin.Context) (*models.ViewModel, bool) {
	var in dashboard.SelectionInput
	if err := bindSelection(c, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	vm, err := h.service.Evaluate(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return vm, true
}

// Servers godoc
// @Summary List server columns
// @Description Server columns of the loaded table with its row count, time span and threshold slider bounds
// @Tags Dashboard
// @Produce json
// @Success 200 {object} ServersResponse
// @Failure 503 {object} map[string]string "Dataset not loaded"
// @Router /api/servers [get]
func (h *DashboardHandler) Servers(c *gin.Context) {
	table, err := h.service.Table()
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ServersResponse{
		Servers:  table.Servers,
		Rows:     table.Len(),
		LoadedAt: table.Loaded,
		Bounds:   h.service.Bounds(),
	}
	if first, last, ok := table.Span(); ok {
		resp.First, resp.Last = &first, &last
	}

	c.JSON(http.StatusOK, resp)
}

// View godoc
// @Summary Evaluate a selection
// @Description Filters the table by date, classifies the latest value and returns the chart spec
// @Tags Dashboard
// @Produce json
// @Param server query string false "Server column, defaults to the first one"
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param min query number false "Minimum threshold in microseconds"
// @Param max query number false "Maximum threshold in microseconds"
// @Success 200 {object} models.ViewModel
// @Failure 400 {object} map[string]string "Invalid selection"
// @Failure 404 {object} map[string]string "Unknown server"
// @Failure 503 {object} map[string]string "Dataset not loaded"
// @Router /api/view [get]
func (h *DashboardHandler) View(c *gin.Context) {
	vm, ok := h.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, vm)
}

// Status godoc
// @Summary Current status
// @Tags Dashboard
// @Produce json
// @Param server query string false "Server column, defaults to the first one"
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param min query number false "Minimum threshold in microseconds"
// @Param max query number false "Maximum threshold in microseconds"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} map[string]string "Invalid selection"
// @Failure 404 {object} map[string]string "Unknown server"
// @Router /api/status [get]
func (h *DashboardHandler) Status(c *gin.Context) {
	vm, ok := h.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, StatusResponse{
		Server:      vm.Selection.Server,
		Status:      vm.Status,
		LatestValue: vm.LatestValue,
		HasData:     vm.HasData,
		Text:        vm.StatusText,
	})
}

// Chart godoc
// @Summary Response time chart
// @Description Line chart of the selected server with the min and max reference lines
// @Tags Dashboard
// @Produce png
// @Produce image/svg+xml
// @Param server query string false "Server column, defaults to the first one"
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param min query number false "Minimum threshold in microseconds"
// @Param max query number false "Maximum threshold in microseconds"
// @Param width query int false "Image width in pixels"
// @Param height query int false "Image height in pixels"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "No data in the selected period"
// @Router /api/chart.png [get]
// @Router /api/chart.svg [get]
func (h *DashboardHandler) Chart(format chart.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		width, err := chartSize(c.Query("width"), chart.DefaultWidth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width: " + err.Error()})
			return
		}
		height, err := chartSize(c.Query("height"), chart.DefaultHeight)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "height: " + err.Error()})
			return
		}

		vm, ok := h.evaluate(c)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := chart.Render(&buf, vm.Chart, format, width, height); err != nil {
			respondError(c, err)
			return
		}

		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
	}
}

func chartSize(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if n < minChartSize || n > maxChartSize {
		return 0, fmt.Errorf("must be between %d and %d", minChartSize, maxChartSize)
	}
	return n, nil
}

// Export godoc
// @Summary Export the filtered view
// @Description Downloads the rows of the selected period as CSV with normalized values
// @Tags Dashboard
// @Produce text/csv
// @Param server query string false "Server column, defaults to the first one"
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string "Invalid selection"
// @Router /api/export [get]
func (h *DashboardHandler) Export(c *gin.Context) {
	vm, ok := h.evaluate(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), &buf, vm); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exportFilename))
	c.Data(http.StatusOK, dataset.ExportContentType, buf.Bytes())
}

// Reload godoc
// @Summary Reload the source file
// @Description Re-reads and normalizes the configured source. The previous table keeps serving on failure.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ReloadResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Source could not be normalized"
// @Router /api/reload [post]
func (h *DashboardHandler) Reload(c *gin.Context) {
	ctx := c.Request.Context()
	table, err := h.service.Reload(ctx)
	if err != nil {
		logger.WarnCtxf(ctx, "Reload requested by %s failed: %v", middleware.GetUsername(c), err)
		respondError(c, err)
		return
	}
	logger.InfoCtxf(ctx, "Reload requested by %s: %d rows", middleware.GetUsername(c), table.Len())
	c.JSON(http.StatusOK, ReloadResponse{
		Rows:     table.Len(),
		Servers:  table.Servers,
		LoadedAt: table.Loaded,
	})
}

type pageData struct {
	Servers   []string
	Input     dashboard.SelectionInput
	Bounds    dashboard.Bounds
	View      *models.ViewModel
	Min       float64
	Max       float64
	ChartURL  template.URL
	ExportURL template.URL
	Error     string
}

// Page renders the HTML dashboard.
func (h *DashboardHandler) Page(c *gin.Context) {
	data := pageData{Bounds: h.service.Bounds()}
	data.Min, data.Max = data.Bounds.DefaultMin, data.Bounds.DefaultMax

	table, err := h.service.Table()
	if err != nil {
		data.Error = err.Error()
		c.HTML(statusFor(err), "dashboard.html", data)
		return
	}
	data.Servers = table.Servers

	if err := bindSelection(c, &data.Input); err != nil {
		data.Error = err.Error()
		c.HTML(http.StatusBadRequest, "dashboard.html", data)
		return
	}
	if data.Input.Min != nil {
		data.Min = *data.Input.Min
	}
	if data.Input.Max != nil {
		data.Max = *data.Input.Max
	}

	vm, err := h.service.Evaluate(c.Request.Context(), data.Input)
	if err != nil {
		data.Error = err.Error()
		c.HTML(statusFor(err), "dashboard.html", data)
		return
	}
	data.View = vm
	data.Input.Server = vm.Selection.Server
	query := selectionQuery(vm.Selection)
	data.ChartURL = template.URL("/api/chart.png?" + query)
	data.ExportURL = template.URL("/api/export?" + query)

	c.HTML(http.StatusOK, "dashboard.html", data)
}

func selectionQuery(sel models.Selection) string {
	q := url.Values{}
	q.Set("server", sel.Server)
	if sel.Range != nil {
		q.Set("start", sel.Range.Start.Format(time.DateOnly))
		q.Set("end", sel.Range.End.Format(time.DateOnly))
	}
	q.Set("min", strconv.FormatFloat(sel.MinThreshold, 'f', -1, 64))
	q.Set("max", strconv.FormatFloat(sel.MaxThreshold, 'f', -1, 64))
	return q.Encode()
}
