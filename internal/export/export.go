// Package export turns scoring results into a serializable payload and writes it as JSON
// or as an Excel workbook.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spigell/ats-insights/internal/ats"
	"github.com/spigell/ats-insights/internal/metrics"
)

// Format is the artifact type of an export request.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat is returned for formats rendered by an external collaborator.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Request selects the export format and the time range of history and timeline data.
type Request struct {
	Format    Format
	TimeRange metrics.Window
}

// Source is everything an export may include. Nil parts are omitted.
type Source struct {
	Snapshot     *ats.Snapshot
	History      ats.History
	Metrics      *metrics.TransformationMetrics
	BaselineRate float64
}

// Payload is the serializable export document.
type Payload struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	TimeRange   metrics.Window   `json:"timeRange"`
	Snapshot    *ats.Snapshot    `json:"snapshot,omitempty"`
	History     []ats.HistoryRow `json:"history"`
	Metrics     *MetricsReport   `json:"metrics,omitempty"`
}

// MetricsReport holds the aggregated transformation metrics.
type MetricsReport struct {
	Overall          metrics.OverallMetrics    `json:"overall"`
	Categories       []metrics.CategorySummary `json:"categories"`
	Timeline         []metrics.TimelineDelta   `json:"timeline"`
	TotalImprovement int                       `json:"totalImprovement"`
	Comparisons      metrics.ComparisonSummary `json:"comparisons"`
	ByStatus         []metrics.StatusReport    `json:"byStatus"`
	Prediction       metrics.Prediction        `json:"prediction"`
}

// Build assembles the payload. History rows and timeline points are limited to the
// requested time range; deltas are computed over the filtered sequence.
func Build(req Request, src Source, now time.Time) *Payload {
	window := req.TimeRange
	if window == "" {
		window = metrics.WindowAll
	}

	payload := &Payload{
		GeneratedAt: now,
		TimeRange:   window,
		Snapshot:    src.Snapshot,
		History:     historyRows(src.History, window, now),
	}

	if src.Metrics != nil {
		payload.Metrics = BuildMetricsReport(src.Metrics, window, src.BaselineRate, now)
	}

	return payload
}

// BuildMetricsReport runs every metrics aggregator over m.
func BuildMetricsReport(m *metrics.TransformationMetrics, window metrics.Window, baselineRate float64, now time.Time) *MetricsReport {
	return &MetricsReport{
		Overall:          m.Overall,
		Categories:       metrics.SummarizeCategories(m.ByCategory),
		Timeline:         metrics.Deltas(metrics.Range(m.Timeline, window, now)),
		TotalImprovement: metrics.TotalImprovement(m.Timeline),
		Comparisons:      metrics.SummarizeComparisons(m.Comparisons),
		ByStatus:         metrics.ReportByStatus(m.Comparisons),
		Prediction:       metrics.Predict(baselineRate, m.Overall, metrics.DefaultRateFactors()),
	}
}

func historyRows(h ats.History, window metrics.Window, now time.Time) []ats.HistoryRow {
	cutoff, filtered := window.Cutoff(now)
	if !filtered {
		return h.Rows()
	}

	kept := make([]ats.HistoryEntry, 0, h.Len())
	for _, e := range h.Entries() {
		if !e.Timestamp.Before(cutoff) {
			kept = append(kept, e)
		}
	}

	return ats.NewHistory(kept...).Rows()
}

// Write stores the payload at path in the requested format and returns the written path.
func Write(req Request, payload *Payload, path string) (string, error) {
	switch req.Format {
	case FormatJSON, "":
		return WriteJSON(payload, withExtension(path, ".json"))
	case FormatXLSX:
		return WriteWorkbook(payload, withExtension(path, ".xlsx"))
	case FormatPDF:
		return "", fmt.Errorf("%w: %s is rendered outside this tool", ErrUnsupportedFormat, req.Format)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
}

// WriteJSON writes the indented payload. An empty path creates a temporary file.
func WriteJSON(payload *Payload, path string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}

	if strings.TrimSpace(path) == "" {
		file, err := os.CreateTemp("", "ats-insights_*.json")
		if err != nil {
			return "", err
		}
		defer file.Close()

		if _, err := file.Write(buf.Bytes()); err != nil {
			return "", err
		}
		return file.Name(), nil
	}

	path = filepath.Clean(path)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	return path, nil
}

// LoadHistory reads previously exported history. It accepts either a bare array of entries
// or a full JSON export payload.
func LoadHistory(path string) (ats.History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ats.History{}, fmt.Errorf("reading history: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var payload struct {
			History json.RawMessage `json:"history"`
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return ats.History{}, fmt.Errorf("decoding export payload: %w", err)
		}
		trimmed = payload.History
	}

	var h ats.History
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return h, nil
	}
	if err := json.Unmarshal(trimmed, &h); err != nil {
		return ats.History{}, fmt.Errorf("decoding history: %w", err)
	}

	return h, nil
}

func withExtension(path, ext string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasSuffix(strings.ToLower(path), ext) {
		path += ext
	}
	return path
}
