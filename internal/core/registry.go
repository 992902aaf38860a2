package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"herdcheck/pkg/domain"
)

// Feed column positions. A data row needs at least FeedColumns fields.
const (
	colID = iota
	colCategory
	colAgeYears
	colAgeMonths
	colUdders
	FeedColumns
)

// RowSource yields header-first feed rows.
type RowSource interface {
	Rows(ctx context.Context) ([][]string, error)
}

// LoadReport summarises one load. Err is set when the source could not be read.
type LoadReport struct {
	Rows        int      `json:"rows"`
	Loaded      int      `json:"loaded"`
	Skipped     int      `json:"skipped"`
	Overwritten int      `json:"overwritten"`
	Warnings    []string `json:"warnings,omitempty"`
	Err         error    `json:"-"`
}

// Registry holds records keyed by identifier. Rows are skipped when they
// have fewer than FeedColumns fields or an empty category; a later row with
// a duplicate identifier replaces the earlier record.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*domain.Record
	opts    options
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		records: make(map[string]*domain.Record),
		opts:    applyOptions(opts),
	}
}

// LoadSource reads rows from src and loads them. A source error is not
// fatal: the registry keeps its current contents and the error is logged and
// returned on the report.
func (r *Registry) LoadSource(ctx context.Context, src RowSource) LoadReport {
	rows, err := src.Rows(ctx)
	if err != nil {
		r.opts.logger.Warn("feed unreadable, registry left unchanged", "error", err, "records", r.Len())
		return LoadReport{Err: err}
	}
	return r.Load(rows)
}

// Load consumes header-first rows. The first row is always treated as the header.
func (r *Registry) Load(rows [][]string) LoadReport {
	var report LoadReport
	if len(rows) == 0 {
		return report
	}
	parsed := make([]*domain.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		report.Rows++
		rec, warning := parseRow(row)
		if warning != "" {
			report.Skipped++
			msg := fmt.Sprintf("line %d: %s", line, warning)
			report.Warnings = append(report.Warnings, msg)
			r.opts.logger.Warn("feed row skipped", "line", line, "reason", warning)
			continue
		}
		parsed = append(parsed, rec)
	}

	r.mu.Lock()
	for _, rec := range parsed {
		if _, exists := r.records[rec.ID()]; exists {
			report.Overwritten++
			r.opts.logger.Debug("duplicate record id replaced", "id", rec.ID())
		}
		r.records[rec.ID()] = rec
	}
	r.mu.Unlock()

	report.Loaded = len(parsed)
	r.opts.observer.ObserveFeedRows(report.Loaded, report.Skipped)
	r.opts.logger.Info("feed loaded", "rows", report.Rows, "loaded", report.Loaded, "skipped", report.Skipped, "overwritten", report.Overwritten)
	return report
}

func parseRow(row []string) (*domain.Record, string) {
	if len(row) < FeedColumns {
		return nil, fmt.Sprintf("expected %d fields, got %d", FeedColumns, len(row))
	}
	category := strings.TrimSpace(row[colCategory])
	if category == "" {
		return nil, "missing animal category"
	}
	id := strings.TrimSpace(row[colID])
	udders := domain.NoUdders()
	if n, ok := parseCount(row[colUdders]); ok {
		udders = domain.Udders(n)
	}
	years, _ := parseCount(row[colAgeYears])
	months, _ := parseCount(row[colAgeMonths])
	return domain.NewRecord(id, category, years, months, udders), ""
}

// parseCount parses a non-negative integer, reporting false for empty,
// malformed or negative input.
func parseCount(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FindByID returns the record stored under id.
func (r *Registry) FindByID(id string) (*domain.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	return rec, ok
}

// Len returns the number of stored records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Records returns snapshots of every record ordered by identifier.
func (r *Registry) Records() []domain.RecordView {
	r.mu.RLock()
	out := make([]domain.RecordView, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.View())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
