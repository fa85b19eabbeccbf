// Package export renders saved or fresh calculations as downloadable
// documents: plain text, PDF, HTML, CSV and a structured JSON envelope.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/csg33k/paycalc/internal/batch"
	"github.com/csg33k/paycalc/internal/domain"
	"github.com/csg33k/paycalc/internal/ports"
	"github.com/csg33k/paycalc/internal/templates"
)

// SchemaVersion identifies the layout of the JSON envelope.
const SchemaVersion = "1.0"

// Manager produces export artifacts. It holds no per-export state and is
// safe for concurrent use.
type Manager struct {
	pdf   ports.ReportRenderer
	log   *slog.Logger
	now   func() time.Time
	limit int
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option { return func(m *Manager) { m.log = l } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithConcurrency bounds how many items ExportMany renders at once.
func WithConcurrency(n int) Option { return func(m *Manager) { m.limit = n } }

// New returns a Manager that draws PDFs with pdf.
func New(pdf ports.ReportRenderer, opts ...Option) *Manager {
	m := &Manager{pdf: pdf, log: slog.Default(), now: time.Now, limit: 4}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Export renders c in the given format. The filename is
// "paycalc-<type>-<YYYY-MM-DD>.<ext>", so two exports of the same kind on
// one day share a name.
func (m *Manager) Export(ctx context.Context, c *domain.Calculation, format domain.ExportFormat) (*domain.Artifact, error) {
	return m.export(ctx, c, format, "paycalc-"+string(typeOf(c)))
}

// ExportItem renders a saved calculation, naming the file after the item.
func (m *Manager) ExportItem(ctx context.Context, item *domain.HistoryItem, format domain.ExportFormat) (*domain.Artifact, error) {
	if item == nil {
		return nil, domain.ErrNilResult
	}
	base := slug(item.Name)
	if base == "" {
		base = "paycalc-" + string(item.Type)
	}
	return m.export(ctx, &item.Calculation, format, base)
}

// ExportMany renders every item independently. A failing item is reported
// in its outcome and does not stop the others.
func (m *Manager) ExportMany(ctx context.Context, items []*domain.HistoryItem, format domain.ExportFormat) *batch.Report[*domain.Artifact] {
	r := batch.Run(ctx, items, m.limit, func(ctx context.Context, item *domain.HistoryItem) (*domain.Artifact, error) {
		return m.ExportItem(ctx, item, format)
	})
	m.log.Info("batch export finished",
		"format", format,
		"succeeded", r.Succeeded,
		"failed", r.Failed,
	)
	return r
}

func (m *Manager) export(ctx context.Context, c *domain.Calculation, format domain.ExportFormat, base string) (*domain.Artifact, error) {
	if !c.HasResult() {
		return nil, domain.ErrNilResult
	}
	if !supported(format) {
		return nil, &domain.ValidationError{Field: "format", Err: domain.ErrUnsupportedFormat,
			Message: "export format " + string(format) + " is not supported"}
	}
	doc, err := newDocument(c)
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()

	var buf bytes.Buffer
	if err := m.write(ctx, doc, now, format, &buf); err != nil {
		m.log.Error("export failed", "format", format, "type", c.Type, "err", err)
		return &domain.Artifact{
			Format:      format,
			GeneratedAt: now,
			Error:       err.Error(),
		}, fmt.Errorf("export %s: %w", format, err)
	}

	a := &domain.Artifact{
		Format:      format,
		Filename:    fmt.Sprintf("%s-%s.%s", base, now.Format(time.DateOnly), format.Extension()),
		ContentType: format.ContentType(),
		Size:        buf.Len(),
		GeneratedAt: now,
		Success:     true,
		Content:     buf.Bytes(),
	}
	m.log.Debug("export generated", "file", a.Filename, "bytes", a.Size)
	return a, nil
}

func (m *Manager) write(ctx context.Context, doc *document, now time.Time, format domain.ExportFormat, w io.Writer) error {
	switch format {
	case domain.FormatText:
		return writeText(doc, now, w)
	case domain.FormatCSV:
		return writeCSV(doc, w)
	case domain.FormatJSON:
		return writeJSON(doc, now, w)
	case domain.FormatHTML:
		return templates.Report(doc.report(now)).Render(ctx, w)
	case domain.FormatPDF:
		if m.pdf == nil {
			return errors.New("no pdf renderer configured")
		}
		return m.pdf.Render(ctx, doc.report(now), w)
	}
	return domain.ErrUnsupportedFormat
}

// report flattens the document into display rows.
func (d *document) report(now time.Time) *domain.Report {
	r := &domain.Report{
		Title:       d.title,
		Subtitle:    d.subtitle,
		GeneratedAt: now,
		Notes:       d.notes,
	}
	for _, s := range d.sections {
		rs := domain.ReportSection{Title: s.title}
		for _, l := range s.lines {
			rs.Rows = append(rs.Rows, domain.ReportRow{Label: l.label, Value: l.display(), Emphasis: l.emphasis})
		}
		r.Sections = append(r.Sections, rs)
	}
	return r
}

func supported(f domain.ExportFormat) bool {
	for _, s := range domain.ExportFormats() {
		if s == f {
			return true
		}
	}
	return false
}

func typeOf(c *domain.Calculation) domain.CalculationType {
	if c == nil {
		return ""
	}
	return c.Type
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
