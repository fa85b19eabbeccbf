package pdf_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/csg33k/paycalc/internal/adapters/pdf"
	"github.com/csg33k/paycalc/internal/domain"
)

func TestRender(t *testing.T) {
	r := &domain.Report{
		Title:       "Contract Pay Report",
		Subtitle:    "$85.00/hr in Austin, TX",
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Sections: []domain.ReportSection{
			{Title: "Summary", Rows: []domain.ReportRow{
				{Label: "Gross pay", Value: "$44,200.00"},
				{Label: "Net pay", Value: "$35,000.00", Emphasis: true},
			}},
		},
		Notes: []string{"Taxes are estimates."},
	}
	var buf bytes.Buffer
	if err := pdf.New().Render(context.Background(), r, &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestRender_NilReport(t *testing.T) {
	var buf bytes.Buffer
	if err := pdf.New().Render(context.Background(), nil, &buf); !errors.Is(err, domain.ErrNilResult) {
		t.Errorf("err = %v, want ErrNilResult", err)
	}
}
