// Package pdf renders a calculation report as a one-or-more page PDF.
// Each section is drawn as a labelled box followed by a two-column table
// of line items; emphasised rows (totals) are bold and highlighted.
package pdf

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/paycalc/internal/domain"
)

// Renderer implements ports.ReportRenderer.
type Renderer struct {
	// Footer is printed bottom-left on every page.
	Footer string
}

func New() *Renderer { return &Renderer{Footer: "Generated by paycalc"} }

// Render writes r to w as a Letter-size PDF.
func (g *Renderer) Render(ctx context.Context, r *domain.Report, w io.Writer) error {
	if r == nil {
		return domain.ErrNilResult
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	pdf.SetFooterFunc(func() { g.drawFooter(pdf, r) })

	pdf.AddPage()
	drawReport(pdf, r)

	return pdf.Output(w)
}

func drawReport(pdf *fpdf.Fpdf, r *domain.Report) {
	pageW, _ := pdf.GetPageSize()
	marginL, marginT, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW*0.7, 7, r.Title, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 7, "Page "+fmt.Sprint(pdf.PageNo())+" of {nb}", "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetXY(marginL, marginT+12)
	if r.Subtitle != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 5.5, r.Subtitle, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	labelW := contentW * 0.6
	valueW := contentW - labelW
	rowH := 6.5

	for _, s := range r.Sections {
		// ── Section heading ──────────────────────────────────────────────────
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetX(marginL)
		pdf.CellFormat(contentW, 5.5, strings.ToUpper(s.Title), "1", 1, "L", true, 0, "")

		for i, row := range s.Rows {
			pdf.SetX(marginL)
			if i%2 == 0 {
				pdf.SetFillColor(250, 250, 250)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}
			if row.Emphasis {
				pdf.SetFont("Helvetica", "B", 8.5)
			} else {
				pdf.SetFont("Helvetica", "", 8.5)
			}
			pdf.CellFormat(labelW, rowH, row.Label, "1", 0, "L", true, 0, "")
			if row.Emphasis {
				pdf.SetFillColor(220, 240, 220)
			}
			pdf.CellFormat(valueW, rowH, row.Value, "1", 1, "R", true, 0, "")
		}
		pdf.Ln(4)
	}

	if len(r.Notes) > 0 {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(90, 90, 90)
		for _, n := range r.Notes {
			pdf.SetX(marginL)
			pdf.MultiCell(contentW, 4.5, n, "", "L", false)
		}
		pdf.SetTextColor(0, 0, 0)
	}
}

func (g *Renderer) drawFooter(pdf *fpdf.Fpdf, r *domain.Report) {
	pageW, pageH := pdf.GetPageSize()
	marginL, _, marginR, marginB := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	pdf.SetXY(marginL, pageH-marginB+4)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(contentW/2, 5, g.Footer, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, r.GeneratedAt.Format("Jan 2, 2006 15:04 MST"), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
