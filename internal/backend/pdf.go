package backend

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/hemalatha2205/CFO-Helper/internal/forecast"
	"github.com/hemalatha2205/CFO-Helper/internal/store"
)

// reportData is everything that goes into one exported report.
type reportData struct {
	GeneratedAt time.Time
	Scenario    *store.Scenario // nil when nothing has been simulated yet
	History     []store.Scenario
	Usage       forecast.Usage
}

// renderReport writes a one-page PDF summarising the latest scenario.
// Amounts are labelled INR since the core PDF fonts carry no rupee glyph.
func renderReport(w io.Writer, d reportData) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("CFO Helper Report", true)
	pdf.SetCreator("cfohelper", true)
	pdf.SetCreationDate(d.GeneratedAt)
	pdf.SetModificationDate(d.GeneratedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "CFO Helper Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+d.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if d.Scenario == nil {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.CellFormat(0, 8, "No scenario has been simulated yet.", "", 1, "L", false, 0, "")
	} else {
		sc := d.Scenario
		section(pdf, "Scenario")
		row(pdf, "Hires", strconv.Itoa(sc.Hires))
		row(pdf, "Extra spend", "INR "+amount(sc.ExtraSpend))
		row(pdf, "Price increase", amount(sc.PriceDelta)+"%")
		pdf.Ln(3)

		section(pdf, "Monthly forecast")
		row(pdf, "Revenue", "INR "+amount(sc.Forecast.Revenue))
		row(pdf, "Expenses", "INR "+amount(sc.Forecast.Expenses))
		row(pdf, "Profit", "INR "+amount(sc.Forecast.Profit))
		row(pdf, "Runway", amount(sc.Forecast.RunwayMonths)+" months")
		pdf.Ln(3)
	}

	if len(d.History) > 1 {
		section(pdf, "Recent scenarios")
		pdf.SetFont("Helvetica", "B", 9)
		for _, h := range []string{"When", "Hires", "Extra spend", "Price %", "Profit", "Runway"} {
			pdf.CellFormat(30, 6, h, "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		for _, sc := range d.History {
			pdf.CellFormat(30, 6, sc.CreatedAt.UTC().Format("01-02 15:04"), "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, strconv.Itoa(sc.Hires), "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, amount(sc.ExtraSpend), "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, amount(sc.PriceDelta), "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, amount(sc.Forecast.Profit), "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, amount(sc.Forecast.RunwayMonths), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Usage - Scenarios: %d, Reports: %d", d.Usage.Scenarios, d.Usage.Reports), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func row(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
