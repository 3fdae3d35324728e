package app

import (
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/finextract/internal/extract"
)

// writeSummaryPDF renders the run summary as a one-table PDF. It is meant
// for quick review, not layout fidelity.
func writeSummaryPDF(sum Summary, outPath string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.AddPage()
	pdf.CellFormat(0, 8, "Financial extraction summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Run %s  %s", sum.RunID, sum.FinishedAt.Format("2006-01-02 15:04:05 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	widths := []float64{70, 18, 12, 14, 40, 40, 40, 30}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range summaryColumns {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, d := range sum.Documents {
		for i, v := range summaryRow(d) {
			align := "L"
			if i >= 4 && i <= 6 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, v, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.OutputFileAndClose(outPath)
}

var summaryColumns = []string{"Document", "Status", "Page", "Tier", extract.KeyRevenue, extract.KeyOperatingProfit, extract.KeyNetProfit, "Financial"}

// summaryRow formats d for tabular reports. Null amounts are blank.
func summaryRow(d DocumentResult) []string {
	page := ""
	if d.Page > 0 {
		page = strconv.Itoa(d.Page)
	}
	var rec extract.Record
	if d.Record != nil {
		rec = *d.Record
	}
	return []string{
		d.Document,
		string(d.Status),
		page,
		d.Tier,
		formatAmount(rec.Revenue),
		formatAmount(rec.OperatingProfit),
		formatAmount(rec.NetProfit),
		strconv.FormatBool(d.Financial),
	}
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
