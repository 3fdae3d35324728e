package app

import (
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// writeSummaryXLSX writes one row per document. Amounts are numeric cells.
func writeSummaryXLSX(sum Summary, outPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	_ = f.DeleteSheet("Sheet1")
	if index, _ := f.GetSheetIndex(summarySheet); index >= 0 {
		f.SetActiveSheet(index)
	}

	for i, h := range summaryColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return err
		}
	}
	for r, d := range sum.Documents {
		row := summaryRow(d)
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			var value any = v
			if amt := amountCell(d, c); amt != nil {
				value = *amt
			}
			if err := f.SetCellValue(summarySheet, cell, value); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(outPath)
}

// amountCell returns the numeric amount shown in column c, if any.
func amountCell(d DocumentResult, c int) *float64 {
	if d.Record == nil {
		return nil
	}
	switch c {
	case 4:
		return d.Record.Revenue
	case 5:
		return d.Record.OperatingProfit
	case 6:
		return d.Record.NetProfit
	}
	return nil
}
