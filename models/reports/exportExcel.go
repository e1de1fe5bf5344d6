package reports

import (
	"context"
	"fmt"
	"io"

	"github.com/mmfintech/bytebank_backend/models"
	"github.com/xuri/excelize/v2"
)

var statementExportHeaders = []string{"Date", "Description", "Type", "Category", "Amount", "Notes"}

// ExportStatementExcel writes an account's full statement as an xlsx
// workbook, oldest transaction first.
func ExportStatementExcel(ctx context.Context, w io.Writer, accountId int) error {
	opts := models.StatementOptions{Page: 1, Limit: 100, Sort: "date", Order: "asc"}

	var all []*models.Transaction
	for {
		page, pagination, err := models.GetStatement(ctx, accountId, opts)
		if err != nil {
			return err
		}
		all = append(all, page...)
		if !pagination.HasNextPage {
			break
		}
		opts.Page++
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Statement"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	col := 'A'
	for _, h := range statementExportHeaders {
		if err := f.SetCellValue(sheetName, string(col)+"1", h); err != nil {
			return err
		}
		col++
	}

	for i, t := range all {
		rowNo := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+rowNo, t.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, "B"+rowNo, t.Description)
		f.SetCellValue(sheetName, "C"+rowNo, string(t.Type))
		f.SetCellValue(sheetName, "D"+rowNo, t.Category)
		f.SetCellValue(sheetName, "E"+rowNo, t.SignedAmount().InexactFloat64())
		f.SetCellValue(sheetName, "F"+rowNo, t.Notes)
	}

	return f.Write(w)
}
