package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"batidoc/internal"
)

// ExportItemsToXLSX writes the final item set to a workbook for review.
func ExportItemsToXLSX(items []internal.ExtractedItem, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"name", "description", "category", "quantity", "unit", "price", "currency", "supplier"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, item := range items {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, item.Name)
		set(2, derefString(item.Description))
		set(3, derefString(item.Category))
		set(4, derefFloat(item.Quantity))
		set(5, derefString(item.Unit))
		set(6, derefFloat(item.Price))
		set(7, derefString(item.Currency))
		set(8, derefString(item.Supplier))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
