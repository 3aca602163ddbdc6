package pipeline

import (
	"strings"

	"batidoc/internal"
	"batidoc/internal/util"
)

var summaryMarkers = []string{"total", "sous-total"}

// ExtractRows walks the data rows after the header and applies per-column
// parsing rules. Rows without a usable name and summary ("total") rows are
// skipped; unparseable optional cells drop the field, never the row.
func ExtractRows(rows internal.RawTable, mapping internal.ColumnMapping, headerRowIndex int, defaultCurrency string) []internal.ExtractedItem {
	out := make([]internal.ExtractedItem, 0, len(rows))

	nameIdx := 0
	if idx, ok := mapping[internal.RoleName]; ok {
		nameIdx = idx
	}

	for i := headerRowIndex + 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}

		name := util.CollapseSpaces(pickCell(row, nameIdx, 0))
		if name == "" || isSummaryRow(name) {
			continue
		}

		item := internal.ExtractedItem{Name: name}

		if cell := mappedCell(row, mapping, internal.RoleDescription); cell != "" {
			item.Description = util.StringPtr(cell)
		}
		if cell := mappedCell(row, mapping, internal.RoleCategory); cell != "" {
			item.Category = util.StringPtr(cell)
		}
		if cell := mappedCell(row, mapping, internal.RoleUnit); cell != "" {
			item.Unit = util.StringPtr(cell)
		}
		if cell := mappedCell(row, mapping, internal.RoleSupplier); cell != "" {
			item.Supplier = util.StringPtr(cell)
		}
		if cell := mappedCell(row, mapping, internal.RoleQuantity); cell != "" {
			if qty := util.ParseDecimal(cell); qty != nil && *qty >= 0 {
				item.Quantity = qty
			}
		}
		if cell := mappedCell(row, mapping, internal.RolePrice); cell != "" {
			price, currency := util.ParsePrice(cell)
			if price != nil && *price >= 0 {
				item.Price = price
				if currency == nil {
					currency = util.StringPtr(defaultCurrency)
				}
				item.Currency = currency
			}
		}

		out = append(out, item)
	}

	return out
}

func isSummaryRow(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range summaryMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func mappedCell(row []string, mapping internal.ColumnMapping, role internal.ColumnRole) string {
	idx, ok := mapping[role]
	if !ok {
		return ""
	}
	return util.CollapseSpaces(pickCell(row, idx, -1))
}

func pickCell(cells []string, idx int, fallback int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	if fallback >= 0 && fallback < len(cells) {
		return strings.TrimSpace(cells[fallback])
	}
	return ""
}
