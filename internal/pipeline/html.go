package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"batidoc/internal"
	"batidoc/internal/util"
)

// ParseHTMLTables converts every <table> in an HTML document into rows of a
// single RawTable. Supplier price lists pasted from web pages arrive this
// way; tables with a lone row carry no data and are skipped.
func ParseHTMLTables(html string) (internal.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	table := internal.RawTable{}
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		rows := sel.Find("tr")
		if rows.Length() < 2 {
			return
		}
		rows.Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.CollapseSpaces(cell.Text()))
			})
			if len(cells) > 0 {
				table = append(table, cells)
			}
		})
	})

	return table, nil
}
