package pipeline

import (
	"context"
	"testing"

	"batidoc/internal"
)

func TestParseHTMLTables(t *testing.T) {
	html := `<html><body>
	<p>Catalogue</p>
	<table><tr><td>seule ligne, ignorée</td></tr></table>
	<table>
		<tr><th>Désignation</th><th>Qté</th><th>Prix</th></tr>
		<tr><td>Ciment   CPA</td><td>50</td><td>4500 FCFA</td></tr>
	</table>
	</body></html>`

	table, err := ParseHTMLTables(html)
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 2 {
		t.Fatalf("rows=%v", table)
	}
	if table[1][0] != "Ciment CPA" {
		t.Fatalf("whitespace not collapsed: %q", table[1][0])
	}

	svc := NewExtractionService(testConfig(), nil)
	result, err := svc.Run(context.Background(), internal.ExtractionInput{Kind: internal.InputTable, Table: table})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Items) != 1 || result.Items[0].Name != "Ciment CPA" {
		t.Fatalf("items=%v", result.Items)
	}
}

func TestParseHTMLTablesNoTables(t *testing.T) {
	table, err := ParseHTMLTables("<p>pas de tableau ici</p>")
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 0 {
		t.Fatalf("table=%v", table)
	}
}
