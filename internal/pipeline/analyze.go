package pipeline

import (
	"strings"

	"batidoc/internal"
	"batidoc/internal/util"
)

const (
	headerScanLimit   = 15
	headerMinCells    = 3
	headerMaxCellLen  = 50
	confidenceBase    = 0.5
	confidencePerRole = 0.1
	confidenceCap     = 0.95
)

// roleKeywords drives header-cell classification. A cell matches a role when
// it contains one of the contains-markers or equals one of the exact-markers.
// The vocabulary is the French/English mix seen in supplier price lists.
type roleKeywords struct {
	role     internal.ColumnRole
	contains []string
	exact    []string
}

var headerKeywords = []roleKeywords{
	{role: internal.RoleName, contains: []string{"désignation", "designation", "libellé", "libelle", "article", "produit", "matériau", "materiau", "matériel", "materiel", "item"}, exact: []string{"nom", "name"}},
	{role: internal.RoleDescription, contains: []string{"description", "détail", "detail", "caractéristique", "caracteristique", "spécification", "specification", "observation"}},
	{role: internal.RoleCategory, contains: []string{"catégorie", "categorie", "category", "famille", "lot"}, exact: []string{"type"}},
	{role: internal.RoleQuantity, contains: []string{"quantité", "quantite", "qté", "qte", "qty", "nombre", "quantity"}, exact: []string{"q", "qt", "nb"}},
	{role: internal.RoleUnit, contains: []string{"unité", "unite", "mesure"}, exact: []string{"u", "un", "unit"}},
	{role: internal.RolePrice, contains: []string{"prix", "price", "montant", "coût", "cout", "tarif"}, exact: []string{"pu", "p.u", "p.u."}},
	{role: internal.RoleSupplier, contains: []string{"fournisseur", "supplier", "vendeur", "magasin", "quincaillerie"}},
}

// Analyze locates the header row of a table sample, classifies its columns
// and detects the dominant currency. The confidence score is a plain linear
// function of how many roles matched, not a probability; the second return
// is the raw keyword-match count the orchestrator routes on.
func Analyze(rows internal.RawTable, defaultCurrency string) (internal.AnalysisResult, int) {
	headerIdx := findHeaderRow(rows)

	var header []string
	if headerIdx < len(rows) {
		header = rows[headerIdx]
	}
	columns, matched := ClassifyHeader(header)

	currency := util.DetectCurrency(joinCells(rows))
	if currency == "" {
		currency = defaultCurrency
	}
	if currency == "" {
		currency = "XAF"
	}

	confidence := confidenceBase + confidencePerRole*float64(matched)
	if confidence > confidenceCap {
		confidence = confidenceCap
	}

	return internal.AnalysisResult{
		HeaderRowIndex: headerIdx,
		Columns:        columns,
		Currency:       currency,
		Confidence:     confidence,
	}, matched
}

// ClassifyHeader maps header cells to column roles. The first cell matching
// a role claims it; later cells matching an already-claimed role are
// ignored. When no cell matches the name role, the first non-empty cell is
// used so downstream extraction always has a name column. The returned count
// covers keyword matches only, not the name fallback.
func ClassifyHeader(header []string) (internal.ColumnMapping, int) {
	columns := internal.ColumnMapping{}
	matched := 0

	for idx, cell := range header {
		text := strings.ToLower(strings.TrimSpace(cell))
		if text == "" {
			continue
		}
		for _, kw := range headerKeywords {
			if _, taken := columns[kw.role]; taken {
				continue
			}
			if matchesRole(text, kw) {
				columns[kw.role] = idx
				matched++
				break
			}
		}
	}

	if _, ok := columns[internal.RoleName]; !ok {
		for idx, cell := range header {
			if strings.TrimSpace(cell) != "" {
				columns[internal.RoleName] = idx
				break
			}
		}
	}

	return columns, matched
}

func matchesRole(text string, kw roleKeywords) bool {
	for _, marker := range kw.exact {
		if text == marker {
			return true
		}
	}
	for _, marker := range kw.contains {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// findHeaderRow picks the first of the leading rows that looks like a title
// row: at least 3 short non-empty text cells. Row 0 is the fallback.
func findHeaderRow(rows internal.RawTable) int {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		plausible := 0
		for _, cell := range rows[i] {
			trimmed := strings.TrimSpace(cell)
			if trimmed != "" && len([]rune(trimmed)) < headerMaxCellLen {
				plausible++
			}
		}
		if plausible >= headerMinCells {
			return i
		}
	}
	return 0
}

func joinCells(rows internal.RawTable) string {
	var b strings.Builder
	for _, row := range rows {
		for _, cell := range row {
			b.WriteString(cell)
			b.WriteString(" ")
		}
	}
	return b.String()
}
