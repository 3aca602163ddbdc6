package llm

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"batidoc/internal"
)

// BuildItemsPrompt renders the per-chunk extraction instruction. The chunk
// text is truncated to charBudget so the request stays inside provider
// limits even when the chunker was configured generously.
func BuildItemsPrompt(chunk string, chunkIndex, totalChunks int, currency string, charBudget int) string {
	text := chunk
	if charBudget > 0 && len(text) > charBudget {
		cut := charBudget
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "\n…(tronqué)"
	}

	var b strings.Builder
	b.WriteString("Tu analyses un extrait de document décrivant des matériaux de construction et leurs prix.\n")
	fmt.Fprintf(&b, "Extrait %d sur %d. Devise par défaut: %s.\n\n", chunkIndex+1, totalChunks, currency)
	b.WriteString("Retourne UNIQUEMENT un objet JSON de la forme:\n")
	b.WriteString(`{"items":[{"name":"...","description":"...","category":"...","quantity":0,"unit":"...","price":0,"currency":"` + currency + `","supplier":"..."}]}` + "\n")
	b.WriteString("Règles: 'name' est obligatoire; omets les champs inconnus au lieu de mettre null; ")
	b.WriteString("'quantity' et 'price' sont des nombres; 'currency' est un code à 3 lettres; ")
	b.WriteString("ignore les lignes de total ou de sous-total.\n\n")
	b.WriteString("Texte:\n")
	b.WriteString(text)
	return b.String()
}

// BuildMappingPrompt asks the model to re-analyze table structure when the
// keyword heuristics were inconclusive. The expected payload matches
// internal.AnalysisResult.
func BuildMappingPrompt(sample internal.RawTable) string {
	var b strings.Builder
	b.WriteString("Voici les premières lignes d'un tableau de matériaux de construction.\n")
	b.WriteString("Identifie la ligne d'en-tête et le rôle de chaque colonne.\n\n")
	for i, row := range sample {
		fmt.Fprintf(&b, "ligne %d: %s\n", i, strings.Join(row, " | "))
	}
	b.WriteString("\nRetourne UNIQUEMENT un objet JSON de la forme:\n")
	b.WriteString(`{"headerRowIndex":0,"columns":{"name":0,"description":1,"category":2,"quantity":3,"unit":4,"price":5,"supplier":6},"currency":"XAF","confidence":0.9}` + "\n")
	b.WriteString("N'inclus dans 'columns' que les rôles réellement présents.\n")
	return b.String()
}
