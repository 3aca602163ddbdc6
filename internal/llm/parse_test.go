package llm

import (
	"testing"
)

func TestFirstJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare object", input: `{"items":[]}`, want: `{"items":[]}`},
		{name: "markdown fence", input: "```json\n{\"items\":[]}\n```", want: `{"items":[]}`},
		{name: "leading prose", input: `Voici le JSON demandé: {"a":1} merci.`, want: `{"a":1}`},
		{name: "nested objects", input: `x {"a":{"b":{"c":1}}} y`, want: `{"a":{"b":{"c":1}}}`},
		{name: "brace inside string", input: `{"name":"tôle } ondulée"}`, want: `{"name":"tôle } ondulée"}`},
		{name: "no object", input: "désolé, aucun résultat", want: ""},
		{name: "unbalanced", input: `{"a":1`, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FirstJSONObject(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestParseItemsPayload(t *testing.T) {
	doc := `{"items":[
		{"name":"Ciment CPA","quantity":50,"unit":"sac","price":4500,"currency":"xaf"},
		{"name":"Fer à béton","quantity":"20","price":"3 500"},
		{"name":"","price":100},
		{"description":"sans nom"}
	]}`

	items, err := ParseItemsPayload([]byte(doc), "XAF")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len=%d items=%v", len(items), items)
	}

	first := items[0]
	if first.Name != "Ciment CPA" || first.Quantity == nil || *first.Quantity != 50 {
		t.Fatalf("first=%+v", first)
	}
	if first.Currency == nil || *first.Currency != "XAF" {
		t.Fatalf("currency not upper-cased: %v", first.Currency)
	}

	second := items[1]
	if second.Quantity == nil || *second.Quantity != 20 {
		t.Fatalf("string quantity not coerced: %v", second.Quantity)
	}
	if second.Price == nil || *second.Price != 3500 {
		t.Fatalf("string price not coerced: %v", second.Price)
	}
	if second.Currency == nil || *second.Currency != "XAF" {
		t.Fatalf("default currency missing: %v", second.Currency)
	}
}

func TestParseItemsPayloadRejectsWrongShape(t *testing.T) {
	if _, err := ParseItemsPayload([]byte(`{"items":"pas un tableau"}`), "XAF"); err == nil {
		t.Fatal("expected schema error")
	}
	if _, err := ParseItemsPayload([]byte(`[1,2,3]`), "XAF"); err == nil {
		t.Fatal("expected schema error")
	}
}

func TestParseMappingPayload(t *testing.T) {
	doc := `{"headerRowIndex":2,"columns":{"name":0,"quantity":3,"price":5,"inconnu":9},"currency":"","confidence":1.4}`

	analysis, err := ParseMappingPayload([]byte(doc), "XAF")
	if err != nil {
		t.Fatal(err)
	}
	if analysis.HeaderRowIndex != 2 {
		t.Fatalf("headerRowIndex=%d", analysis.HeaderRowIndex)
	}
	if len(analysis.Columns) != 3 {
		t.Fatalf("columns=%v", analysis.Columns)
	}
	if analysis.Currency != "XAF" {
		t.Fatalf("currency=%q", analysis.Currency)
	}
	if analysis.Confidence != 1 {
		t.Fatalf("confidence clamp failed: %v", analysis.Confidence)
	}
}

func TestParseMappingPayloadNoColumns(t *testing.T) {
	if _, err := ParseMappingPayload([]byte(`{"headerRowIndex":0,"columns":{}}`), "XAF"); err == nil {
		t.Fatal("expected error for empty mapping")
	}
}
