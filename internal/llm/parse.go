package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"batidoc/internal"
	"batidoc/internal/util"
)

// FirstJSONObject extracts the first balanced {...} span from raw model
// output, tolerating surrounding prose and markdown fences. Returns "" when
// no balanced object exists.
func FirstJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}

type itemPayload struct {
	Items []rawItem `json:"items"`
}

// rawItem accepts the loosely typed values models produce: numbers arriving
// as strings, strings arriving as numbers.
type rawItem struct {
	Name        any `json:"name"`
	Description any `json:"description"`
	Category    any `json:"category"`
	Quantity    any `json:"quantity"`
	Unit        any `json:"unit"`
	Price       any `json:"price"`
	Currency    any `json:"currency"`
	Supplier    any `json:"supplier"`
}

// ParseItemsPayload validates and converts a model {"items":[...]} payload.
// Items without a usable name are dropped; a price without a currency gets
// defaultCurrency so the price⇒currency invariant holds at the boundary.
func ParseItemsPayload(doc []byte, defaultCurrency string) ([]internal.ExtractedItem, error) {
	if err := ValidateItemsDocument(doc); err != nil {
		return nil, err
	}

	var payload itemPayload
	if err := json.Unmarshal(doc, &payload); err != nil {
		return nil, fmt.Errorf("decode items payload: %w", err)
	}

	out := make([]internal.ExtractedItem, 0, len(payload.Items))
	for _, raw := range payload.Items {
		name := util.CollapseSpaces(coerceString(raw.Name))
		if name == "" {
			continue
		}
		item := internal.ExtractedItem{Name: name}
		if v := util.CollapseSpaces(coerceString(raw.Description)); v != "" {
			item.Description = util.StringPtr(v)
		}
		if v := util.CollapseSpaces(coerceString(raw.Category)); v != "" {
			item.Category = util.StringPtr(v)
		}
		if v := util.CollapseSpaces(coerceString(raw.Unit)); v != "" {
			item.Unit = util.StringPtr(v)
		}
		if v := util.CollapseSpaces(coerceString(raw.Supplier)); v != "" {
			item.Supplier = util.StringPtr(v)
		}
		if qty := coerceNumber(raw.Quantity); qty != nil && *qty >= 0 {
			item.Quantity = qty
		}
		if price := coerceNumber(raw.Price); price != nil && *price >= 0 {
			item.Price = price
			currency := strings.ToUpper(util.CollapseSpaces(coerceString(raw.Currency)))
			if currency == "" {
				currency = defaultCurrency
			}
			item.Currency = util.StringPtr(currency)
		}
		out = append(out, item)
	}
	return out, nil
}

// ParseMappingPayload converts a model structure-analysis payload into an
// AnalysisResult, keeping only known roles and sane indices.
func ParseMappingPayload(doc []byte, defaultCurrency string) (*internal.AnalysisResult, error) {
	var payload struct {
		HeaderRowIndex int                `json:"headerRowIndex"`
		Columns        map[string]float64 `json:"columns"`
		Currency       string             `json:"currency"`
		Confidence     float64            `json:"confidence"`
	}
	if err := json.Unmarshal(doc, &payload); err != nil {
		return nil, fmt.Errorf("decode mapping payload: %w", err)
	}

	columns := internal.ColumnMapping{}
	for _, role := range internal.Roles {
		if idx, ok := payload.Columns[string(role)]; ok && idx >= 0 {
			columns[role] = int(idx)
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("mapping payload has no usable columns")
	}

	currency := strings.ToUpper(strings.TrimSpace(payload.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	confidence := payload.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	headerIdx := payload.HeaderRowIndex
	if headerIdx < 0 {
		headerIdx = 0
	}

	return &internal.AnalysisResult{
		HeaderRowIndex: headerIdx,
		Columns:        columns,
		Currency:       currency,
		Confidence:     confidence,
	}, nil
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func coerceNumber(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return util.FloatPtr(t)
	case string:
		return util.ParseDecimal(t)
	default:
		return nil
	}
}
