package pipeline

import (
	"batidoc/internal"
	"batidoc/internal/util"
)

// MergeItems collapses duplicate items by normalized name. Quantities sum,
// the longer description wins, and price/currency, supplier and category
// only backfill records that lack them. First-seen order is preserved.
func MergeItems(items []internal.ExtractedItem) []internal.ExtractedItem {
	order := make([]string, 0, len(items))
	byKey := make(map[string]*internal.ExtractedItem, len(items))

	for _, item := range items {
		key := util.NormalizeName(item.Name)
		if key == "" {
			continue
		}

		existing, ok := byKey[key]
		if !ok {
			clone := cloneItem(item)
			byKey[key] = &clone
			order = append(order, key)
			continue
		}

		mergeInto(existing, item)
	}

	out := make([]internal.ExtractedItem, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

func mergeInto(dst *internal.ExtractedItem, src internal.ExtractedItem) {
	if src.Quantity != nil {
		if dst.Quantity != nil {
			dst.Quantity = util.FloatPtr(*dst.Quantity + *src.Quantity)
		} else {
			dst.Quantity = util.FloatPtr(*src.Quantity)
		}
	}

	if src.Description != nil {
		if dst.Description == nil || len(*src.Description) > len(*dst.Description) {
			dst.Description = util.StringPtr(*src.Description)
		}
	}

	// Price and currency travel together so the price⇒currency invariant
	// survives the merge.
	if dst.Price == nil && src.Price != nil {
		dst.Price = util.FloatPtr(*src.Price)
		if src.Currency != nil {
			dst.Currency = util.StringPtr(*src.Currency)
		}
	}

	if dst.Supplier == nil && src.Supplier != nil {
		dst.Supplier = util.StringPtr(*src.Supplier)
	}
	if dst.Category == nil && src.Category != nil {
		dst.Category = util.StringPtr(*src.Category)
	}
	if dst.Unit == nil && src.Unit != nil {
		dst.Unit = util.StringPtr(*src.Unit)
	}
}

func cloneItem(item internal.ExtractedItem) internal.ExtractedItem {
	clone := internal.ExtractedItem{Name: item.Name}
	if item.Description != nil {
		clone.Description = util.StringPtr(*item.Description)
	}
	if item.Category != nil {
		clone.Category = util.StringPtr(*item.Category)
	}
	if item.Quantity != nil {
		clone.Quantity = util.FloatPtr(*item.Quantity)
	}
	if item.Unit != nil {
		clone.Unit = util.StringPtr(*item.Unit)
	}
	if item.Price != nil {
		clone.Price = util.FloatPtr(*item.Price)
	}
	if item.Currency != nil {
		clone.Currency = util.StringPtr(*item.Currency)
	}
	if item.Supplier != nil {
		clone.Supplier = util.StringPtr(*item.Supplier)
	}
	return clone
}
