package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"batidoc/internal"
	"batidoc/internal/config"
	"batidoc/internal/llm"
	"batidoc/internal/util"
)

// ErrNoContent is the only hard failure of an extraction run: the input
// carried nothing to work with. Everything else degrades.
var ErrNoContent = errors.New("no usable content in input")

// ExtractionService routes one ingestion request through the deterministic
// or AI-assisted path and owns the request's working memory. The service
// itself is stateless across requests.
type ExtractionService struct {
	cfg config.Config
	ai  *llm.Extractor
}

func NewExtractionService(cfg config.Config, ai *llm.Extractor) *ExtractionService {
	return &ExtractionService{cfg: cfg, ai: ai}
}

// Run executes the extraction policy for one input and returns the merged
// item set, summary stats and the method that produced the data.
func (s *ExtractionService) Run(ctx context.Context, input internal.ExtractionInput) (internal.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return internal.ExtractionResult{}, err
	}

	var (
		items    []internal.ExtractedItem
		method   internal.Method
		analysis *internal.AnalysisResult
		err      error
	)

	switch input.Kind {
	case internal.InputCSV:
		items, analysis, err = s.runCSV(input)
		method = internal.MethodCSV
	case internal.InputTable:
		items, analysis, method, err = s.runTable(ctx, input)
	case internal.InputText:
		items, err = s.runText(ctx, input)
		method = internal.MethodAI
	default:
		return internal.ExtractionResult{}, fmt.Errorf("unsupported input kind: %s", input.Kind)
	}
	if err != nil {
		return internal.ExtractionResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return internal.ExtractionResult{}, err
	}

	merged := MergeItems(items)
	return internal.ExtractionResult{
		Items:    merged,
		Stats:    computeStats(len(items), merged),
		Method:   method,
		Analysis: analysis,
	}, nil
}

// runCSV is the fully deterministic path: sniffed delimiter, header on row
// zero, keyword-classified columns. No model is ever consulted.
func (s *ExtractionService) runCSV(input internal.ExtractionInput) ([]internal.ExtractedItem, *internal.AnalysisResult, error) {
	if strings.TrimSpace(input.CSVText) == "" {
		return nil, nil, ErrNoContent
	}
	table, err := ParseCSV(input.CSVText)
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(table) == 0 {
		return nil, nil, ErrNoContent
	}

	mapping := input.Mapping
	headerIdx := input.HeaderRowIndex
	matched := 0
	if mapping == nil {
		mapping, matched = ClassifyHeader(table[0])
		headerIdx = 0
	}

	currency := util.DetectCurrency(joinCells(table))
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	confidence := confidenceBase + confidencePerRole*float64(matched)
	if confidence > confidenceCap {
		confidence = confidenceCap
	}
	analysis := &internal.AnalysisResult{
		HeaderRowIndex: headerIdx,
		Columns:        mapping,
		Currency:       currency,
		Confidence:     confidence,
	}

	return ExtractRows(table, mapping, headerIdx, currency), analysis, nil
}

// runTable analyzes a spreadsheet-shaped input. A trustworthy heuristic
// mapping goes straight to row extraction; a weak one triggers a model
// re-analysis, and if that fails too the heuristic mapping is still used so
// the caller always gets a best-effort result.
func (s *ExtractionService) runTable(ctx context.Context, input internal.ExtractionInput) ([]internal.ExtractedItem, *internal.AnalysisResult, internal.Method, error) {
	if len(input.Table) == 0 {
		return nil, nil, "", ErrNoContent
	}

	if input.Mapping != nil {
		currency := util.DetectCurrency(joinCells(input.Table))
		if currency == "" {
			currency = s.cfg.DefaultCurrency
		}
		items := ExtractRows(input.Table, input.Mapping, input.HeaderRowIndex, currency)
		return items, nil, internal.MethodTable, nil
	}

	sample := SampleRows(input.Table, headerScanLimit)
	analysis, matched := Analyze(sample, s.cfg.DefaultCurrency)

	if analysis.Confidence >= s.cfg.AnalyzeConfidenceThreshold && matched >= s.cfg.AnalyzeMinRoles {
		items := ExtractRows(input.Table, analysis.Columns, analysis.HeaderRowIndex, analysis.Currency)
		return items, &analysis, internal.MethodTable, nil
	}

	if s.ai.Available() {
		if reanalyzed, err := s.ai.AnalyzeTable(ctx, sample, s.cfg.DefaultCurrency); err == nil {
			items := ExtractRows(input.Table, reanalyzed.Columns, reanalyzed.HeaderRowIndex, reanalyzed.Currency)
			return items, reanalyzed, internal.MethodMixed, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, "", err
		}
	}

	items := ExtractRows(input.Table, analysis.Columns, analysis.HeaderRowIndex, analysis.Currency)
	return items, &analysis, internal.MethodHeuristic, nil
}

// runText chunks free-form text and folds the per-chunk model results into
// one accumulator. Chunks are processed one at a time so provider request
// sizes and rate limits stay predictable.
func (s *ExtractionService) runText(ctx context.Context, input internal.ExtractionInput) ([]internal.ExtractedItem, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrNoContent
	}

	currency := util.DetectCurrency(text)
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	chunks := SplitChunks(text, s.cfg.MaxChunkChars)
	items := make([]internal.ExtractedItem, 0)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		items = append(items, s.ai.ExtractChunk(ctx, chunk, currency, i, len(chunks))...)
	}
	return items, nil
}

func computeStats(totalRaw int, merged []internal.ExtractedItem) internal.ExtractionStats {
	stats := internal.ExtractionStats{
		TotalRawItems: totalRaw,
		UniqueItems:   len(merged),
	}
	for _, item := range merged {
		if item.Price != nil {
			stats.ItemsWithPrice++
		}
		if item.Supplier != nil {
			stats.ItemsWithSupplier++
		}
		if item.Category != nil {
			stats.ItemsWithCategory++
		}
	}
	return stats
}
