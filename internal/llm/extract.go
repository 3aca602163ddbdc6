package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"batidoc/internal"
)

// Extractor drives the AI-assisted path: one prompt per chunk, primary
// provider first, secondary as fallback, failures absorbed into empty
// results so the caller can always fall back to heuristics.
type Extractor struct {
	primary   Completer
	secondary Completer

	timeout      time.Duration
	promptBudget int
	log          *slog.Logger
}

func NewExtractor(primary, secondary Completer, timeout time.Duration, promptBudget int, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		primary:      primary,
		secondary:    secondary,
		timeout:      timeout,
		promptBudget: promptBudget,
		log:          logger,
	}
}

// Available reports whether at least one provider is configured.
func (e *Extractor) Available() bool {
	return e != nil && (e.primary != nil || e.secondary != nil)
}

// ExtractChunk prompts for one chunk of free text and returns the parsed
// items. Provider and parse failures yield an empty slice, never an error:
// degradation is handled here, not by the caller.
func (e *Extractor) ExtractChunk(ctx context.Context, chunk, currency string, chunkIndex, totalChunks int) []internal.ExtractedItem {
	if !e.Available() {
		return nil
	}

	prompt := BuildItemsPrompt(chunk, chunkIndex, totalChunks, currency, e.promptBudget)
	raw, err := e.complete(ctx, prompt)
	if err != nil {
		e.log.Warn("llm.extract.chunk_failed", "chunk", chunkIndex, "error", err)
		return nil
	}

	doc := FirstJSONObject(raw)
	if doc == "" {
		e.log.Warn("llm.extract.no_json_object", "chunk", chunkIndex, "response_length", len(raw))
		return nil
	}

	items, err := ParseItemsPayload([]byte(doc), currency)
	if err != nil {
		e.log.Warn("llm.extract.parse_failed", "chunk", chunkIndex, "error", err)
		return nil
	}
	return items
}

// AnalyzeTable asks a model to recover table structure when the keyword
// heuristics were inconclusive. Unlike ExtractChunk this surfaces the error:
// the orchestrator decides whether to fall back to the heuristic mapping.
func (e *Extractor) AnalyzeTable(ctx context.Context, sample internal.RawTable, defaultCurrency string) (*internal.AnalysisResult, error) {
	if !e.Available() {
		return nil, fmt.Errorf("no completion provider configured")
	}

	raw, err := e.complete(ctx, BuildMappingPrompt(sample))
	if err != nil {
		return nil, err
	}
	doc := FirstJSONObject(raw)
	if doc == "" {
		return nil, fmt.Errorf("no JSON object in model response")
	}
	return ParseMappingPayload([]byte(doc), defaultCurrency)
}

// complete tries the primary provider, then the secondary. Cancellation of
// the enclosing request stops the fallback chain immediately.
func (e *Extractor) complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, provider := range []Completer{e.primary, e.secondary} {
		if provider == nil {
			continue
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		callCtx := ctx
		var cancel context.CancelFunc
		if e.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		}
		raw, err := provider.Complete(callCtx, prompt)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return raw, nil
		}
		lastErr = err
		e.log.Warn("llm.complete.provider_failed", "provider", provider.Name(), "error", err)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no completion provider configured")
	}
	return "", lastErr
}
