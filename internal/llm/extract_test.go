package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"batidoc/internal"
)

type scriptedCompleter struct {
	reply string
	err   error
	calls int
}

func (s *scriptedCompleter) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *scriptedCompleter) Name() string { return "scripted" }

func newTestExtractor(primary, secondary Completer) *Extractor {
	return NewExtractor(primary, secondary, time.Second, 6000, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExtractChunkFallsBackToSecondary(t *testing.T) {
	primary := &scriptedCompleter{err: errors.New("boom")}
	secondary := &scriptedCompleter{reply: `{"items":[{"name":"Ciment","price":4500}]}`}

	items := newTestExtractor(primary, secondary).ExtractChunk(context.Background(), "50 sacs de ciment", "XAF", 0, 1)
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("calls primary=%d secondary=%d", primary.calls, secondary.calls)
	}
	if len(items) != 1 || items[0].Name != "Ciment" {
		t.Fatalf("items=%v", items)
	}
	if items[0].Currency == nil || *items[0].Currency != "XAF" {
		t.Fatalf("currency=%v", items[0].Currency)
	}
}

func TestExtractChunkAbsorbsGarbageResponse(t *testing.T) {
	primary := &scriptedCompleter{reply: "je ne peux pas répondre"}

	items := newTestExtractor(primary, nil).ExtractChunk(context.Background(), "texte", "XAF", 0, 1)
	if items != nil {
		t.Fatalf("items=%v", items)
	}
}

func TestExtractChunkUnconfiguredProviders(t *testing.T) {
	items := newTestExtractor(nil, nil).ExtractChunk(context.Background(), "texte", "XAF", 0, 1)
	if items != nil {
		t.Fatalf("items=%v", items)
	}

	var missing *Extractor
	if missing.Available() {
		t.Fatal("nil extractor reported available")
	}
}

func TestExtractChunkStopsOnCancelledContext(t *testing.T) {
	primary := &scriptedCompleter{reply: `{"items":[{"name":"Ciment"}]}`}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := newTestExtractor(primary, nil).ExtractChunk(ctx, "texte", "XAF", 0, 1)
	if primary.calls != 0 {
		t.Fatalf("provider called after cancellation: %d", primary.calls)
	}
	if items != nil {
		t.Fatalf("items=%v", items)
	}
}

func TestAnalyzeTable(t *testing.T) {
	primary := &scriptedCompleter{reply: "Voici:\n" + `{"headerRowIndex":1,"columns":{"name":0,"price":2},"currency":"XAF","confidence":0.85}`}

	sample := internal.RawTable{{"titre"}, {"Désignation", "Qté", "Prix"}}
	analysis, err := newTestExtractor(primary, nil).AnalyzeTable(context.Background(), sample, "XAF")
	if err != nil {
		t.Fatal(err)
	}
	if analysis.HeaderRowIndex != 1 || len(analysis.Columns) != 2 {
		t.Fatalf("analysis=%+v", analysis)
	}
}

func TestAnalyzeTableSurfacesFailure(t *testing.T) {
	primary := &scriptedCompleter{err: errors.New("down")}
	if _, err := newTestExtractor(primary, nil).AnalyzeTable(context.Background(), internal.RawTable{{"a"}}, "XAF"); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildItemsPromptTruncates(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	prompt := BuildItemsPrompt(string(long), 0, 3, "XAF", 100)
	if len(prompt) > 100+400 {
		t.Fatalf("prompt not truncated: %d chars", len(prompt))
	}
}

func TestBuildItemsPromptTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("béton armé ", 50)
	for budget := 95; budget <= 105; budget++ {
		prompt := BuildItemsPrompt(long, 0, 1, "XAF", budget)
		if !utf8.ValidString(prompt) {
			t.Fatalf("invalid UTF-8 at budget %d: %q", budget, prompt)
		}
	}
}
