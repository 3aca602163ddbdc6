package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"batidoc/internal"
	"batidoc/internal/config"
	"batidoc/internal/llm"
	"batidoc/internal/pipeline"
	"batidoc/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := os.Args[1]
	switch cmd {
	case "extract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		path := fs.String("file", "", "input file")
		kind := fs.String("type", "", "csv|xlsx|html|pdf|text")
		out := fs.String("out", "", "optional xlsx report path")
		noPersist := fs.Bool("no-persist", false, "skip database insert")
		_ = fs.Parse(os.Args[2:])
		if *path == "" || *kind == "" {
			must(fmt.Errorf("--file and --type are required"))
		}
		runExtract(ctx, cfg, *path, *kind, *out, !*noPersist)
	case "analyze":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		path := fs.String("file", "", "input file")
		kind := fs.String("type", "", "csv|xlsx|html")
		_ = fs.Parse(os.Args[2:])
		if *path == "" || *kind == "" {
			must(fmt.Errorf("--file and --type are required"))
		}
		runAnalyze(cfg, *path, *kind)
	default:
		usage()
		os.Exit(1)
	}
}

func runExtract(ctx context.Context, cfg config.Config, path, kind, out string, persist bool) {
	blob, err := os.ReadFile(path)
	must(err)

	input, err := buildInput(kind, blob)
	must(err)

	svc := pipeline.NewExtractionService(cfg, newExtractor(cfg))
	start := time.Now()
	result, err := svc.Run(ctx, input)
	must(err)

	if persist {
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		hash := sha256.Sum256(blob)
		doc, err := db.UpsertDocument(kind, filepath.Base(path), hex.EncodeToString(hash[:]))
		must(err)
		must(db.SaveRun(uuid.New().String(), doc.ID, result, float64(time.Since(start).Milliseconds())))
	}

	if out != "" {
		must(pipeline.ExportItemsToXLSX(result.Items, out))
	}

	fmt.Printf("method=%s items=%d withPrice=%d withSupplier=%d withCategory=%d\n",
		result.Method, result.Stats.UniqueItems, result.Stats.ItemsWithPrice,
		result.Stats.ItemsWithSupplier, result.Stats.ItemsWithCategory)
}

func runAnalyze(cfg config.Config, path, kind string) {
	blob, err := os.ReadFile(path)
	must(err)

	input, err := buildInput(kind, blob)
	must(err)
	if input.Kind == internal.InputText {
		must(fmt.Errorf("analyze expects tabular input, got %s", kind))
	}

	table := input.Table
	if input.Kind == internal.InputCSV {
		table, err = pipeline.ParseCSV(input.CSVText)
		must(err)
	}
	if len(table) == 0 {
		must(fmt.Errorf("no rows in %s", path))
	}

	analysis, _ := pipeline.Analyze(pipeline.SampleRows(table, 15), cfg.DefaultCurrency)
	encoded, err := json.MarshalIndent(analysis, "", "  ")
	must(err)
	fmt.Println(string(encoded))
}

func buildInput(kind string, blob []byte) (internal.ExtractionInput, error) {
	switch strings.ToLower(kind) {
	case "csv":
		return internal.ExtractionInput{Kind: internal.InputCSV, CSVText: string(blob)}, nil
	case "xlsx", "xls":
		table, err := pipeline.ReadWorkbook(blob)
		if err != nil {
			return internal.ExtractionInput{}, err
		}
		return internal.ExtractionInput{Kind: internal.InputTable, Table: table}, nil
	case "html":
		table, err := pipeline.ParseHTMLTables(string(blob))
		if err != nil {
			return internal.ExtractionInput{}, err
		}
		return internal.ExtractionInput{Kind: internal.InputTable, Table: table}, nil
	case "pdf":
		text, err := pipeline.ExtractPDFText(blob)
		if err != nil {
			return internal.ExtractionInput{}, err
		}
		return internal.ExtractionInput{Kind: internal.InputText, Text: text}, nil
	case "text", "txt":
		return internal.ExtractionInput{Kind: internal.InputText, Text: string(blob)}, nil
	default:
		return internal.ExtractionInput{}, fmt.Errorf("unsupported input type: %s", kind)
	}
}

func newExtractor(cfg config.Config) *llm.Extractor {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	opts := llm.Options{Temperature: cfg.Temperature, MaxOutputTokens: cfg.MaxOutputTokens}

	var primary, secondary llm.Completer
	if cfg.OpenAIAPIKey != "" {
		primary = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, opts)
	}
	if cfg.OpenRouterAPIKey != "" {
		secondary = llm.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL, opts, logger)
	}

	return llm.NewExtractor(primary, secondary, time.Duration(cfg.LLMTimeoutMs)*time.Millisecond, cfg.PromptCharBudget, logger)
}

func usage() {
	fmt.Println(`usage: batidoc <command> [flags]

commands:
  extract   --file <path> --type csv|xlsx|html|pdf|text [--out report.xlsx] [--no-persist]
  analyze   --file <path> --type csv|xlsx|html`)
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
