package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"contract-rag/internal/assistant"
	"contract-rag/internal/chunker"
	"contract-rag/internal/config"
	"contract-rag/internal/eval"
	"contract-rag/internal/helper"
	"contract-rag/internal/ingest"
	"contract-rag/internal/llmservice"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the YAML config file")
	ask := flag.String("ask", "", "Question to answer from the indexed documents")
	summarize := flag.Bool("summarize", false, "Generate a structured summary of the indexed documents")
	runEval := flag.Bool("eval", false, "Run the evaluation question set and print the report")
	evalHTML := flag.String("eval-html", "", "Write the evaluation report as HTML to this path (implies -eval)")
	dryRun := flag.Bool("dry-run", false, "Parse and chunk files without indexing them")
	reset := flag.Bool("reset", false, "Drop every indexed chunk before doing anything else")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// credentials come from the environment; .env is a convenience, not a requirement
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("loading config")
	}

	files := flag.Args()
	if *dryRun {
		if len(files) == 0 {
			log.Fatal().Msg("-dry-run needs files to parse")
		}
		dryRunIngest(cfg, files)
		return
	}

	a, err := assistant.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing assistant")
	}
	defer a.Close()

	if *reset {
		if err := a.Reset(ctx); err != nil {
			log.Fatal().Err(err).Msg("resetting index")
		}
	}

	if len(files) > 0 {
		report, err := a.Ingest(ctx, files)
		if err != nil {
			log.Fatal().Err(err).Msg("indexing failed")
		}
		if *verbose {
			helper.PrettyPrint(report)
		}
		printIngestReport(report)
	}

	switch {
	case *ask != "":
		if _, err := a.Ask(ctx, *ask, printDelta); err != nil {
			log.Fatal().Err(err).Msg("question failed")
		}
		fmt.Println()
	case *summarize:
		if _, err := a.Summarize(ctx, printDelta); err != nil {
			log.Fatal().Err(err).Msg("summary failed")
		}
		fmt.Println()
	case *runEval || *evalHTML != "":
		runEvaluation(ctx, a, *evalHTML)
	case len(files) == 0 && !*reset:
		flag.Usage()
		os.Exit(2)
	}
}

func printDelta(d llmservice.Delta) error {
	fmt.Print(d.Text)
	return nil
}

func printIngestReport(report *assistant.IngestReport) {
	for _, f := range report.Files {
		if f.Err != nil {
			fmt.Printf("skipped  %s: %v\n", f.Path, f.Err)
			continue
		}
		fmt.Printf("indexed  %s: %d chunks\n", f.Path, f.Chunks)
	}
	fmt.Printf("total: %d chunks indexed\n", report.Indexed)
}

// dryRunIngest parses and chunks without touching the embedder or the store,
// so it works with no credentials configured.
func dryRunIngest(cfg *config.Config, files []string) {
	c, err := chunker.New(cfg.RAG.ChunkMin, cfg.RAG.ChunkMax, cfg.RAG.ChunkOverlap)
	if err != nil {
		log.Fatal().Err(err).Msg("bad chunking config")
	}
	ingestor := ingest.New(nil, c)
	chunks, results := ingestor.Ingest(files)
	for _, f := range results {
		if f.Err != nil {
			fmt.Printf("skipped  %s: %v\n", f.Path, f.Err)
			continue
		}
		fmt.Printf("parsed   %s: %d chunks\n", f.Path, f.Chunks)
	}
	fmt.Printf("total: %d chunks (dry run, nothing indexed)\n", len(chunks))
}

func runEvaluation(ctx context.Context, a *assistant.Assistant, htmlPath string) {
	report, err := eval.Run(ctx, a)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluation failed")
	}
	fmt.Print(report.Markdown())

	if htmlPath == "" {
		return
	}
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", htmlPath).Msg("writing report")
	}
	defer f.Close()
	if err := report.WriteHTML(f); err != nil {
		log.Fatal().Err(err).Msg("rendering report")
	}
	log.Info().Str("path", htmlPath).Msg("evaluation report written")
}
