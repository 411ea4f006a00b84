package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"intercepts/internal/config"
	"intercepts/internal/logging"
	"intercepts/internal/pipeline"
	"intercepts/internal/reference"
	"intercepts/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat, "intercepts")

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx := context.Background()
	cmd := os.Args[1]
	switch cmd {
	case "build":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		source := fs.String("source", cfg.SourceFile, "source workbook")
		sheet := fs.String("sheet", cfg.SheetName, "sheet name")
		variant := fs.String("variant", cfg.Variant, "generic|business")
		workers := fs.Int("workers", cfg.BatchWorkers, "parallel partitions")
		sorted := fs.Bool("sort", cfg.SortResults, "sort records by term")
		_ = fs.Parse(os.Args[2:])
		cfg.SourceFile, cfg.SheetName, cfg.Variant = *source, *sheet, *variant
		cfg.BatchWorkers, cfg.SortResults = *workers, *sorted
		must(cfg.Require("SOURCE_FILE", cfg.SourceFile))

		res, err := pipeline.NewBuildService(db, cfg, log).Run(ctx)
		must(err)
		fmt.Printf("build complete run=%d records=%d skipped=%d excluded=%d yaml=%s\n", res.RunID, res.Success, res.Skipped, res.Excluded, cfg.YAMLFile)
	case "codes:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		source := fs.String("source", cfg.CodesFile, "commodity CSV path or http(s) URL")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("CODES_FILE", *source))

		count, err := reference.NewImportService(db, cfg, log).Import(ctx, *source)
		must(err)
		fmt.Printf("codes import complete: %d codes\n", count)
	case "normalize":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		term := fs.String("term", "", "search term")
		message := fs.String("message", "", "raw message")
		genuine := fs.String("genuine", "", "canonical term used for plurals")
		variant := fs.String("variant", cfg.Variant, "generic|business")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*term) == "" || strings.TrimSpace(*message) == "" {
			must(fmt.Errorf("--term and --message are required"))
		}
		cfg.Variant = *variant

		rec, diag, err := pipeline.NewBuildService(db, cfg, log).NormalizeOne(ctx, *term, *message, *genuine)
		must(err)
		if !rec.Valid {
			fmt.Printf("excluded term=%s\n", rec.Term)
			return
		}
		fmt.Print(rec.YAML)
		blob, err := pipeline.NewReport(1, diag).JSON()
		must(err)
		fmt.Println(string(blob))
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.Int("runId", 0, "run id (see runs)")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *runID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--runId and --out are required"))
		}
		_, err := db.MustRun(*runID)
		must(err)
		rows, err := db.GetExportRows(*runID)
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no export rows for runId=%d", *runID))
		}
		must(pipeline.ExportRowsToXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%d\t%s\t%s\t%s\trecords=%d skipped=%d excluded=%d\n", r.ID, r.CreatedAt, r.Variant, r.SourceFile, r.SuccessCount, r.SkippedCount, r.ExcludedCount)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: intercepts <command>")
	fmt.Println("commands:")
	fmt.Println("  build [--source=...xlsx] [--sheet=...] [--variant=generic|business] [--workers=1] [--sort]")
	fmt.Println("  codes:import [--source=path|url]")
	fmt.Println("  normalize --term=... --message=... [--genuine=...] [--variant=generic|business]")
	fmt.Println("  export:xlsx --runId=1 --out=./out/intercepts.xlsx")
	fmt.Println("  runs [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
