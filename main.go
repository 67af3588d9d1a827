package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ByLCY/clearcert/assets"
	"github.com/ByLCY/clearcert/clearance"
	"github.com/ByLCY/clearcert/config"
	"github.com/ByLCY/clearcert/layout"
	"github.com/ByLCY/clearcert/report"
)

func main() {
	recordPath := flag.String("record", "record.json", "clearance record JSON")
	templatePath := flag.String("template", "", "certificate template (built-in template when empty)")
	outDir := flag.String("out", "output", "directory for the generated PDF")
	configPath := flag.String("config", "", "configuration JSON")
	debugPath := flag.String("debug", "", "write the layout as JSON to this path")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := run(ctx, cfg, logger, *recordPath, *templatePath, *outDir, *debugPath)
	if err != nil {
		logger.Error("certificate generation failed", zap.Error(err))
		os.Exit(1)
	}
	fmt.Printf("certificate written: %s\n", path)
}

// run chains record loading, generation and output.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, recordPath, templatePath, outDir, debugPath string) (string, error) {
	rec, err := readRecord(recordPath)
	if err != nil {
		return "", err
	}
	tmpl, err := readTemplate(templatePath)
	if err != nil {
		return "", err
	}

	var loaderOpts []assets.Option
	if cfg.Assets.S3Region != "" {
		client, err := assets.NewS3Client(ctx, cfg.Assets.S3Region)
		if err != nil {
			return "", err
		}
		loaderOpts = append(loaderOpts, assets.WithS3(client))
	}
	if cfg.Assets.BaseDir == "" {
		cfg.Assets.BaseDir = filepath.Dir(recordPath)
	}
	gen := report.NewGenerator(cfg,
		report.WithLogger(logger),
		report.WithLoader(report.DefaultLoader(cfg, logger, loaderOpts...)),
	)

	doc, err := gen.Generate(ctx, rec, tmpl)
	if err != nil {
		return "", err
	}

	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return "", fmt.Errorf("create debug directory: %w", err)
		}
		if err := layout.WriteDebugJSON(doc.Layout, debugPath); err != nil {
			return "", fmt.Errorf("write debug json: %w", err)
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	// site names may contain path separators
	out := filepath.Join(outDir, strings.ReplaceAll(doc.Filename, string(filepath.Separator), "-"))
	if err := os.WriteFile(out, doc.Bytes, 0o644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return out, nil
}

func readRecord(path string) (*clearance.ClearanceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record %s: %w", path, err)
	}
	defer f.Close()
	return clearance.LoadRecord(f)
}

func readTemplate(path string) (*clearance.DocumentTemplate, error) {
	if path == "" {
		return clearance.DefaultTemplate(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", path, err)
	}
	defer f.Close()
	return clearance.LoadTemplate(f)
}
