package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mkhramtsov/siteforms/internal/cli"
	"github.com/mkhramtsov/siteforms/internal/config"
	"github.com/mkhramtsov/siteforms/internal/flagx"
	"github.com/mkhramtsov/siteforms/internal/logging"
	"github.com/mkhramtsov/siteforms/internal/objectstore"
	"github.com/mkhramtsov/siteforms/internal/repositories/attachments"
	"github.com/mkhramtsov/siteforms/internal/repositories/migrations"
	"github.com/mkhramtsov/siteforms/internal/uploader"
)

func splitFiles(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {

	ctx := context.Background()

	slogger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	logger := logging.NewSlogLogger(slogger)

	cfg := config.LoadConfig()

	// command flags; storage/database flags are handled by config
	args := flagx.FilterArgs(os.Args[1:], []string{"-m", "-r", "-i", "-w", "-f"})
	fs := flag.NewFlagSet("attachctl", flag.ExitOnError)
	mode := fs.String("m", "list", "mode: upload|list|caption|delete|sign")
	record := fs.String("r", "", "parent record id")
	id := fs.Int64("i", 0, "attachment id (caption/delete)")
	caption := fs.String("w", "", "caption text")
	files := fs.String("f", "", "file path(s), comma-separated for upload")
	_ = fs.Parse(args)

	if *record == "" {
		logger.Error(ctx, "a parent record id is required (-r)")
		os.Exit(1)
	}

	// "-p -" means: ask for the S3 secret interactively, without echo
	if cfg.S3RootPassword == "-" {
		secret, err := cli.GetSecret("S3 secret", os.Stderr)
		if err != nil {
			logger.Error(ctx, err.Error())
			os.Exit(1)
		}
		cfg.S3RootPassword = secret
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, fmt.Sprintf("db open error: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		logger.Error(ctx, fmt.Sprintf("migration error: %v", err))
		os.Exit(1)
	}

	store, err := objectstore.NewS3Store(ctx, cfg)
	if err != nil {
		logger.Error(ctx, fmt.Sprintf("object store init error: %v", err))
		os.Exit(1)
	}

	repo := attachments.NewPostgresRepository(db)
	sink := &cli.ListSink{}
	eng := uploader.New(ctx, *record, store, repo, sink, uploader.PolicyFromConfig(cfg), logger)

	app := &cli.App{Engine: eng, Sink: sink, In: bufio.NewReader(os.Stdin), Out: os.Stdout}

	var runErr error
	switch *mode {
	case "upload":
		runErr = app.Upload(ctx, splitFiles(*files))
	case "list":
		runErr = app.List(ctx)
	case "caption":
		runErr = app.Caption(ctx, *id, *caption)
	case "delete":
		runErr = app.Delete(ctx, *id)
	case "sign":
		runErr = app.Sign(ctx, *record, *files)
	default:
		runErr = fmt.Errorf("unknown mode %q", *mode)
	}

	if runErr != nil {
		logger.Error(ctx, runErr.Error())
		os.Exit(1)
	}
}
