// Command ingest loads every supported document in a directory into the
// configured vector store, the same way POST /upload_document does.
//
//	go run ./cmd/ingest ./docs
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"rag-chat-be/internal/bootstrap"
	"rag-chat-be/internal/config"
	"rag-chat-be/pkg/database"
	"rag-chat-be/pkg/extractor"

	"github.com/fatih/color"
	"gorm.io/gorm"
)

func main() {
	recursive := flag.Bool("r", false, "descend into subdirectories")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: ingest [-r] <dir>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()

	var db *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		db, err = database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection, false)
		if err != nil {
			color.Red("database: %v", err)
			os.Exit(1)
		}
	}

	container, err := bootstrap.NewContainer(db, cfg)
	if err != nil {
		color.Red("bootstrap: %v", err)
		os.Exit(1)
	}
	defer container.Close()

	files, err := collect(flag.Arg(0), *recursive)
	if err != nil {
		color.Red("scan %s: %v", flag.Arg(0), err)
		os.Exit(1)
	}
	if len(files) == 0 {
		color.Yellow("no supported documents in %s", flag.Arg(0))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	var failed int
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		res, err := container.DocumentService.IngestFile(ctx, path)
		if err != nil {
			failed++
			fmt.Printf("%s %s: %v\n", fail("FAIL"), path, err)
			continue
		}
		fmt.Printf("%s %s (%d lines)\n", ok("OK  "), res.Document, res.Lines)
	}

	color.Cyan("%d/%d documents ingested", len(files)-failed, len(files))
	if failed > 0 {
		os.Exit(1)
	}
}

func collect(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if extractor.IsSupported(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
