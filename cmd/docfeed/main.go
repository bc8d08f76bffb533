// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/docfeed"
	"github.com/poiesic/docfeed/ingest"
)

func main() {
	app := &cli.App{
		Name:  "docfeed",
		Usage: "Normalize document payloads and bulk-load them into a collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "load",
				Usage:     "Load JSON, CSV, or XML files into a collection",
				ArgsUsage: "FILE...",
				Action:    loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the document store directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "collection",
						Aliases:  []string{"c"},
						Usage:    "Destination collection name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Payload format (auto, json, csv, xml)",
						Value: "auto",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records per bulk add",
						Value: ingest.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of files loaded concurrently",
						Value: defaultWorkers(),
					},
				},
			},
			{
				Name:   "count",
				Usage:  "Count committed documents in a collection",
				Action: countCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the document store directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "collection",
						Aliases:  []string{"c"},
						Usage:    "Collection name",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func defaultWorkers() int {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	return workers
}

func loadCommand(c *cli.Context) error {
	ctx := context.Background()

	files := c.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("at least one input file is required")
	}

	format := strings.ToLower(c.String("format"))
	switch format {
	case "auto", "json", "csv", "xml":
	default:
		return fmt.Errorf("invalid format %q: must be one of auto, json, csv, xml", format)
	}

	workers := c.Int("workers")
	if workers < 1 {
		workers = 1
	}

	ix, err := docfeed.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer ix.Close()

	pipeline, err := ix.NewPipeline(ingest.WithBatchSize(c.Int("batch-size")))
	if err != nil {
		return err
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	collection := c.String("collection")

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	failures := 0

	for _, file := range files {
		file := file
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()

			count, err := loadFile(ctx, pipeline, collection, file, format)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				slog.Error("failed to load file", "file", file, "err", err)
				return
			}
			total += count
			slog.Info("loaded file", "file", file, "records", count)
		})
		if err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()

	fmt.Printf("loaded %d records from %d of %d files into %q\n",
		total, len(files)-failures, len(files), collection)

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed to load", failures, len(files))
	}
	return nil
}

func loadFile(ctx context.Context, pipeline *ingest.Pipeline, collection, file, format string) (int, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return 0, err
	}
	payload := string(data)

	resolved := format
	if resolved == "auto" {
		resolved = detectFormat(file, payload)
	}

	switch resolved {
	case "json":
		return pipeline.IngestJSON(ctx, collection, payload)
	case "csv":
		return pipeline.IngestCSV(ctx, collection, payload)
	case "xml":
		return pipeline.IngestXML(ctx, collection, payload)
	default:
		return 0, fmt.Errorf("cannot determine format of %s", file)
	}
}

// detectFormat resolves a payload format from the file extension, then
// from the first non-whitespace character of the content.
func detectFormat(file, payload string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	case ".xml":
		return "xml"
	}
	return sniffFormat(payload)
}

// sniffFormat guesses a format from content alone: XML starts with '<',
// JSON with '{' or '[', anything else is treated as CSV.
func sniffFormat(payload string) string {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return "csv"
	}
	switch trimmed[0] {
	case '<':
		return "xml"
	case '{', '[':
		return "json"
	default:
		return "csv"
	}
}

func countCommand(c *cli.Context) error {
	ctx := context.Background()

	ix, err := docfeed.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer ix.Close()

	count, err := ix.Reader().CountDocuments(ctx, c.String("collection"))
	if err != nil {
		return err
	}

	fmt.Printf("%d\n", count)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
