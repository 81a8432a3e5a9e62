// Copyright 2025 VTU Tools Authors
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vtu-tools/automarks"
	"github.com/vtu-tools/automarks/config"
	"github.com/vtu-tools/automarks/core"
	"github.com/vtu-tools/automarks/ingest"
	"github.com/vtu-tools/automarks/query"
)

func main() {
	app := &cli.App{
		Name:  "automarks",
		Usage: "Extraction and ingestion engine for examination result documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides configuration)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest result documents (files or directories of .txt files) as one batch",
				ArgsUsage: "<file-or-dir> [...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "cohort",
						Usage:    "Admission cohort tag, e.g. 2022-2026",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "single",
						Usage: "Ingest exactly one document outside any batch",
					},
				},
			},
			{
				Name:      "status",
				Usage:     "Show the state of an ingestion batch",
				ArgsUsage: "<batch-id>",
				Action:    statusCommand,
			},
			{
				Name:   "results",
				Usage:  "List stored results as JSON",
				Action: resultsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "usn", Usage: "Filter by seat number"},
					&cli.StringFlag{Name: "cohort", Usage: "Filter by cohort tag"},
					&cli.StringFlag{Name: "branch", Usage: "Filter by branch code"},
					&cli.IntFlag{Name: "semester", Usage: "Filter by semester (1-8)"},
					&cli.StringFlag{Name: "month", Usage: "Filter by exam month"},
					&cli.IntFlag{Name: "year", Usage: "Filter by exam year"},
					&cli.StringFlag{Name: "subject", Usage: "Filter by subject code"},
					&cli.StringFlag{Name: "status", Usage: "Filter by result status (short or long form)"},
					&cli.IntFlag{Name: "offset", Usage: "Skip the first N rows"},
					&cli.IntFlag{Name: "limit", Usage: "Return at most N rows (0 = all)"},
				},
			},
			{
				Name:   "set-credits",
				Usage:  "Attach a credit value to a subject",
				Action: setCreditsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "code",
						Usage:    "Subject code",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "credits",
						Usage:    "Credit value",
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

func setupLogger(c *cli.Context) error {
	level, err := config.ParseLevel(c.String("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.String("log-level"))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func openSystem(c *cli.Context) (*automarks.System, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if db := c.String("db"); db != "" {
		cfg.DataDir = db
	}
	return automarks.Open(automarks.WithConfig(cfg))
}

// collectFiles expands arguments into a sorted list of document files.
// Directory arguments contribute their .txt files.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.txt"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file or directory is required")
	}

	files, err := collectFiles(c.Args().Slice())
	if err != nil {
		return err
	}

	sys, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sys.Close()

	coord, err := sys.NewCoordinator(ingest.WithSink(ingest.NewWriterSink(os.Stdout)))
	if err != nil {
		return err
	}
	defer coord.Release()

	ctx := context.Background()
	cohort := c.String("cohort")

	if c.Bool("single") {
		if len(files) != 1 {
			return fmt.Errorf("--single requires exactly one document, got %d", len(files))
		}
		result, err := coord.IngestOne(ctx, cohort, files[0])
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "ingested %s: %d subjects\n", result.USN, len(result.Subjects))
		return nil
	}

	batch, err := coord.IngestBatch(ctx, cohort, files)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "batch %s %s: %d processed, %d failed of %d\n",
		batch.BatchId, batch.Status, batch.ProcessedFiles, batch.FailedFiles, batch.TotalFiles)
	return nil
}

// batchView is the JSON shape of the status command output.
type batchView struct {
	BatchID          string     `json:"batch_id"`
	Status           string     `json:"status"`
	Total            int        `json:"total"`
	Processed        int        `json:"processed"`
	Failed           int        `json:"failed"`
	CurrentFile      string     `json:"current_file,omitempty"`
	CurrentFileIndex int        `json:"current_file_index,omitempty"`
	Percentage       int        `json:"percentage"`
	Errors           []string   `json:"errors,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

func statusCommand(c *cli.Context) error {
	batchID := c.Args().First()
	if batchID == "" {
		return fmt.Errorf("batch ID is required")
	}

	sys, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sys.Close()

	batch, err := sys.Gateway().GetBatchLog(context.Background(), batchID)
	if err != nil {
		return err
	}

	view := batchView{
		BatchID:          batch.BatchId,
		Status:           batch.Status.String(),
		Total:            batch.TotalFiles,
		Processed:        batch.ProcessedFiles,
		Failed:           batch.FailedFiles,
		CurrentFile:      batch.CurrentFile,
		CurrentFileIndex: batch.CurrentFileIndex,
		Percentage:       batch.Percentage(),
		Errors:           batch.Errors,
		StartedAt:        batch.StartedAt,
	}
	if !batch.CompletedAt.IsZero() {
		view.CompletedAt = &batch.CompletedAt
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func resultsCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sys.Close()

	semester := c.Int("semester")
	if semester != 0 && (semester < 1 || semester > 8) {
		return core.ErrInvalidSemester
	}

	rows, err := sys.NewQueryService().Results(context.Background(), query.Filter{
		USN:         c.String("usn"),
		Cohort:      c.String("cohort"),
		Branch:      c.String("branch"),
		Semester:    semester,
		ExamMonth:   c.String("month"),
		ExamYear:    c.Int("year"),
		SubjectCode: c.String("subject"),
		Status:      c.String("status"),
		Offset:      c.Int("offset"),
		Limit:       c.Int("limit"),
	})
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []query.Row{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func setCreditsCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sys.Close()

	code := c.String("code")
	credits := c.Int("credits")
	if err := sys.Gateway().SetSubjectCredits(context.Background(), code, credits); err != nil {
		return fmt.Errorf("setting credits for %s: %w", code, err)
	}
	fmt.Fprintf(os.Stderr, "subject %s: credits set to %d\n", code, credits)
	return nil
}
