package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lloydzhou/tika-parser/internal/logger"
	"github.com/lloydzhou/tika-parser/internal/output"
	"github.com/lloydzhou/tika-parser/pkg/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file|dir>...",
	Short: "Convert many extracted documents concurrently",
	Long: `Convert many documents extracted by Tika into Markdown files.

Directories are walked for .html, .htm and .xhtml files, or for .json
files with --input-format rmeta. Each document picks up its attachments
from a sibling <name>.zip archive or <name>_attachments directory.
Output goes to <out-dir>/<relative path>.md, or next to the source
when --out-dir is empty.

Examples:
  tika-md batch ./extracted --out-dir ./markdown
  tika-md batch a.html b.html -c 8 --report report.jsonl
  tika-md batch ./rmeta --input-format rmeta --out-dir ./md --fail-fast`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	flags := batchCmd.Flags()
	flags.String("out-dir", "", "output directory (default: next to each source)")
	flags.IntP("concurrency", "c", 4, "documents converted in parallel")
	flags.String("input-format", inputAuto, "input format: auto, html, rmeta")
	flags.String("max-input-size", "50MB", "max size per document (0=unlimited)")
	flags.String("emit", "markdown", "what to write: markdown, or html for the cleaned trees")
	flags.String("report", "", "write one report per document to this file")
	flags.String("report-format", "jsonl", "report format: jsonl, json, yaml, text")
	flags.Bool("fail-fast", false, "stop at the first document that fails")
	flags.Bool("no-attachments", false, "do not look for sibling attachment archives")

	addPipelineFlags(batchCmd)
}

// batchJob is one document to convert.
type batchJob struct {
	Source string
	Output string
}

func runBatch(cmd *cobra.Command, args []string) error {
	setupLogging()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadPipelineConfig(cmd)
	if err != nil {
		logError("%v", err)
		return err
	}

	flags := cmd.Flags()
	outDir, _ := flags.GetString("out-dir")
	concurrency, _ := flags.GetInt("concurrency")
	inputFormat, _ := flags.GetString("input-format")
	maxSizeStr, _ := flags.GetString("max-input-size")
	emit, _ := flags.GetString("emit")
	reportPath, _ := flags.GetString("report")
	reportFormatStr, _ := flags.GetString("report-format")
	failFast, _ := flags.GetBool("fail-fast")
	noAttachments, _ := flags.GetBool("no-attachments")

	maxSize, err := parseSize(maxSizeStr)
	if err != nil {
		logError("%v", err)
		return err
	}
	if concurrency < 1 {
		concurrency = 1
	}

	ext := ".md"
	if emit == "html" {
		ext = ".clean.html"
	}
	jobs, err := collectJobs(args, outDir, inputFormat, ext)
	if err != nil {
		logError("%v", err)
		return err
	}
	if len(jobs) == 0 {
		logInfo("No documents found")
		return nil
	}

	var reports output.Writer
	if reportPath != "" {
		format, err := output.ParseFormat(reportFormatStr)
		if err != nil {
			logError("%v", err)
			return err
		}
		f, err := os.Create(reportPath) //#nosec G304 -- CLI tool writes to user-specified report file
		if err != nil {
			logError("creating report: %v", err)
			return err
		}
		defer func() { _ = f.Close() }()
		reports, err = output.NewWriter(f, format)
		if err != nil {
			return err
		}
		defer func() { _ = reports.Close() }()
	}

	logger.Info("batch starting", "documents", len(jobs), "concurrency", concurrency)
	start := time.Now()

	converter := pipeline.New(cfg)
	opts := loadOptions{
		InputFormat:         inputFormat,
		DiscoverAttachments: !noAttachments,
		MaxInputSize:        maxSize,
	}

	var failed, converted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, job := range jobs {
		job := job
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := convertJob(converter, job, opts, emit)
			if err != nil {
				failed.Add(1)
				logger.ForDocument(job.Source).Error("conversion failed", "error", err)
				report = output.Failed(job.Source, err)
			} else {
				converted.Add(1)
			}
			if reports != nil {
				if werr := reports.Write(report); werr != nil {
					return fmt.Errorf("writing report: %w", werr)
				}
			}
			if err != nil && failFast {
				return err
			}
			return nil
		})
	}
	err = g.Wait()

	logInfo("Converted %d of %d documents in %v", converted.Load(), len(jobs), time.Since(start).Round(time.Millisecond))
	if err != nil {
		logError("%v", err)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d documents failed", n, len(jobs))
	}
	return nil
}

func convertJob(converter *pipeline.Converter, job batchJob, opts loadOptions, emit string) (output.Report, error) {
	in, err := loadInput(job.Source, opts)
	if err != nil {
		return output.Report{}, err
	}
	result := converter.ConvertWithStats(in)

	log := logger.ForDocument(job.Source)
	for _, w := range result.Warnings {
		log.Warn("conversion warning", "warning", w.String())
	}

	content, err := render(result, emit)
	if err != nil {
		return output.Report{}, err
	}
	if err := writeOutput(job.Output, content); err != nil {
		return output.Report{}, err
	}
	log.Debug("document converted",
		"output", job.Output,
		"removed", result.Stats.TotalRemoved(),
		"duration", result.Stats.TotalDuration)
	return output.NewReport(job.Source, job.Output, result), nil
}

var batchExtensions = map[string]bool{".html": true, ".htm": true, ".xhtml": true}

// collectJobs expands the arguments into documents. Files are taken as
// given; directories are walked for markup files.
func collectJobs(args []string, outDir, inputFormat, ext string) ([]batchJob, error) {
	var jobs []batchJob
	seen := make(map[string]bool)
	add := func(source, rel string) {
		if seen[source] {
			return
		}
		seen[source] = true
		out := strings.TrimSuffix(source, filepath.Ext(source)) + ext
		if outDir != "" {
			out = filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+ext)
		}
		jobs = append(jobs, batchJob{Source: source, Output: out})
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading input %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg, filepath.Base(arg))
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasSuffix(d.Name(), "_attachments") {
					return filepath.SkipDir
				}
				return nil
			}
			e := strings.ToLower(filepath.Ext(path))
			if strings.HasSuffix(strings.ToLower(path), ".clean.html") {
				// Output of an earlier --emit html run.
				return nil
			}
			if inputFormat == inputRmeta {
				if e != ".json" {
					return nil
				}
			} else if !batchExtensions[e] {
				return nil
			}
			rel, err := filepath.Rel(arg, path)
			if err != nil {
				rel = filepath.Base(path)
			}
			add(path, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	return jobs, nil
}
