package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lloydzhou/tika-parser/internal/logger"
	"github.com/lloydzhou/tika-parser/internal/output"
	"github.com/lloydzhou/tika-parser/pkg/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file|-]",
	Short: "Convert one extracted document to Markdown",
	Long: `Convert a single document extracted by Tika into Markdown.

The input is Tika's XHTML (/tika with Accept: text/html) or its
recursive metadata JSON (/rmeta), read from a file or from stdin
when the argument is "-" or omitted. With --attachments, images whose
source matches a file in the /unpack archive or directory are embedded.

Examples:
  tika-md convert report.html
  tika-md convert report.json --attachments report.zip -o report.md
  curl -s -T report.docx -H 'Accept: text/html' http://tika:9998/tika | tika-md convert -
  tika-md convert report.html --emit html --stats --stats-format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()

	// Input settings
	flags.StringP("attachments", "a", "", "attachment zip file or directory")
	flags.Int("pages", 0, "page count hint (0 = from rmeta metadata or unknown)")
	flags.String("input-format", inputAuto, "input format: auto, html, rmeta")
	flags.String("max-input-size", "50MB", "max input size (e.g., 500KB, 50MB, 0=unlimited)")

	// Output settings
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("emit", "markdown", "what to write: markdown, or html for the cleaned tree")
	flags.Bool("stats", false, "print conversion stats to stderr")
	flags.String("stats-format", "text", "stats format: text, json, yaml")

	addPipelineFlags(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	setupLogging()

	cfg, err := loadPipelineConfig(cmd)
	if err != nil {
		logError("%v", err)
		return err
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}

	flags := cmd.Flags()
	attPath, _ := flags.GetString("attachments")
	pages, _ := flags.GetInt("pages")
	inputFormat, _ := flags.GetString("input-format")
	maxSizeStr, _ := flags.GetString("max-input-size")
	outPath, _ := flags.GetString("output")
	emit, _ := flags.GetString("emit")
	showStats, _ := flags.GetBool("stats")
	statsFormatStr, _ := flags.GetString("stats-format")

	maxSize, err := parseSize(maxSizeStr)
	if err != nil {
		logError("%v", err)
		return err
	}

	var statsWriter output.Writer
	if showStats {
		format, err := output.ParseFormat(statsFormatStr)
		if err != nil {
			logError("%v", err)
			return err
		}
		statsWriter, err = output.NewWriter(os.Stderr, format)
		if err != nil {
			return err
		}
		defer func() { _ = statsWriter.Close() }()
	}

	in, err := loadInput(source, loadOptions{
		InputFormat:  inputFormat,
		Attachments:  attPath,
		PageCount:    pages,
		MaxInputSize: maxSize,
	})
	if err != nil {
		logError("%v", err)
		return err
	}

	result := pipeline.New(cfg).ConvertWithStats(in)
	for _, w := range result.Warnings {
		logger.Warn("conversion warning", "source", source, "warning", w.String())
	}

	content, err := render(result, emit)
	if err != nil {
		logError("%v", err)
		return err
	}
	if err := writeOutput(outPath, content); err != nil {
		logError("%v", err)
		return err
	}

	logger.Debug("document converted",
		"source", source,
		"output", outPath,
		"stats", result.Stats.String())

	if statsWriter != nil {
		if err := statsWriter.Write(output.NewReport(source, outPath, result)); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}
	return nil
}
