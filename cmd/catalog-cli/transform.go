package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/back1ply/Catalog-of-BI-tools/internal/ingest"
	"github.com/back1ply/Catalog-of-BI-tools/internal/observability"
)

type transformOptions struct {
	input     string
	output    string
	overrides string
	indent    string
	seed      int64
	dryRun    bool
}

func newTransformCmd() *cobra.Command {
	var opts transformOptions

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Normalize the catalog CSV into tools.json",
		Long: `Transform reads the spreadsheet export, splits every multi-value cell into
canonical tags, resolves each tool's generation and quadrant position, appends
the supplemental records and writes the collection as JSON.

Without --seed, quadrant jitter differs between runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.input == "" {
				opts.input = cfg.Input.Path
			}
			if opts.output == "" {
				opts.output = cfg.Output.Path
			}
			if opts.overrides == "" {
				opts.overrides = cfg.Overrides.Path
			}
			opts.indent = cfg.Output.Indent
			if !cmd.Flags().Changed("seed") {
				opts.seed = cfg.Placement.Seed
			}

			result, err := runTransform(opts, logger, ui)
			if err != nil {
				ui.Error("transform failed: %v", err)
				return err
			}

			if outputJSON {
				return printJSON(map[string]interface{}{
					"output":  opts.output,
					"summary": result.Summary,
					"stats":   result.Stats,
				})
			}
			printTransformResult(ui, opts, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "catalog CSV (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output JSON path (default from config)")
	cmd.Flags().StringVar(&opts.overrides, "overrides", "", "YAML file extending the generation and coordinate tables")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed for quadrant jitter (0 = random)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "normalize without writing the output file")

	return cmd
}

func runTransform(opts transformOptions, logger *observability.Logger, ui *UI) (*ingest.Result, error) {
	overrides, err := ingest.LoadOverrides(opts.overrides)
	if err != nil {
		return nil, err
	}

	var bar *mpb.Bar
	pipeline := ingest.NewPipeline(ingest.Options{
		Overrides: overrides,
		Seed:      opts.seed,
		Logger:    logger.WithSource(opts.input),
		OnRow: func(done, total int) {
			if bar == nil {
				bar = ui.ProgressBar("rows", int64(total))
				if bar == nil {
					return
				}
			}
			bar.SetCurrent(int64(done))
		},
	})

	result, err := pipeline.TransformFile(opts.input)
	if err != nil {
		if bar != nil {
			bar.Abort(true)
		}
		return nil, err
	}

	if opts.dryRun {
		return result, nil
	}
	if err := writeCollection(opts.output, result.Records, opts.indent); err != nil {
		return nil, err
	}
	return result, nil
}

func writeCollection(path string, records []ingest.Record, indent string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := ingest.WriteJSON(f, records, indent); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printTransformResult(ui *UI, opts transformOptions, result *ingest.Result) {
	if opts.dryRun {
		ui.Success("Normalized %d tools (dry run, nothing written)", len(result.Records))
	} else {
		ui.Success("Wrote %d tools to %s", len(result.Records), opts.output)
	}

	ui.Section("Generations")
	rows := make([][]string, len(result.Summary))
	for i, b := range result.Summary {
		rows[i] = []string{b.Label, strconv.Itoa(b.Count)}
	}
	ui.Table([]string{"Generation", "Tools"}, rows)

	ui.Section("Run")
	ui.KeyValue("Rows read", result.Stats.Lines)
	ui.KeyValue("Rows skipped", result.Stats.SkippedRows)
	ui.KeyValue("Supplemental", result.Stats.Supplemental)
	ui.KeyValue("Duration", FormatDuration(result.Duration))

	if result.Stats.UnknownGenerations > 0 {
		ui.Warning("%d tools have no known generation", result.Stats.UnknownGenerations)
	}
	if result.Stats.LeftoverTags > 0 {
		ui.Info("%d tags were kept verbatim (not in a dictionary); rerun with -v to list them", result.Stats.LeftoverTags)
	}
}
