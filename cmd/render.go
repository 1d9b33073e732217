package cmd

import (
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ancillary-AGI/titan/api/schemas"
	"github.com/Ancillary-AGI/titan/internal/config"
	"github.com/Ancillary-AGI/titan/internal/css"
	"github.com/Ancillary-AGI/titan/internal/engine"
	"github.com/Ancillary-AGI/titan/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newRenderCmd creates and configures the `render` command.
func newRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Parses markup files and emits their computed layout geometry",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their Viper keys so CLI values override the
			// config file and environment.
			if err := viper.BindPFlag("engine.viewport_width", cmd.Flags().Lookup("width")); err != nil {
				return err
			}
			if err := viper.BindPFlag("engine.viewport_height", cmd.Flags().Lookup("height")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg := appCfg
			// Re-unmarshal so the flag bindings from PreRunE take effect
			// with the right precedence.
			if err := viper.Unmarshal(cfg); err != nil {
				return fmt.Errorf("failed to re-unmarshal config with flag overrides: %w", err)
			}

			styles, _ := cmd.Flags().GetStringSlice("style")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			if concurrency <= 0 {
				concurrency = 1
			}
			cfg.SetRenderConfig(config.RenderConfig{
				Inputs:      args,
				Stylesheets: styles,
				Output:      viper.GetString("output"),
				Format:      viper.GetString("format"),
				Concurrency: concurrency,
			})
			rc := cfg.Render()

			logger.Info("Starting render",
				zap.Strings("inputs", rc.Inputs),
				zap.Int("concurrency", rc.Concurrency),
				zap.Float64("viewport_width", cfg.Engine().ViewportWidth),
				zap.Float64("viewport_height", cfg.Engine().ViewportHeight),
			)

			// Load shared author stylesheets once.
			var sheetTexts []string
			for _, path := range rc.Stylesheets {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read stylesheet %s: %w", path, err)
				}
				sheetTexts = append(sheetTexts, string(data))
			}

			// Pages are independent, so render them in parallel up to the
			// requested concurrency. Each slot is written by one goroutine.
			dumps := make([]schemas.LayoutDump, len(rc.Inputs))
			g, ctx := errgroup.WithContext(ctx)
			g.SetLimit(rc.Concurrency)
			for i, input := range rc.Inputs {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					dump, err := renderOne(cfg.Engine(), input, sheetTexts)
					if err != nil {
						return fmt.Errorf("render %s: %w", input, err)
					}
					dump.Source = input
					dumps[i] = dump
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			return writeDumps(dumps, rc.Output, schemas.RenderFormat(rc.Format))
		},
	}

	renderCmd.Flags().StringSliceP("style", "s", nil, "author stylesheet files applied to every page")
	renderCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	renderCmd.Flags().StringP("format", "f", "json", "output format: json or text")
	renderCmd.Flags().IntP("concurrency", "n", 4, "number of pages rendered in parallel")
	renderCmd.Flags().Float64("width", 1280, "viewport width in pixels")
	renderCmd.Flags().Float64("height", 720, "viewport height in pixels")

	return renderCmd
}

// renderOne runs the full pipeline for a single markup file.
func renderOne(engCfg config.EngineConfig, input string, sheets []string) (schemas.LayoutDump, error) {
	f, err := os.Open(input)
	if err != nil {
		return schemas.LayoutDump{}, err
	}
	defer f.Close()

	page := engine.NewPage(engCfg, nil)
	for _, text := range sheets {
		page.AddStylesheet(text, css.OriginAuthor)
	}
	if err := page.LoadMarkup(f); err != nil {
		return schemas.LayoutDump{}, err
	}
	if err := page.Layout(); err != nil {
		return schemas.LayoutDump{}, err
	}
	return page.Dump()
}

// writeDumps serializes the collected dumps to the requested destination.
func writeDumps(dumps []schemas.LayoutDump, output string, format schemas.RenderFormat) error {
	var rendered []byte
	switch format {
	case schemas.FormatText:
		var b strings.Builder
		for _, d := range dumps {
			fmt.Fprintf(&b, "page %s (%s) viewport %.0fx%.0f\n",
				d.PageID, d.Source, d.ViewportWidth, d.ViewportHeight)
			for _, box := range d.Boxes {
				fmt.Fprintf(&b, "  %-10s content %.1f,%.1f %.1fx%.1f margin %.1f,%.1f %.1fx%.1f\n",
					box.TagName,
					box.Content.X, box.Content.Y, box.Content.Width, box.Content.Height,
					box.Margin.X, box.Margin.Y, box.Margin.Width, box.Margin.Height)
			}
		}
		rendered = []byte(b.String())
	case schemas.FormatJSON, "":
		data, err := json.MarshalIndent(dumps, "", "  ")
		if err != nil {
			return fmt.Errorf("encode dumps: %w", err)
		}
		rendered = append(data, '\n')
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	if output == "" {
		_, err := os.Stdout.Write(rendered)
		return err
	}
	return os.WriteFile(output, rendered, 0o644)
}

func init() {
	rootCmd.AddCommand(newRenderCmd())
}
