package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/gridmerge"
)

// printer formats counts with thousands separators.
var printer = message.NewPrinter(language.English)

func (c *CLI) planCommand() *cobra.Command {
	var (
		count    int
		tileSize string
		columns  int
		padX     int
		padY     int
		format   string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the grid layout for a number of tiles",
		Long: `Plan computes the canvas size and tile origins without reading any image.
Use it to check the output size before a large merge.`,
		Example: `  gridmerge plan --count 100 --tile 256x256
  gridmerge plan --count 7 --tile 64x32 --columns 3 --placements`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tile, err := gridmerge.ParseDimensions(tileSize)
			if err != nil {
				return fmt.Errorf("--tile: %w", err)
			}
			pixFmt, ok := gridmerge.ParseFormat(format)
			if !ok {
				return fmt.Errorf("--format: unknown pixel format %q", format)
			}
			policy := gridmerge.SquareAspect()
			if columns > 0 {
				policy = gridmerge.FixedColumns(columns)
			}

			layout, err := gridmerge.Plan(count, tile, policy, gridmerge.WithPadding(padX, padY))
			if err != nil {
				return err
			}
			return printLayout(cmd, layout, pixFmt, verbose)
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&count, "count", 0, "number of tiles")
	fl.StringVar(&tileSize, "tile", "", "tile size as WxH")
	fl.IntVar(&columns, "columns", 0, "tiles per row (0 = as square as possible)")
	fl.IntVar(&padX, "padding-x", 0, "pixels between columns")
	fl.IntVar(&padY, "padding-y", 0, "pixels between rows")
	fl.StringVar(&format, "format", gridmerge.FormatRGBA8.String(), "pixel format for the canvas size estimate")
	fl.BoolVar(&verbose, "placements", false, "list every tile origin")
	_ = cmd.MarkFlagRequired("count")
	_ = cmd.MarkFlagRequired("tile")

	return cmd
}

func printLayout(cmd *cobra.Command, l *gridmerge.Layout, format gridmerge.Format, placements bool) error {
	w := cmd.OutOrStdout()
	size := l.Canvas.Area() * format.BytesPerPixel()

	if _, err := printer.Fprintf(w, "tiles:   %d\n", l.Count()); err != nil {
		return err
	}
	printer.Fprintf(w, "grid:    %d columns x %d rows\n", l.Columns, l.Rows)
	printer.Fprintf(w, "canvas:  %s (%d pixels, %s as %s)\n", l.Canvas, l.Canvas.Area(), humanBytes(size), format)
	if empty := l.Columns*l.Rows - l.Count(); empty > 0 {
		printer.Fprintf(w, "empty:   %d cells\n", empty)
	}

	if placements {
		for _, p := range l.Placements {
			printer.Fprintf(w, "%6d  %d,%d\n", p.Index, p.X, p.Y)
		}
	}
	return nil
}

// humanBytes renders n with a binary unit, e.g. "1.5 MiB".
func humanBytes(n int) string {
	const unit = 1024
	if n < unit {
		return printer.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return printer.Sprintf("%.1f ", float64(n)/float64(div)) + "KMGTPE"[exp:exp+1] + "iB"
}
