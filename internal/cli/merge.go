package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/gridmerge"
	intImage "github.com/gogpu/gridmerge/internal/image"
)

// mergeFlags are the raw command-line values; config file values fill in
// whatever was not given on the command line.
type mergeFlags struct {
	configPath string
	cfg        Config
}

func (c *CLI) mergeCommand() *cobra.Command {
	var f mergeFlags

	cmd := &cobra.Command{
		Use:   "merge [flags] <tile>...",
		Short: "Merge tile images into one grid image",
		Long: `Merge decodes every tile, places them on a grid in argument order and
writes the canvas. All tiles must have the same size. The output format is
chosen from the output file extension (png, jpg, gif, bmp, tif).`,
		Example: `  gridmerge merge -o sheet.png a.png b.png c.png d.png
  gridmerge merge --columns 8 --padding-x 2 --padding-y 2 -o atlas.png tiles/*.png
  gridmerge merge --config merge.toml tiles/*.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			return c.runMerge(cmd.Context(), cfg, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.cfg.Output, "output", "o", "", "output image file")
	fl.IntVar(&f.cfg.Columns, "columns", 0, "tiles per row (0 = as square as possible)")
	fl.IntVar(&f.cfg.PaddingX, "padding-x", 0, "pixels between columns")
	fl.IntVar(&f.cfg.PaddingY, "padding-y", 0, "pixels between rows")
	fl.IntVar(&f.cfg.Workers, "workers", 0, "copy workers (0 = one per CPU)")
	fl.IntVar(&f.cfg.Quality, "quality", 0, "JPEG quality 1-100 (0 = 90)")
	fl.StringVar(&f.cfg.LogFile, "log-file", "", "also write logs to this file (rotated)")
	fl.StringVar(&f.configPath, "config", "", "TOML or YAML file with merge settings")

	return cmd
}

// resolveConfig merges the config file, if any, under explicitly set flags.
func resolveConfig(cmd *cobra.Command, f mergeFlags) (Config, error) {
	cfg := f.cfg
	if f.configPath != "" {
		file, err := loadConfig(f.configPath)
		if err != nil {
			return Config{}, err
		}
		fl := cmd.Flags()
		override := func(name string, dst *int, v int) {
			if !fl.Changed(name) {
				*dst = v
			}
		}
		if !fl.Changed("output") {
			cfg.Output = file.Output
		}
		if !fl.Changed("log-file") {
			cfg.LogFile = file.LogFile
		}
		override("columns", &cfg.Columns, file.Columns)
		override("padding-x", &cfg.PaddingX, file.PaddingX)
		override("padding-y", &cfg.PaddingY, file.PaddingY)
		override("workers", &cfg.Workers, file.Workers)
		override("quality", &cfg.Quality, file.Quality)
	}
	return cfg, cfg.validate()
}

func (c *CLI) runMerge(ctx context.Context, cfg Config, paths []string) error {
	codec, err := intImage.CodecFromPath(cfg.Output)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if !codec.CanEncode() {
		return fmt.Errorf("output: cannot encode %s", codec)
	}

	if cfg.LogFile != "" {
		c.teeToFile(cfg.LogFile)
	}
	logger := c.startRun()
	defer func() { _ = c.Close() }()

	prog := newProgress(logger)
	tiles, err := decodeTiles(ctx, paths, cfg.Workers)
	if err != nil {
		return err
	}
	tile := gridmerge.DimensionsOf(tiles[0])
	prog.done("Decoded tiles", "count", len(tiles), "tile", tile.String())

	policy := gridmerge.SquareAspect()
	if cfg.Columns > 0 {
		policy = gridmerge.FixedColumns(cfg.Columns)
	}
	job := gridmerge.MergeJob{
		Tile:    tile,
		Format:  gridmerge.FormatRGBA8,
		Sources: tiles,
		Policy:  policy,
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	prog = newProgress(logger)
	canvas, err := gridmerge.MergeAll(job,
		gridmerge.WithWorkers(cfg.Workers),
		gridmerge.WithPadding(cfg.PaddingX, cfg.PaddingY))
	if err != nil {
		return describeMergeError(err, paths)
	}
	prog.done("Merged", "layout", canvas.Layout().String())

	prog = newProgress(logger)
	if err := canvas.Buffer().Save(cfg.Output, intImage.EncodeOptions{Quality: cfg.Quality}); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	prog.done("Wrote "+cfg.Output, "size", humanBytes(canvas.Buffer().ByteSize()))
	return nil
}

// decodeTiles loads every path in parallel, at most limit at a time.
// The first failure cancels the remaining decodes.
func decodeTiles(ctx context.Context, paths []string, limit int) ([]*gridmerge.PixelBuffer, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	tiles := make([]*gridmerge.PixelBuffer, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buf, err := intImage.Load(path)
			if err != nil {
				return fmt.Errorf("tile %s: %w", path, err)
			}
			tiles[i] = buf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tiles, nil
}

// describeMergeError names the offending file when the error points at one.
func describeMergeError(err error, paths []string) error {
	var me *gridmerge.MergeError
	if errors.As(err, &me) && me.Index >= 0 && me.Index < len(paths) {
		if errors.Is(err, gridmerge.ErrDimensionMismatch) {
			return fmt.Errorf("tile %s: size differs from %s: %w", paths[me.Index], paths[0], err)
		}
		return fmt.Errorf("tile %s: %w", paths[me.Index], err)
	}
	return fmt.Errorf("merge: %w", err)
}
