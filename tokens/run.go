package tokens

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"dsg/css"
	"dsg/palette"
	"dsg/state"
)

// Run implements the generate command: render the configured token set into
// a CSS file. Destination defaults to tokens.css in the working directory.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("generate")

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		dst = "tokens.css"
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	env.Overwrite = cmd.Bool("overwrite")
	if !env.Overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("output already exists (%s), use --ow to overwrite", dst)
		}
	}

	var extra map[string]string
	if cmd.Bool("with-palette") {
		if extra, err = palette.Ramps(&env.Cfg.Palette, log); err != nil {
			return fmt.Errorf("unable to render palette ramps: %w", err)
		}
	}

	log.Info("Token generation starting", zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Token generation completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	sheet, err := Generate(&env.Cfg.Tokens, extra, log)
	if err != nil {
		return err
	}

	if err := css.WriteFile(dst, sheet); err != nil {
		return err
	}
	env.Rpt.Store("tokens.css", dst)
	return nil
}
