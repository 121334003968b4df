package palette

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"dsg/css"
	"dsg/state"
)

// Run implements the palette command: render configured color ramps into a
// CSS file of custom properties. Destination defaults to palette.css.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("palette")

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		dst = "palette.css"
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

	if len(env.Cfg.Palette.Ramps) == 0 {
		return fmt.Errorf("no ramps configured")
	}

	log.Info("Palette generation starting", zap.String("destination", dst), zap.Int("ramps", len(env.Cfg.Palette.Ramps)))
	defer func(start time.Time) {
		log.Info("Palette generation completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	props, err := Ramps(&env.Cfg.Palette, log)
	if err != nil {
		return err
	}

	sheet := &css.Stylesheet{}
	root := css.Rule{Selector: css.RootSelector()}
	prefix := env.Cfg.Tokens.Prefix
	for name, value := range props {
		root.SetCustom(fmt.Sprintf("%s-%s", prefix, name), value)
	}
	sheet.AddRule(root)

	if err := css.WriteFile(dst, sheet); err != nil {
		return err
	}
	env.Rpt.Store("palette.css", dst)
	return nil
}
