package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"dsg/state"
)

// Run implements the bundle command: scan configured sources and write the
// minimal bundle archive. Destination defaults to bundle.zip in the working
// directory.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("bundle")

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		dst = "bundle.zip"
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

	if len(env.Cfg.Bundle.Sources) == 0 {
		return fmt.Errorf("no bundle sources configured")
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old icon packs
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Bundle generation starting", zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Bundle generation completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	if err := Generate(ctx, dst, log); err != nil {
		return err
	}
	env.Rpt.Store("bundle.zip", dst)
	return nil
}
