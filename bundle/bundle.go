// Package bundle assembles minimal design-system bundles: source files are
// scanned for utility-class tokens and only the icons and stylesheet rules
// actually referenced end up in the output archive.
package bundle

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"dsg/config"
	"dsg/css"
	"dsg/scan"
	"dsg/state"
	imgutil "dsg/utils/images"
)

const (
	iconsDir    = "icons"
	previewsDir = "previews"
	stylesName  = "styles/bundle.css"
)

// Manifest identifies a produced bundle and lists its contents.
type Manifest struct {
	ID      string    `yaml:"id"`
	Created time.Time `yaml:"created"`
	Entries []string  `yaml:"entries"`
}

// Generate scans configured sources and writes the bundle archive to
// outputPath.
func Generate(ctx context.Context, outputPath string, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	cfg := &env.Cfg.Bundle

	if _, err := os.Stat(outputPath); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputPath)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputPath))
		if err = os.Remove(outputPath); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	res, err := scan.Scan(ctx, cfg.Sources, cfg.TokenPrefix, log)
	if err != nil {
		return fmt.Errorf("unable to scan sources: %w", err)
	}
	log.Info("Sources scanned", zap.Int("files", res.Files), zap.Int("tokens", len(res.Classes())))

	icons, err := loadIcons(cfg.IconsPath, env.CodePage, env.DefaultIcons, log)
	if err != nil {
		return fmt.Errorf("unable to load icons: %w", err)
	}
	used := usedIcons(res, cfg.TokenPrefix, icons, log)

	// snapshot inputs as they were at generation time, they may change on disk
	// before the report is examined
	if len(cfg.StylesheetPath) > 0 {
		if err := env.Rpt.StoreCopy("inputs/"+filepath.Base(cfg.StylesheetPath), cfg.StylesheetPath); err != nil {
			log.Warn("Unable to store stylesheet in the report", zap.Error(err))
		}
	}
	if len(cfg.IconsPath) > 0 {
		if err := env.Rpt.StoreCopy("inputs/"+filepath.Base(cfg.IconsPath), cfg.IconsPath); err != nil {
			log.Warn("Unable to store icon source in the report", zap.Error(err))
		}
	}

	tmpDir, err := os.MkdirTemp("", "dsg-b-")
	if err != nil {
		return fmt.Errorf("unable to create temporary directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	tmpName := filepath.Join(tmpDir, filepath.Base(outputPath))

	f, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	var entries []string

	if len(cfg.StylesheetPath) > 0 {
		name, err := writeStylesheet(zw, cfg.StylesheetPath, res, log)
		if err != nil {
			return fmt.Errorf("unable to write stylesheet: %w", err)
		}
		entries = append(entries, name)
	}

	iconEntries, err := writeIcons(zw, used, icons, cfg, log)
	if err != nil {
		return fmt.Errorf("unable to write icons: %w", err)
	}
	entries = append(entries, iconEntries...)

	if err := writeManifest(zw, entries); err != nil {
		return fmt.Errorf("unable to write manifest: %w", err)
	}

	// make sure buffers are flushed before continuing
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}

	return copyZipWithoutDataDescriptors(tmpName, outputPath)
}

// writeStylesheet parses the configured stylesheet and stores only rules whose
// class selector was seen during scanning. Rules without a class selector and
// font faces always survive.
func writeStylesheet(zw *zip.Writer, path string, res *scan.Result, log *zap.Logger) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	sheet := css.NewParser(log).Parse(data, path)
	minimal := sheet.Filter(func(r css.Rule) bool {
		return len(r.Selector.Class) == 0 || res.Has(r.Selector.Class)
	})
	log.Debug("Stylesheet minified",
		zap.Int("rules", len(sheet.Items)), zap.Int("kept", len(minimal.Items)))

	w, err := zw.Create(stylesName)
	if err != nil {
		return "", err
	}
	if _, err := minimal.WriteTo(w); err != nil {
		return "", err
	}
	return stylesName, nil
}

// writeIcons stores every used icon, recolored when requested, with an
// optional raster preview next to it.
func writeIcons(zw *zip.Writer, used []string, icons map[string][]byte, cfg *config.BundleConfig, log *zap.Logger) ([]string, error) {
	var entries []string
	for _, name := range used {
		svg := icons[name]
		if cfg.Recolor.Enable {
			var err error
			if svg, err = Recolor(svg, cfg.Recolor.Fill); err != nil {
				return nil, fmt.Errorf("unable to recolor icon %s: %w", name, err)
			}
		}

		entry := iconsDir + "/" + name + ".svg"
		if err := writeDataToZip(zw, entry, svg); err != nil {
			return nil, err
		}
		entries = append(entries, entry)

		if !cfg.Preview.Format.Enabled() {
			continue
		}
		scaled := imgutil.ScaleSVGStrokeWidth(svg, cfg.Preview.StrokeScale)
		img, err := imgutil.RasterizeSVGToImage(scaled, cfg.Preview.Size, cfg.Preview.Size)
		if err != nil {
			return nil, fmt.Errorf("unable to rasterize icon %s: %w", name, err)
		}
		data, err := imgutil.EncodePNG(img, cfg.Preview.Size)
		if err != nil {
			return nil, fmt.Errorf("unable to encode preview for icon %s: %w", name, err)
		}
		entry = previewsDir + "/" + name + cfg.Preview.Format.Ext()
		if err := writeDataToZip(zw, entry, data); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func writeManifest(zw *zip.Writer, entries []string) error {
	m := Manifest{
		ID:      uuid.Must(uuid.NewV7()).String(),
		Created: time.Now().UTC(),
		Entries: entries,
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	// stored uncompressed so the id is greppable in the raw archive
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "MANIFEST.yaml",
		Method: zip.Store,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Some unzip implementations choke on data descriptors the streaming writer
// emits, rewrite entries without them.
func copyZipWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}
