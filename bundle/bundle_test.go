package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"dsg/config"
	"dsg/scan"
	"dsg/state"
)

func testContext(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()

	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	env.Cfg = cfg
	env.Log = zap.NewNop()
	return ctx, env
}

func writeSourceTree(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		"index.html": `<!DOCTYPE html>
<html>
<body>
  <div class="hero">
    <span class="ds-icon-check"></span>
    <span class="ds-icon-cross"></span>
  </div>
</body>
</html>`,
		"styles.css": `.hero {
  color: #333333;
}

.unused {
  color: #ff0000;
}

button {
  cursor: pointer;
}
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func readZip(t *testing.T, path string) map[string][]byte {
	t.Helper()

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("Failed to open bundle: %v", err)
	}
	defer r.Close()

	out := make(map[string][]byte)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read entry %s: %v", f.Name, err)
		}
		out[f.Name] = data
	}
	return out
}

func TestGenerate(t *testing.T) {
	ctx, env := testContext(t)

	srcDir := t.TempDir()
	writeSourceTree(t, srcDir)

	env.Cfg.Bundle.Sources = []string{filepath.Join(srcDir, "*.html")}
	env.Cfg.Bundle.StylesheetPath = filepath.Join(srcDir, "styles.css")
	env.Cfg.Bundle.Preview.Format = config.PreviewFmtPng
	env.Cfg.Bundle.Preview.Size = 32
	env.Cfg.Bundle.Recolor.Enable = true
	env.Cfg.Bundle.Recolor.Fill = "#112233"

	outPath := filepath.Join(t.TempDir(), "bundle.zip")
	if err := Generate(ctx, outPath, env.Log); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	entries := readZip(t, outPath)

	t.Run("manifest", func(t *testing.T) {
		data, ok := entries["MANIFEST.yaml"]
		if !ok {
			t.Fatal("MANIFEST.yaml missing from bundle")
		}
		var m Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			t.Fatalf("Failed to decode manifest: %v", err)
		}
		if _, err := uuid.Parse(m.ID); err != nil {
			t.Errorf("manifest id %q is not a valid uuid: %v", m.ID, err)
		}
		if m.Created.IsZero() {
			t.Error("manifest creation time not set")
		}
		for _, entry := range m.Entries {
			if _, ok := entries[entry]; !ok {
				t.Errorf("manifest lists %s but bundle does not contain it", entry)
			}
		}
	})

	t.Run("minimal stylesheet", func(t *testing.T) {
		data, ok := entries["styles/bundle.css"]
		if !ok {
			t.Fatal("styles/bundle.css missing from bundle")
		}
		sheet := string(data)
		if !strings.Contains(sheet, ".hero") {
			t.Error("used rule .hero dropped from stylesheet")
		}
		if strings.Contains(sheet, ".unused") {
			t.Error("unused rule .unused kept in stylesheet")
		}
		if !strings.Contains(sheet, "button") {
			t.Error("class-less rule dropped from stylesheet")
		}
	})

	t.Run("recolored icons", func(t *testing.T) {
		for _, name := range []string{"icons/check.svg", "icons/cross.svg"} {
			data, ok := entries[name]
			if !ok {
				t.Fatalf("%s missing from bundle", name)
			}
			if !bytes.Contains(data, []byte("#112233")) {
				t.Errorf("%s not recolored", name)
			}
			if !bytes.Contains(data, []byte(`fill="none"`)) {
				t.Errorf("%s lost its fill=none cutout", name)
			}
		}
	})

	t.Run("previews", func(t *testing.T) {
		for _, name := range []string{"previews/check.png", "previews/cross.png"} {
			data, ok := entries[name]
			if !ok {
				t.Fatalf("%s missing from bundle", name)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Failed to decode %s: %v", name, err)
			}
			if b := img.Bounds(); b.Dx() > 32 || b.Dy() > 32 {
				t.Errorf("%s preview size = %dx%d, want at most 32x32", name, b.Dx(), b.Dy())
			}
		}
	})
}

func TestGenerate_NoPreviews(t *testing.T) {
	ctx, env := testContext(t)

	srcDir := t.TempDir()
	writeSourceTree(t, srcDir)

	env.Cfg.Bundle.Sources = []string{filepath.Join(srcDir, "*.html")}

	outPath := filepath.Join(t.TempDir(), "bundle.zip")
	if err := Generate(ctx, outPath, env.Log); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for name := range readZip(t, outPath) {
		if strings.HasPrefix(name, "previews/") {
			t.Errorf("unexpected preview entry %s with format none", name)
		}
	}
}

func TestGenerate_ReportSnapshotsInputs(t *testing.T) {
	ctx, env := testContext(t)

	srcDir := t.TempDir()
	writeSourceTree(t, srcDir)
	env.Cfg.Bundle.Sources = []string{filepath.Join(srcDir, "*.html")}
	env.Cfg.Bundle.StylesheetPath = filepath.Join(srcDir, "styles.css")

	rptConf := config.ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
	rpt, err := rptConf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	env.Rpt = rpt

	if err := Generate(ctx, filepath.Join(t.TempDir(), "bundle.zip"), env.Log); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Report close error = %v", err)
	}

	if _, ok := readZip(t, rptConf.Destination)["inputs/styles.css"]; !ok {
		t.Error("stylesheet snapshot missing from debug report")
	}
}

func TestGenerate_OverwriteGuard(t *testing.T) {
	ctx, env := testContext(t)

	srcDir := t.TempDir()
	writeSourceTree(t, srcDir)
	env.Cfg.Bundle.Sources = []string{filepath.Join(srcDir, "*.html")}

	outPath := filepath.Join(t.TempDir(), "bundle.zip")
	if err := os.WriteFile(outPath, []byte("old"), 0644); err != nil {
		t.Fatalf("Failed to seed output file: %v", err)
	}

	if err := Generate(ctx, outPath, env.Log); err == nil {
		t.Error("Expected error when output exists and overwrite is off")
	}

	env.Overwrite = true
	if err := Generate(ctx, outPath, env.Log); err != nil {
		t.Fatalf("Generate() with overwrite error = %v", err)
	}
	if _, ok := readZip(t, outPath)["MANIFEST.yaml"]; !ok {
		t.Error("overwritten bundle has no manifest")
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, _ := testContext(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	err := Generate(ctx, filepath.Join(t.TempDir(), "bundle.zip"), zap.NewNop())
	if err != context.Canceled {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestWriteIcons_PreviewStrokeScale(t *testing.T) {
	icon := []byte(`<svg viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">
  <path d="M4 12 L20 12" fill="none" stroke="#000000" stroke-width="1"/>
</svg>`)

	render := func(scale float64) image.Image {
		t.Helper()

		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		cfg := &config.BundleConfig{
			Preview: config.PreviewConfig{
				Format:      config.PreviewFmtPng,
				Size:        32,
				StrokeScale: scale,
			},
		}
		if _, err := writeIcons(zw, []string{"line"}, map[string][]byte{"line": icon}, cfg, zap.NewNop()); err != nil {
			t.Fatalf("writeIcons() error = %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("Failed to close archive: %v", err)
		}

		zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		if err != nil {
			t.Fatalf("Failed to reopen archive: %v", err)
		}
		for _, f := range zr.File {
			if f.Name != "previews/line.png" {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("Failed to open preview: %v", err)
			}
			defer rc.Close()
			img, err := png.Decode(rc)
			if err != nil {
				t.Fatalf("Failed to decode preview: %v", err)
			}
			return img
		}
		t.Fatal("previews/line.png missing from archive")
		return nil
	}

	opaque := func(img image.Image) int {
		var n int
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
					n++
				}
			}
		}
		return n
	}

	thin := opaque(render(1))
	if thin == 0 {
		t.Fatal("baseline preview rendered no pixels")
	}
	thick := opaque(render(4))
	if thick <= thin {
		t.Errorf("stroke scale 4 covered %d pixels, want more than the %d at scale 1", thick, thin)
	}
}

func TestUsedIcons(t *testing.T) {
	res := scan.NewResult()
	res.Add("ds-icon-check")
	res.Add("ds-icon-missing")
	res.Add("ds-stack-2")
	res.Add("hero")

	icons := map[string][]byte{
		"check": []byte("<svg/>"),
		"cross": []byte("<svg/>"),
	}

	used := usedIcons(res, "ds", icons, zap.NewNop())
	if len(used) != 1 || used[0] != "check" {
		t.Errorf("usedIcons() = %v, want [check]", used)
	}
}

func TestRecolor(t *testing.T) {
	svg := []byte(`<svg viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">
  <path d="M4 12 L10 18 L20 6" fill="none" stroke="currentColor"/>
  <circle cx="12" cy="12" r="4" fill="currentColor"/>
</svg>`)

	out, err := Recolor(svg, "#abcdef")
	if err != nil {
		t.Fatalf("Recolor() error = %v", err)
	}

	s := string(out)
	if !strings.Contains(s, `stroke="#abcdef"`) {
		t.Error("stroke attribute not recolored")
	}
	if !strings.Contains(s, `fill="#abcdef"`) {
		t.Error("fill attribute not recolored")
	}
	if !strings.Contains(s, `fill="none"`) {
		t.Error("fill=none cutout not preserved")
	}
	if strings.Contains(s, "currentColor") {
		t.Error("currentColor values left behind")
	}
}

func TestRecolor_InvalidSVG(t *testing.T) {
	if _, err := Recolor([]byte("<svg"), "#000000"); err == nil {
		t.Error("Expected error for malformed SVG")
	}
}
