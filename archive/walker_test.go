package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestWalk(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "icons.zip")

	// Create a test icon pack
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)

	files := []struct {
		name    string
		content string
	}{
		{"icons/check.svg", "<svg/>"},
		{"icons/cross.svg", "<svg/>"},
		{"previews/check.png", "png data"},
		{"previews/cross.png", "png data"},
		{"manifest.yaml", "version: 1"},
	}

	for _, f := range files {
		fw, err := w.Create(f.name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", f.name, err)
		}
		if _, err := fw.Write([]byte(f.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", f.name, err)
		}
	}

	w.Close()
	zipFile.Close()

	t.Run("walk with icons prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "icons/", nil, func(archive, name string, file *zip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			if name != file.Name {
				t.Errorf("name = %s, want %s (no decoding requested)", name, file.Name)
			}
			visited = append(visited, name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 2 {
			t.Errorf("visited %d files, want 2", len(visited))
		}

		expected := map[string]bool{
			"icons/check.svg": true,
			"icons/cross.svg": true,
		}
		for _, name := range visited {
			if !expected[name] {
				t.Errorf("unexpected file visited: %s", name)
			}
		}
	})

	t.Run("walk with previews prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "previews/", nil, func(archive, name string, file *zip.File) error {
			visited = append(visited, name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 2 {
			t.Errorf("visited %d files, want 2", len(visited))
		}
	})

	t.Run("walk with no matching prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "nonexistent/", nil, func(archive, name string, file *zip.File) error {
			visited = append(visited, name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 0 {
			t.Errorf("visited %d files, want 0", len(visited))
		}
	})

	t.Run("walk with empty prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "", nil, func(archive, name string, file *zip.File) error {
			visited = append(visited, name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 5 {
			t.Errorf("visited %d files, want 5", len(visited))
		}
	})

	t.Run("walkFn returns error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		err := Walk(zipPath, "icons/", nil, func(archive, name string, file *zip.File) error {
			return expectedErr
		})

		if err != expectedErr {
			t.Errorf("Walk() error = %v, want %v", err, expectedErr)
		}
	})
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/icons.zip", "", nil, func(archive, name string, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		tmpDir := t.TempDir()
		invalidZip := filepath.Join(tmpDir, "invalid.zip")

		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}

		err := Walk(invalidZip, "", nil, func(archive, name string, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_WithDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "icons.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)

	// Add directory entries (usually created by zip utilities)
	dirHeader := &zip.FileHeader{
		Name: "icons/",
	}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	fw, err := w.Create("icons/dot.svg")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("<svg/>"))

	w.Close()
	zipFile.Close()

	// Walk should not call walkFn for directories
	var visited []string
	err = Walk(zipPath, "icons/", nil, func(archive, name string, file *zip.File) error {
		visited = append(visited, name)
		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}

	if len(visited) != 1 {
		t.Errorf("visited %d entries, want 1 (file only, not directory)", len(visited))
	}

	if len(visited) > 0 && visited[0] != "icons/dot.svg" {
		t.Errorf("visited %s, want icons/dot.svg", visited[0])
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "icons.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	for i := 0; i < 5; i++ {
		fw, err := w.Create("icons/icon" + string(rune('0'+i)) + ".svg")
		if err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
		fw.Write([]byte("<svg/>"))
	}
	w.Close()
	zipFile.Close()

	// Walk should stop when walkFn returns error
	var visited int
	stopErr := errors.New("stop walking")
	err = Walk(zipPath, "icons/", nil, func(archive, name string, file *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})

	if err != stopErr {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}

	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_FileContent(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "icons.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	content := []byte(`<svg viewBox="0 0 24 24"/>`)
	fw, err := w.Create("check.svg")
	if err != nil {
		t.Fatalf("Failed to create file in zip: %v", err)
	}
	fw.Write(content)
	w.Close()
	zipFile.Close()

	err = Walk(zipPath, "", nil, func(archive, name string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}

		if !bytes.Equal(buf.Bytes(), content) {
			t.Errorf("content = %s, want %s", buf.Bytes(), content)
		}

		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestWalk_CodePageNames(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "legacy.zip")

	// Entry name stored in CP866 the way old archivers did it
	enc := charmap.CodePage866
	legacyName, err := enc.NewEncoder().String("значки/галка.svg")
	if err != nil {
		t.Fatalf("Failed to encode fixture name: %v", err)
	}

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	fw, err := w.CreateHeader(&zip.FileHeader{Name: legacyName, NonUTF8: true, Method: zip.Deflate})
	if err != nil {
		t.Fatalf("Failed to create file in zip: %v", err)
	}
	fw.Write([]byte("<svg/>"))

	fw, err = w.Create("icons/plain.svg")
	if err != nil {
		t.Fatalf("Failed to create file in zip: %v", err)
	}
	fw.Write([]byte("<svg/>"))

	w.Close()
	zipFile.Close()

	t.Run("decoded prefix match", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "значки/", enc, func(archive, name string, file *zip.File) error {
			visited = append(visited, name)
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if len(visited) != 1 || visited[0] != "значки/галка.svg" {
			t.Errorf("visited = %v, want [значки/галка.svg]", visited)
		}
	})

	t.Run("ascii names untouched", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "icons/", enc, func(archive, name string, file *zip.File) error {
			visited = append(visited, name)
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if len(visited) != 1 || visited[0] != "icons/plain.svg" {
			t.Errorf("visited = %v, want [icons/plain.svg]", visited)
		}
	})

	t.Run("no override leaves raw bytes", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, legacyName, nil, func(archive, name string, file *zip.File) error {
			visited = append(visited, name)
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if len(visited) != 1 {
			t.Errorf("visited %d files, want 1", len(visited))
		}
	})
}

func TestWalk_CaseSensitivity(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "icons.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	fw, err := w.Create("Icons/Check.svg")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("<svg/>"))
	w.Close()
	zipFile.Close()

	// Prefix matching is case-sensitive
	t.Run("case sensitive match", func(t *testing.T) {
		var visited int
		err := Walk(zipPath, "Icons/", nil, func(archive, name string, file *zip.File) error {
			visited++
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 1 {
			t.Errorf("visited %d files with 'Icons/', want 1", visited)
		}
	})

	t.Run("case sensitive no match", func(t *testing.T) {
		var visited int
		err := Walk(zipPath, "icons/", nil, func(archive, name string, file *zip.File) error {
			visited++
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 0 {
			t.Errorf("visited %d files with 'icons/', want 0", visited)
		}
	})
}
