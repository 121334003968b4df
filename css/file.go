package css

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// WriteFile writes a stylesheet to path, creating parent directories.
func WriteFile(path string, sheet *Stylesheet) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if _, err := sheet.WriteTo(f); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return nil
}
