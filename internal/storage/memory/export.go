// internal/storage/memory/export.go
package memory

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

// Export writes a snapshot to the output directory and returns the file path
func (b *Backend) Export() (string, error) {
	snap := b.Snapshot()
	timestamp := b.now().UTC().Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("poisync_%s.json.gz", timestamp)
	} else {
		filename = fmt.Sprintf("poisync_%s.json", timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := b.create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if b.cfg.CompressOutput {
		err = writeGzipJSON(f, snap)
	} else {
		err = writeJSON(f, snap)
	}
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close file: %w", closeErr)
	}
	if err != nil {
		os.Remove(outputPath)
		return "", err
	}

	b.mu.Lock()
	b.lastExportPath = outputPath
	b.mu.Unlock()
	return outputPath, nil
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// GetExportedFilePath returns the path of the last export
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

func writeJSON(w io.Writer, data Snapshot) error {
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

func writeGzipJSON(w io.Writer, data Snapshot) error {
	gzWriter := gzip.NewWriter(w)
	if err := writeJSON(gzWriter, data); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}
