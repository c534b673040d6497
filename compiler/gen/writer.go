package gen

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// writer renders artifacts and writes them to the target directory.
type writer struct {
	cfg *Config

	// Metrics for reporting
	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks the written output.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
}

func newWriter(cfg *Config) *writer {
	return &writer{cfg: cfg}
}

// Metrics returns a snapshot of the writer metrics.
func (w *writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// write renders f and writes it to name, relative to the target directory.
// It returns the written path.
func (w *writer) write(class string, f *jen.File, name string) (string, error) {
	fullPath := filepath.Join(w.cfg.target(), name)

	// 1. Render (jen runs go/format on the output)
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", NewGenerationError(class, "render", fullPath, "render artifact", err)
	}
	src := buf.Bytes()

	// 2. Resolve imports referenced only from verbatim expressions
	if w.cfg.enabled(FeatureImports) {
		formatted, err := imports.Process(fullPath, src, &imports.Options{Comments: true, TabIndent: true, TabWidth: 8})
		if err != nil {
			// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
			debugPath := fullPath + ".error"
			_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
			_ = os.WriteFile(debugPath, src, 0o644)
			return "", NewGenerationError(class, "format", fullPath, "unformatted output written to "+debugPath, err)
		}
		src = formatted
	}

	// 3. Open
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", NewGenerationError(class, "open", fullPath, "failed to open file", err)
	}
	out, err := os.Create(fullPath)
	if err != nil {
		return "", NewGenerationError(class, "open", fullPath, "failed to open file", err)
	}

	// 4. Write
	n, err := out.Write(src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", NewGenerationError(class, "write", fullPath, "write artifact", err)
	}

	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(n)
	w.mu.Unlock()
	return fullPath, nil
}
