// Command download-model fetches the sentence-transformer ONNX model used for
// local fund embeddings.
//
// The default destination is the data directory's models folder, where the
// fundmatch CLI looks for it. Pass infrastructure/provider/models to bundle
// the model into binaries built with -tags embed_model.
//
// Usage: download-model [dest] [model]
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/helixml/fundmatch/infrastructure/provider"
	"github.com/helixml/fundmatch/internal/config"
	"github.com/knights-analytics/hugot"
)

const (
	onnxFile = "onnx/model.onnx"
	attempts = 4
)

func main() {
	dest := filepath.Join(config.DefaultDataDir(), config.DefaultModelSubdir)
	if len(os.Args) > 1 {
		dest = os.Args[1]
	}
	model := provider.DefaultHugotModel
	if len(os.Args) > 2 {
		model = os.Args[2]
	}

	if dir := modelDir(dest, model); modelReady(dir) {
		fmt.Printf("Model already present at %s\n", dir)
		return
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Downloading %s to %s...\n", model, dest)

	opts := hugot.NewDownloadOptions()
	opts.OnnxFilePath = onnxFile

	var (
		path string
		err  error
	)
	delay := 2 * time.Second
	for i := range attempts {
		if i > 0 {
			fmt.Fprintf(os.Stderr, "retry in %s: %v\n", delay, err)
			time.Sleep(delay)
			delay *= 2
		}
		if path, err = hugot.DownloadModel(model, dest, opts); err == nil {
			break
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "download model: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Model ready at %s\n", path)
}

// modelDir is the subdirectory hugot.DownloadModel creates for model.
func modelDir(dest, model string) string {
	return filepath.Join(dest, strings.ReplaceAll(model, "/", "_"))
}

// modelReady reports whether dir holds a tokenizer and the ONNX weights.
func modelReady(dir string) bool {
	for _, name := range []string{"tokenizer.json", filepath.FromSlash(onnxFile)} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}
