//go:build ORT

package provider

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
)

// newHugotSession uses ONNX Runtime when built with the ORT tag.
func newHugotSession() (*hugot.Session, error) {
	opts := []options.WithOption{}
	if dir := onnxLibraryDir(); dir != "" {
		opts = append(opts, options.WithOnnxLibraryPath(dir))
	}
	session, err := hugot.NewORTSession(opts...)
	if err != nil {
		return nil, fmt.Errorf("onnx runtime backend: %w", err)
	}
	return session, nil
}

// onnxLibraryDir returns ORT_LIB_DIR if set, otherwise the first lib/
// directory next to the executable or the working directory. An empty result
// lets hugot use its platform default.
func onnxLibraryDir() string {
	if dir := os.Getenv("ORT_LIB_DIR"); dir != "" {
		return dir
	}

	var roots []string
	if exe, err := os.Executable(); err == nil {
		roots = append(roots, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		roots = append(roots, wd)
	}

	for _, root := range roots {
		dir := filepath.Join(root, "lib")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
