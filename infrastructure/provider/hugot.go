package provider

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// DefaultHugotModel is the sentence transformer used for local embeddings.
const DefaultHugotModel = "sentence-transformers/paraphrase-MiniLM-L6-v2"

const hugotBatchMax = 16

// sessionSingleton holds the process-wide hugot session and pipeline. ONNX
// Runtime allows one active session per process, so every HugotEmbedding
// shares it. The mutex serializes initialization and inference.
var sessionSingleton struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	model    string
	mu       sync.Mutex
	ready    bool
}

// HugotEmbedding runs a sentence-transformer model locally through hugot.
//
// Model files are looked up in modelDir: first a subdirectory named after the
// model (with "/" replaced by "_", the layout hugot.DownloadModel produces),
// then any subdirectory containing tokenizer.json. Binaries built with the
// embed_model tag extract their bundled model there on first use.
type HugotEmbedding struct {
	modelDir string
	model    string
}

// NewHugotEmbedding creates a HugotEmbedding for model, looking for files in
// modelDir. An empty model selects DefaultHugotModel.
func NewHugotEmbedding(modelDir, model string) *HugotEmbedding {
	if model == "" {
		model = DefaultHugotModel
	}
	return &HugotEmbedding{
		modelDir: modelDir,
		model:    model,
	}
}

// ModelID returns the model name prefixed with the provider name.
func (h *HugotEmbedding) ModelID() string { return "hugot:" + h.model }

// Available reports whether a usable model exists, either compiled into the
// binary or present on disk.
func (h *HugotEmbedding) Available() bool {
	if hasEmbeddedModel {
		return true
	}
	_, err := h.diskModelPath()
	return err == nil
}

// Load initializes the shared session so the first query does not pay for
// model loading.
func (h *HugotEmbedding) Load() error {
	return h.initialize()
}

func (h *HugotEmbedding) initialize() error {
	sessionSingleton.mu.Lock()
	defer sessionSingleton.mu.Unlock()

	if sessionSingleton.ready {
		if sessionSingleton.model != h.model {
			return fmt.Errorf("%w: session already holds %s", ErrModelUnavailable, sessionSingleton.model)
		}
		return nil
	}

	modelPath, err := h.resolveModelPath()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	session, err := newHugotSession()
	if err != nil {
		return fmt.Errorf("create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "fund-embeddings",
		Options: []hugot.FeatureExtractionOption{
			pipelines.WithNormalization(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("create feature extraction pipeline: %w", err)
	}

	sessionSingleton.session = session
	sessionSingleton.pipeline = pipeline
	sessionSingleton.model = h.model
	sessionSingleton.ready = true
	return nil
}

func (h *HugotEmbedding) resolveModelPath() (string, error) {
	if diskPath, err := h.diskModelPath(); err == nil {
		return diskPath, nil
	}

	if !hasEmbeddedModel {
		return "", fmt.Errorf("no model found in %s (run download-model or build with -tags embed_model)", h.modelDir)
	}

	if err := os.MkdirAll(h.modelDir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	return extractEmbeddedModel(embeddedModelFS, h.modelDir)
}

// diskModelPath prefers the directory named after the model, then falls back
// to the first subdirectory holding a tokenizer.json.
func (h *HugotEmbedding) diskModelPath() (string, error) {
	named := filepath.Join(h.modelDir, strings.ReplaceAll(h.model, "/", "_"))
	if hasTokenizer(named) {
		return named, nil
	}

	entries, err := os.ReadDir(h.modelDir)
	if err != nil {
		return "", fmt.Errorf("read model directory %s: %w", h.modelDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(h.modelDir, entry.Name())
		if hasTokenizer(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no model subdirectory with tokenizer.json found in %s", h.modelDir)
}

func hasTokenizer(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "tokenizer.json"))
	return err == nil
}

// extractEmbeddedModel writes the bundled model files to targetDir and
// returns the model subdirectory.
func extractEmbeddedModel(embedded fs.FS, targetDir string) (string, error) {
	if embedded == nil {
		return "", fmt.Errorf("no embedded model compiled in")
	}

	modelsFS, err := fs.Sub(embedded, "models")
	if err != nil {
		return "", fmt.Errorf("access embedded models: %w", err)
	}

	entries, err := fs.ReadDir(modelsFS, ".")
	if err != nil {
		return "", fmt.Errorf("read embedded models: %w", err)
	}

	var modelSubdir string
	for _, entry := range entries {
		if entry.IsDir() {
			modelSubdir = entry.Name()
			break
		}
	}
	if modelSubdir == "" {
		return "", fmt.Errorf("no model directory found in embedded models")
	}

	modelPath := filepath.Join(targetDir, modelSubdir)
	if hasTokenizer(modelPath) {
		return modelPath, nil
	}

	modelFS, err := fs.Sub(modelsFS, modelSubdir)
	if err != nil {
		return "", fmt.Errorf("access model subdirectory: %w", err)
	}

	err = fs.WalkDir(modelFS, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		target := filepath.Join(modelPath, path)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, readErr := fs.ReadFile(modelFS, path)
		if readErr != nil {
			return fmt.Errorf("read embedded file %s: %w", path, readErr)
		}
		if mkdirErr := os.MkdirAll(filepath.Dir(target), 0o755); mkdirErr != nil {
			return fmt.Errorf("create directory for %s: %w", path, mkdirErr)
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		return "", fmt.Errorf("extract embedded model: %w", err)
	}

	return modelPath, nil
}

// Embed generates embeddings with the local model, running the pipeline in
// chunks of at most hugotBatchMax texts.
func (h *HugotEmbedding) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := h.initialize(); err != nil {
		return nil, fmt.Errorf("initialize hugot: %w", err)
	}

	embeddings := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += hugotBatchMax {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+hugotBatchMax, len(texts))
		batch, err := runPipeline(texts[start:end])
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, batch...)
	}
	return embeddings, nil
}

func runPipeline(texts []string) ([][]float64, error) {
	sessionSingleton.mu.Lock()
	defer sessionSingleton.mu.Unlock()

	result, err := sessionSingleton.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("run embedding pipeline: %w", err)
	}

	out := make([][]float64, len(result.Embeddings))
	for i, vec32 := range result.Embeddings {
		vec64 := make([]float64, len(vec32))
		for j, v := range vec32 {
			vec64[j] = float64(v)
		}
		out[i] = vec64
	}
	return out, nil
}

// Close is a no-op. The session is process-global and released at exit.
func (h *HugotEmbedding) Close() error {
	return nil
}

var _ Embedder = (*HugotEmbedding)(nil)
