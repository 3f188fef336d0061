package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/helixml/fundmatch/domain/fund"
)

// ErrUnsupportedFormat indicates a catalog file extension with no parser.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

type parser func(source string, r io.Reader, opts ...Option) (fund.Catalog, error)

// parserFor picks a parser from the file extension.
func parserFor(path string) (parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return func(source string, r io.Reader, opts ...Option) (fund.Catalog, error) {
			return ParseDelimited(source, r, ',', opts...)
		}, nil
	case ".tsv":
		return func(source string, r io.Reader, opts ...Option) (fund.Catalog, error) {
			return ParseDelimited(source, r, '\t', opts...)
		}, nil
	case ".yaml", ".yml":
		return ParseYAML, nil
	case ".json":
		return ParseJSON, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// FileSource loads a catalog from disk, choosing the format by extension.
type FileSource struct {
	path  string
	parse parser
	opts  []Option
}

// NewFileSource creates a FileSource for path. It fails for extensions other
// than .csv, .tsv, .yaml, .yml and .json.
func NewFileSource(path string, opts ...Option) (FileSource, error) {
	parse, err := parserFor(path)
	if err != nil {
		return FileSource{}, err
	}
	return FileSource{path: path, parse: parse, opts: opts}, nil
}

// Path returns the catalog file path.
func (s FileSource) Path() string { return s.path }

// Describe returns the catalog file path.
func (s FileSource) Describe() string { return s.path }

// Load reads and validates the catalog file.
func (s FileSource) Load(ctx context.Context) (fund.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return fund.Catalog{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return fund.Catalog{}, fund.NewCatalogLoadError(s.path, 0, "open catalog", err)
	}
	defer func() { _ = f.Close() }()

	return s.parse(s.path, f, s.opts...)
}

// Fingerprint identifies the file's current content by size and modification
// time.
func (s FileSource) Fingerprint(_ context.Context) (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return "", fmt.Errorf("stat catalog: %w", err)
	}
	return fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()), nil
}

// NewSource returns a FileSource for path, or the BuiltinSource when path is
// empty.
func NewSource(path string, opts ...Option) (fund.Source, error) {
	if path == "" {
		return NewBuiltinSource(), nil
	}
	return NewFileSource(path, opts...)
}

var _ fund.Source = FileSource{}
