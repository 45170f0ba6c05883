// Package msgfile provides a dataset source reading a stream of
// msgpack-encoded records from a local file. It is the reference
// file-backed source for tests and examples; real dataset formats are
// the concern of out-of-tree providers.
package msgfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/datakit-go/datastream/provider"
)

// Source streams records from a file of concatenated msgpack maps.
// Length and positional access are unknown without a full scan, so the
// source advertises no capabilities beyond the base Source surface.
type Source struct {
	name string
	path string
}

// New creates a source for the given file path.
func New(name, path string) *Source {
	return &Source{name: name, path: path}
}

// Factory builds a msgfile source from a config map with keys
// "name" and "path".
func Factory(cfg map[string]any) (provider.Source, error) {
	path, _ := cfg["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("msgfile source config needs a path key")
	}
	name, _ := cfg["name"].(string)
	if name == "" {
		name = "msgfile"
	}
	return New(name, path), nil
}

// Name implements provider.Provider.
func (s *Source) Name() string { return s.name }

// IsAvailable implements provider.Provider.
func (s *Source) IsAvailable(context.Context) bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Init implements provider.Initializable by verifying the file exists.
func (s *Source) Init(context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("msgfile source %q: %w", s.name, err)
	}
	return nil
}

// Records implements provider.Source. Each call opens the file fresh.
func (s *Source) Records(context.Context) (provider.Iterator[provider.Raw], error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open msgfile %q: %w", s.path, err)
	}
	return &fileIter{file: f, dec: msgpack.NewDecoder(f)}, nil
}

type fileIter struct {
	file *os.File
	dec  *msgpack.Decoder
	done bool
}

func (it *fileIter) Next(_ context.Context) (provider.Raw, bool, error) {
	if it.done {
		return nil, false, nil
	}
	var raw map[string]any
	if err := it.dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			it.done = true
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("decode record: %w", err)
	}
	return raw, true, nil
}

func (it *fileIter) Close() error { return it.file.Close() }

// Write encodes records as concatenated msgpack maps to path. Intended
// for producing fixtures and small local datasets.
func Write(path string, records []provider.Raw) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create msgfile %q: %w", path, err)
	}
	enc := msgpack.NewEncoder(f)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			return fmt.Errorf("encode record: %w", err)
		}
	}
	return f.Close()
}
