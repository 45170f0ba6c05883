// Package memory provides a slice-backed dataset source. It implements
// every optional capability, which makes it the reference source for
// tests and for exercising native-delegation paths.
package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/datakit-go/datastream/errors"
	"github.com/datakit-go/datastream/provider"
)

// Source is an in-memory dataset source.
type Source struct {
	name    string
	records []provider.Raw
	splits  map[string][]provider.Raw
}

// New creates a source over a single unnamed sequence of records.
func New(name string, records []provider.Raw) *Source {
	return &Source{name: name, records: records}
}

// NewWithSplits creates a source exposing named splits. Records()
// iterates the concatenation of all splits in sorted name order.
func NewWithSplits(name string, splits map[string][]provider.Raw) *Source {
	var all []provider.Raw
	for _, split := range sortedNames(splits) {
		all = append(all, splits[split]...)
	}
	return &Source{name: name, records: all, splits: splits}
}

// Factory builds a memory source from a config map with keys
// "name" (string) and "records" ([]provider.Raw) or "splits"
// (map[string][]provider.Raw).
func Factory(cfg map[string]any) (provider.Source, error) {
	name, _ := cfg["name"].(string)
	if name == "" {
		name = "memory"
	}
	if splits, ok := cfg["splits"].(map[string][]provider.Raw); ok {
		return NewWithSplits(name, splits), nil
	}
	records, ok := cfg["records"].([]provider.Raw)
	if !ok {
		return nil, fmt.Errorf("memory source config needs a records or splits key")
	}
	return New(name, records), nil
}

// Name implements provider.Provider.
func (s *Source) Name() string { return s.name }

// IsAvailable implements provider.Provider.
func (s *Source) IsAvailable(context.Context) bool { return true }

// Records implements provider.Source.
func (s *Source) Records(context.Context) (provider.Iterator[provider.Raw], error) {
	return provider.SliceIterator(s.records), nil
}

// Len implements provider.Lengther.
func (s *Source) Len(context.Context) (int, error) { return len(s.records), nil }

// At implements provider.Indexer.
func (s *Source) At(_ context.Context, index int) (provider.Raw, error) {
	if index < 0 || index >= len(s.records) {
		return nil, fmt.Errorf("index %d out of range [0, %d)", index, len(s.records))
	}
	return s.records[index], nil
}

// Take implements provider.TakeSource.
func (s *Source) Take(n int) provider.Source {
	if n > len(s.records) {
		n = len(s.records)
	}
	if n < 0 {
		n = 0
	}
	return New(s.name, s.records[:n])
}

// Skip implements provider.SkipSource.
func (s *Source) Skip(n int) provider.Source {
	if n > len(s.records) {
		n = len(s.records)
	}
	if n < 0 {
		n = 0
	}
	return New(s.name, s.records[n:])
}

// Shuffle implements provider.ShuffleSource. The source holds all
// records, so the native shuffle is a full seeded permutation; the
// reservoir bound only applies to the generic fallback.
func (s *Source) Shuffle(seed int64, _ int) provider.Source {
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	shuffled := make([]provider.Raw, len(s.records))
	copy(shuffled, s.records)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return New(s.name, shuffled)
}

// Shard implements provider.ShardSource using a strided partition:
// record i belongs to shard i mod numShards.
func (s *Source) Shard(numShards, index int) provider.Source {
	var shard []provider.Raw
	for i := index; i < len(s.records); i += numShards {
		shard = append(shard, s.records[i])
	}
	return New(s.name, shard)
}

// Splits implements provider.SplitSource.
func (s *Source) Splits() []string {
	return sortedNames(s.splits)
}

// Split implements provider.SplitSource.
func (s *Source) Split(name string) (provider.Source, error) {
	records, ok := s.splits[name]
	if !ok {
		return nil, errors.NotFound("split", s.name+"/"+name)
	}
	return New(s.name+"/"+name, records), nil
}

func sortedNames(splits map[string][]provider.Raw) []string {
	names := make([]string, 0, len(splits))
	for name := range splits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
