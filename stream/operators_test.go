package stream

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/datakit-go/datastream/errors"
	"github.com/datakit-go/datastream/provider"
	"github.com/datakit-go/datastream/record"
)

func collectIDs(t *testing.T, s *Stream) []int64 {
	t.Helper()
	recs, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return ids(t, recs)
}

func TestTake(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []int64
	}{
		{"zero", 0, nil},
		{"some", 3, []int64{0, 1, 2}},
		{"all", 5, []int64{0, 1, 2, 3, 4}},
		{"past end", 99, []int64{0, 1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromSource(&basicSource{name: "t", rows: rows(5)}).Take(tt.n)
			if got := collectIDs(t, s); !equalIDs(got, tt.want) {
				t.Errorf("take(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []int64
	}{
		{"zero", 0, []int64{0, 1, 2, 3, 4}},
		{"some", 2, []int64{2, 3, 4}},
		{"all", 5, nil},
		{"past end", 99, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromSource(&basicSource{name: "s", rows: rows(5)}).Skip(tt.n)
			if got := collectIDs(t, s); !equalIDs(got, tt.want) {
				t.Errorf("skip(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestInvalidArgumentsSurfaceAtIteration(t *testing.T) {
	base := FromSource(&basicSource{name: "v", rows: rows(5)})
	tests := []struct {
		name string
		s    *Stream
	}{
		{"negative take", base.Take(-1)},
		{"negative skip", base.Skip(-2)},
		{"zero shards", base.Shard(0, 0)},
		{"shard index out of range", base.Shard(4, 4)},
		{"zero batch", base.Batch(0, false)},
		{"nil filter", base.Filter(nil)},
		{"nil map", base.Map(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Chain construction itself must not fail.
			if tt.s == nil {
				t.Fatal("operator returned nil stream")
			}
			_, err := tt.s.Collect(context.Background())
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestShardDisjointUnion(t *testing.T) {
	const total, shards = 23, 4
	seen := make(map[int64]int)
	for idx := 0; idx < shards; idx++ {
		s := FromSource(&basicSource{name: "sh", rows: rows(total)}).Shard(shards, idx)
		for _, id := range collectIDs(t, s) {
			seen[id]++
			if id%shards != int64(idx) {
				t.Errorf("shard %d yielded id %d", idx, id)
			}
		}
	}
	if len(seen) != total {
		t.Fatalf("union covers %d ids, want %d", len(seen), total)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %d appeared %d times", id, n)
		}
	}
}

func TestFilterKeepsSubsequence(t *testing.T) {
	s := FromSource(&basicSource{name: "f", rows: rows(20)}).
		Filter(func(rec *record.Record) bool {
			id, _ := mustID(rec)
			return id%3 == 0
		})

	got := collectIDs(t, s)
	if want := []int64{0, 3, 6, 9, 12, 15, 18}; !equalIDs(got, want) {
		t.Fatalf("filter = %v, want %v", got, want)
	}
	// Relative order preserved: a filtered stream is a subsequence.
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("order not preserved: %v", got)
		}
	}
}

func TestFilterTakeBatch(t *testing.T) {
	s := FromSource(&basicSource{name: "ftb", rows: rows(100)}).
		Filter(func(rec *record.Record) bool {
			id, _ := mustID(rec)
			return id%2 == 0
		}).
		Take(10).
		Batch(5, false)

	batches, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}
	var flat []int64
	for i, b := range batches {
		if got := record.BatchLen(b); got != 5 {
			t.Errorf("batch %d has %d records, want 5", i, got)
		}
		col, _ := b.Get("id")
		items, _ := col.AsList()
		for _, v := range items {
			id, _ := v.AsInt()
			flat = append(flat, id)
		}
	}
	want := []int64{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}
	if !equalIDs(flat, want) {
		t.Errorf("batched ids = %v, want %v", flat, want)
	}
}

func TestBatchDropLast(t *testing.T) {
	base := FromSource(&basicSource{name: "b", rows: rows(7)})

	kept, err := base.Batch(3, false).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(kept) != 3 || record.BatchLen(kept[2]) != 1 {
		t.Errorf("partial batch: got %d batches, last len %d", len(kept), record.BatchLen(kept[len(kept)-1]))
	}

	dropped, err := base.Batch(3, true).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(dropped) != 2 {
		t.Errorf("dropLast: got %d batches, want 2", len(dropped))
	}
	for i, b := range dropped {
		if record.BatchLen(b) != 3 {
			t.Errorf("batch %d len = %d, want 3", i, record.BatchLen(b))
		}
	}
}

func TestMapRemovesFields(t *testing.T) {
	s := FromSource(&basicSource{name: "m", rows: rows(3)}).
		Map(func(rec *record.Record) (*record.Record, error) {
			id, _ := mustID(rec)
			rec.Set("squared", record.Int(id*id))
			return rec, nil
		}, "label", "no-such-field")

	recs, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for i, rec := range recs {
		if _, ok := rec.Get("label"); ok {
			t.Errorf("record %d still has label", i)
		}
		v, ok := rec.Get("squared")
		if !ok {
			t.Fatalf("record %d missing squared", i)
		}
		sq, _ := v.AsInt()
		if sq != int64(i*i) {
			t.Errorf("record %d squared = %d, want %d", i, sq, i*i)
		}
	}
}

func TestMapStages(t *testing.T) {
	s := FromSource(&basicSource{name: "mm", rows: rows(3)}).
		Map(func(rec *record.Record) (*record.Record, error) {
			id, _ := mustID(rec)
			rec.Set("id", record.Int(id+10))
			return rec, nil
		}).
		Map(func(rec *record.Record) (*record.Record, error) {
			id, _ := mustID(rec)
			rec.Set("id", record.Int(id*2))
			return rec, nil
		})

	if got, want := collectIDs(t, s), []int64{20, 22, 24}; !equalIDs(got, want) {
		t.Errorf("stacked maps = %v, want %v", got, want)
	}
}

func TestShuffleIsSeededPermutation(t *testing.T) {
	const n = 50
	// Filter first so the generic reservoir runs rather than a native
	// source shuffle.
	chain := func(seed int64) *Stream {
		return FromSource(&basicSource{name: "sh", rows: rows(n)}).
			Filter(func(*record.Record) bool { return true }).
			Shuffle(seed, 16)
	}

	first := collectIDs(t, chain(7))
	second := collectIDs(t, chain(7))
	other := collectIDs(t, chain(8))

	if !equalIDs(first, second) {
		t.Error("same seed produced different orders")
	}
	if equalIDs(first, other) {
		t.Error("different seeds produced identical orders")
	}

	sorted := append([]int64(nil), first...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, id := range sorted {
		if id != int64(i) {
			t.Fatalf("shuffle is not a permutation: %v", first)
		}
	}
}

// capSource records whether operators delegated to the native
// implementations.
type capSource struct {
	basicSource
	nativeTake int
}

func (s *capSource) Take(n int) provider.Source {
	s.nativeTake++
	if n > len(s.rows) {
		n = len(s.rows)
	}
	return &basicSource{name: s.name, rows: s.rows[:n]}
}

func TestTakeDelegatesWhileChainIsSequenceLevel(t *testing.T) {
	src := &capSource{basicSource: basicSource{name: "cap", rows: rows(10)}}

	got := collectIDs(t, FromSource(src).Take(4))
	if src.nativeTake != 1 {
		t.Fatalf("native take called %d times, want 1", src.nativeTake)
	}
	if want := []int64{0, 1, 2, 3}; !equalIDs(got, want) {
		t.Errorf("delegated take = %v, want %v", got, want)
	}

	// A record-level stage ends delegation.
	src.nativeTake = 0
	got = collectIDs(t, FromSource(src).Filter(func(*record.Record) bool { return true }).Take(4))
	if src.nativeTake != 0 {
		t.Fatalf("native take called after a record-level stage")
	}
	if want := []int64{0, 1, 2, 3}; !equalIDs(got, want) {
		t.Errorf("generic take = %v, want %v", got, want)
	}
}

func TestPipeAndComposeAgree(t *testing.T) {
	newBase := func() *Stream {
		return FromSource(&basicSource{name: "p", rows: rows(40)})
	}
	even := FilterOp(func(rec *record.Record) bool {
		id, _ := mustID(rec)
		return id%2 == 0
	})
	ops := []Op{even, TakeOp(10), BatchOp(5, false)}

	viaPipe, err := newBase().Pipe(ops...).Collect(context.Background())
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	viaCompose, err := Compose(ops...)(newBase()).Collect(context.Background())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	viaNested, err := Compose(Compose(even, TakeOp(10)), BatchOp(5, false))(newBase()).Collect(context.Background())
	if err != nil {
		t.Fatalf("nested compose: %v", err)
	}

	if len(viaPipe) != len(viaCompose) || len(viaPipe) != len(viaNested) {
		t.Fatalf("batch counts differ: %d %d %d", len(viaPipe), len(viaCompose), len(viaNested))
	}
	for i := range viaPipe {
		if !viaPipe[i].Equal(viaCompose[i]) || !viaPipe[i].Equal(viaNested[i]) {
			t.Errorf("batch %d differs between compositions", i)
		}
	}
}

func TestTransformAndFormatOps(t *testing.T) {
	s := FromSource(&basicSource{name: "ops", rows: rows(2)}).Pipe(
		TransformOp(func(rec *record.Record) (*record.Record, error) {
			rec.Set("seen", record.Bool(true))
			return rec, nil
		}),
		TakeOp(1),
	)
	recs, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if _, ok := recs[0].Get("seen"); !ok {
		t.Error("TransformOp did not install the transform")
	}

	raw := FromSource(&basicSource{name: "ops", rows: rows(1)}).Pipe(FormatOp(FormatRaw))
	recs, err = raw.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect raw: %v", err)
	}
	if v, _ := recs[0].Get("id"); v.Kind() != record.KindForeign {
		t.Errorf("FormatOp kind = %v, want foreign", v.Kind())
	}
}

func ExampleStream_Pipe() {
	src := &basicSource{name: "example", rows: rows(6)}
	s := FromSource(src).Pipe(SkipOp(2), TakeOp(2))

	recs, _ := s.Collect(context.Background())
	for _, rec := range recs {
		v, _ := rec.Get("label")
		label, _ := v.AsString()
		fmt.Println(label)
	}
	// Output:
	// r02
	// r03
}
