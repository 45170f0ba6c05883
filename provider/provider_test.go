package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/datakit-go/datastream/resilience"
)

// stubSource is a minimal Source for exercising the framework.
type stubSource struct {
	name      string
	records   []Raw
	openErrs  int // number of Records calls that fail before success
	initCalls int
	closed    bool
}

func (s *stubSource) Name() string                     { return s.name }
func (s *stubSource) IsAvailable(context.Context) bool { return true }

func (s *stubSource) Records(context.Context) (Iterator[Raw], error) {
	if s.openErrs > 0 {
		s.openErrs--
		return nil, errors.New("transient open failure")
	}
	return SliceIterator(s.records), nil
}

func (s *stubSource) Init(context.Context) error {
	s.initCalls++
	return nil
}

func (s *stubSource) Close(context.Context) error {
	s.closed = true
	return nil
}

func collectRaw(t *testing.T, src Source) []Raw {
	t.Helper()
	iter, err := src.Records(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer iter.Close()
	var out []Raw
	for {
		raw, ok, err := iter.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			return out
		}
		out = append(out, raw)
	}
}

func TestRegistryCreateUnknownFactory(t *testing.T) {
	reg := NewRegistry[Source]()
	if _, err := reg.Create("nope", nil); err == nil {
		t.Fatal("expected error for unregistered factory")
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry[Source]()
	reg.RegisterFactory("b", func(map[string]any) (Source, error) { return &stubSource{name: "b"}, nil })
	reg.RegisterFactory("a", func(map[string]any) (Source, error) { return &stubSource{name: "a"}, nil })
	names := reg.List()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("List() = %v, want sorted [a b]", names)
	}
}

func TestManagerInitializeAndGet(t *testing.T) {
	reg := NewRegistry[Source]()
	src := &stubSource{name: "stub"}
	reg.RegisterFactory("stub", func(map[string]any) (Source, error) { return src, nil })

	mgr := NewManager(reg)
	if err := mgr.Initialize("stub", nil); err != nil {
		t.Fatal(err)
	}

	got, err := mgr.GetByName("stub")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name() != "stub" {
		t.Errorf("got source %q", got.Name())
	}
	if src.initCalls != 1 {
		t.Errorf("Init called %d times, want 1", src.initCalls)
	}
}

func TestManagerGetUnknown(t *testing.T) {
	mgr := NewManager(NewRegistry[Source]())
	if _, err := mgr.GetByName("missing"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestManagerShutdownClosesProviders(t *testing.T) {
	reg := NewRegistry[Source]()
	src := &stubSource{name: "stub"}
	reg.RegisterFactory("stub", func(map[string]any) (Source, error) { return src, nil })

	mgr := NewManager(reg)
	if err := mgr.Initialize("stub", nil); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !src.closed {
		t.Error("Shutdown should close Closeable providers")
	}
	if _, err := mgr.GetByName("stub"); err == nil {
		t.Error("providers should be dropped after Shutdown")
	}
}

type renamingSource struct {
	Source
	suffix string
}

func (s *renamingSource) Name() string { return s.Source.Name() + s.suffix }

func TestChainOrder(t *testing.T) {
	appendName := func(suffix string) Middleware {
		return func(inner Source) Source {
			return &renamingSource{Source: inner, suffix: suffix}
		}
	}
	src := Chain(appendName("-a"), appendName("-b"))(&stubSource{name: "base"})
	// Chain(a, b) == a(b(src)): b applies first, a is outermost.
	if src.Name() != "base-b-a" {
		t.Errorf("Name() = %q, want base-b-a", src.Name())
	}
}

func TestWithRetryRecoversTransientOpen(t *testing.T) {
	src := &stubSource{
		name:     "flaky",
		records:  []Raw{{"n": 1}},
		openErrs: 2,
	}
	cfg := resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		BackoffFactor:  1.0,
	}
	wrapped := WithRetry(cfg)(src)

	records := collectRaw(t, wrapped)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	src := &stubSource{name: "dead", openErrs: 10}
	cfg := resilience.RetryConfig{
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
		BackoffFactor:  1.0,
	}
	wrapped := WithRetry(cfg)(src)
	if _, err := wrapped.Records(context.Background()); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
}

func TestSliceIterator(t *testing.T) {
	iter := SliceIterator([]int{1, 2})
	defer iter.Close()

	for want := 1; want <= 2; want++ {
		got, ok, err := iter.Next(context.Background())
		if err != nil || !ok {
			t.Fatalf("Next() = %v, %v, %v", got, ok, err)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
	if _, ok, _ := iter.Next(context.Background()); ok {
		t.Error("iterator should be exhausted")
	}
	// Exhaustion is sticky.
	if _, ok, _ := iter.Next(context.Background()); ok {
		t.Error("exhausted iterator should stay exhausted")
	}
}

func TestFuncIterator(t *testing.T) {
	n := 0
	closed := false
	iter := FuncIterator(func(context.Context) (int, bool, error) {
		n++
		if n > 3 {
			return 0, false, nil
		}
		return n, true, nil
	}, func() error {
		closed = true
		return nil
	})

	count := 0
	for {
		_, ok, err := iter.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		count++
	}
	if count != 3 {
		t.Errorf("yielded %d values, want 3", count)
	}
	iter.Close()
	if !closed {
		t.Error("Close should call the closer")
	}
}
