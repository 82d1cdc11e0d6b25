package flux

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestMonoBlock(t *testing.T) {
	ctx := testContext(t)

	v, ok, err := JustMono("x").Block(ctx)
	if err != nil || !ok || v != "x" {
		t.Errorf("JustMono = %q, %v, %v", v, ok, err)
	}

	_, ok, err = EmptyMono[string]().Block(ctx)
	if err != nil || ok {
		t.Errorf("EmptyMono ok = %v, err = %v", ok, err)
	}

	boom := errors.New("boom")
	if _, _, err := ErrorMono[string](boom).Block(ctx); !errors.Is(err, boom) {
		t.Errorf("ErrorMono err = %v", err)
	}
}

func TestFromCallable(t *testing.T) {
	calls := 0
	m := FromCallable(func() (int, error) {
		calls++
		if calls > 1 {
			return 0, errors.New("second call fails")
		}
		return 42, nil
	})
	if calls != 0 {
		t.Fatal("callable must not run before subscription")
	}

	ctx := testContext(t)
	if v, _, err := m.Block(ctx); err != nil || v != 42 {
		t.Errorf("first = %d, %v", v, err)
	}
	if _, _, err := m.Block(ctx); err == nil {
		t.Error("expected error on second subscription")
	}
}

func TestMonoOperators(t *testing.T) {
	ctx := testContext(t)

	upper, _, _ := MapMono(JustMono("bruce"), strings.ToUpper).Block(ctx)
	if upper != "BRUCE" {
		t.Errorf("MapMono = %q", upper)
	}

	length, _, _ := FlatMapMono(JustMono("bruce"), func(s string) *Mono[int] {
		return JustMono(len(s))
	}).Block(ctx)
	if length != 5 {
		t.Errorf("FlatMapMono = %d", length)
	}

	chars := collect(t, FlatMapMany(JustMono("ab"), func(s string) *Flux[string] {
		return FromSlice(strings.Split(s, ""))
	}))
	if !slices.Equal(chars, []string{"a", "b"}) {
		t.Errorf("FlatMapMany = %v", chars)
	}

	pair, ok, err := ZipMono(JustMono("a"), JustMono(1), func(s string, n int) Tuple2[string, int] {
		return Tuple2[string, int]{s, n}
	}).Block(ctx)
	if err != nil || !ok || pair != (Tuple2[string, int]{"a", 1}) {
		t.Errorf("ZipMono = %v, %v, %v", pair, ok, err)
	}

	_, ok, _ = ZipMono(JustMono("a"), EmptyMono[int](), func(s string, n int) string { return s }).Block(ctx)
	if ok {
		t.Error("zip with an empty Mono must complete empty")
	}

	if name := CollectList(Just(1)).Name(); name != "CollectList" {
		t.Errorf("Name() = %q", name)
	}
}
