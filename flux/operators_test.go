package flux

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	apperrors "github.com/kbukum/fluxkit/errors"
	"github.com/kbukum/fluxkit/scheduler"
)

func TestFlatMapPreservesOrderForSynchronousInners(t *testing.T) {
	src := FlatMap(Just(1, 2, 3), func(v int) *Flux[string] {
		return Just(fmt.Sprintf("%da", v), fmt.Sprintf("%db", v))
	})

	got := collect(t, src)
	want := []string{"1a", "1b", "2a", "2b", "3a", "3b"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFlatMapEmptyAndNilInners(t *testing.T) {
	src := FlatMap(Range(0, 5), func(v int) *Flux[int] {
		switch {
		case v%2 == 0:
			return Just(v)
		case v == 1:
			return nil
		default:
			return Empty[int]()
		}
	})

	if got := collect(t, src); !slices.Equal(got, []int{0, 2, 4}) {
		t.Errorf("got %v", got)
	}
}

func TestFlatMapInnerErrorTerminates(t *testing.T) {
	limit := apperrors.LimitExceeded("Solo hasta 5", 5)
	src := FlatMap(Range(0, 10), func(v int) *Flux[int] {
		if v >= 5 {
			return Error[int](limit)
		}
		return Just(v)
	})

	var rec recorder[int]
	sub := src.Subscribe(context.Background(), rec.handlers())

	if got := rec.snapshot(); !slices.Equal(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("values = %v", got)
	}
	if errs, completes := rec.terminals(); errs != 1 || completes != 0 {
		t.Errorf("errors = %d, completes = %d", errs, completes)
	}
	if !errors.Is(sub.Err(), limit) {
		t.Errorf("err = %v", sub.Err())
	}
}

func TestFlatMapWaitsForTimedInners(t *testing.T) {
	vs := scheduler.NewVirtual(epoch)
	src := FlatMap(Just(1, 2), func(v int) *Flux[int] {
		return Just(v*10, v*10+1).DelayElementsOn(time.Duration(v)*time.Second, vs)
	})

	var rec recorder[int]
	sub := src.Subscribe(context.Background(), rec.handlers())

	vs.AdvanceBy(2 * time.Second)
	if sub.State() != StateActive {
		t.Fatalf("state = %v before inners finished", sub.State())
	}
	vs.AdvanceBy(2 * time.Second)
	if sub.State() != StateCompleted {
		t.Fatalf("state = %v", sub.State())
	}

	got := rec.snapshot()
	slices.Sort(got)
	if !slices.Equal(got, []int{10, 11, 20, 21}) {
		t.Errorf("values = %v", got)
	}
}

func TestZipWithEmitsShorterLength(t *testing.T) {
	tests := []struct {
		name  string
		left  *Flux[int]
		right *Flux[int]
		want  []string
	}{
		{
			name:  "4x4",
			left:  Just(1, 2, 3, 4),
			right: Range(10, 4),
			want:  []string{"1-10", "2-11", "3-12", "4-13"},
		},
		{
			name:  "4x2",
			left:  Just(1, 2, 3, 4),
			right: Range(10, 2),
			want:  []string{"1-10", "2-11"},
		},
		{
			name:  "2x4",
			left:  Just(1, 2),
			right: Range(10, 4),
			want:  []string{"1-10", "2-11"},
		},
		{
			name:  "empty side",
			left:  Empty[int](),
			right: Range(10, 4),
			want:  []string{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			zipped := ZipWith(tc.left, tc.right, func(a, b int) string { return fmt.Sprintf("%d-%d", a, b) })
			if got := collect(t, zipped); !slices.Equal(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestZipTuple(t *testing.T) {
	got := collect(t, Zip(Just("a", "b"), Range(1, 5)))
	want := []Tuple2[string, int]{{"a", 1}, {"b", 2}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if s := got[0].String(); s != "[a,1]" {
		t.Errorf("String() = %q", s)
	}
}

func TestZipPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Collect(testContext(t), Zip(Just(1, 2, 3), Concat(Just(1), Error[int](boom))))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestZipWithInterval(t *testing.T) {
	vs := scheduler.NewVirtual(epoch)
	src := ZipWith(Range(1, 3), IntervalOn(time.Second, vs), func(v int, _ int64) int { return v })

	var rec recorder[int]
	sub := src.Subscribe(context.Background(), rec.handlers())
	for range 3 {
		vs.AdvanceBy(time.Second)
	}

	if err := sub.Wait(testContext(t)); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if got := rec.snapshot(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("values = %v", got)
	}
}

func TestZipTwoIntervalsOnOneClock(t *testing.T) {
	vs := scheduler.NewVirtual(epoch)
	src := ZipWith(IntervalOn(time.Second, vs), IntervalOn(3*time.Second, vs), func(a, b int64) string {
		return fmt.Sprintf("%d-%d", a, b)
	}).Take(3)

	var rec recorder[string]
	sub := src.Subscribe(context.Background(), rec.handlers())
	advance(t, vs, 3*time.Second)
	if got := rec.snapshot(); !slices.Equal(got, []string{"0-0"}) {
		t.Fatalf("values after 3s = %v", got)
	}
	advance(t, vs, 6*time.Second)

	if err := sub.Wait(testContext(t)); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if got := rec.snapshot(); !slices.Equal(got, []string{"0-0", "1-1", "2-2"}) {
		t.Errorf("values = %v", got)
	}
}

func TestZipDelayedAndIntervalOnOneClock(t *testing.T) {
	vs := scheduler.NewVirtual(epoch)
	src := ZipWith(Range(1, 3).DelayElementsOn(time.Second, vs), IntervalOn(2*time.Second, vs), func(a int, b int64) string {
		return fmt.Sprintf("%d-%d", a, b)
	})

	var rec recorder[string]
	sub := src.Subscribe(context.Background(), rec.handlers())
	advance(t, vs, 6*time.Second)

	if err := sub.Wait(testContext(t)); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if got := rec.snapshot(); !slices.Equal(got, []string{"1-0", "2-1", "3-2"}) {
		t.Errorf("values = %v", got)
	}
}

func TestZipFastSideBeyondPrefetch(t *testing.T) {
	n := 3 * ZipPrefetch
	got := collect(t, ZipWith(Range(0, n), Range(0, n), func(a, b int) int { return a - b }))

	if len(got) != n {
		t.Fatalf("len = %d, want %d", len(got), n)
	}
	for i, v := range got {
		if v != 0 {
			t.Fatalf("pair %d mismatched by %d", i, v)
		}
	}
}

func TestZipDisposeReleasesBlockedSides(t *testing.T) {
	sub := Zip(Range(0, 100), Never[int]()).Subscribe(context.Background(), Handlers[Tuple2[int, int]]{})
	sub.Dispose()

	if err := sub.Wait(testContext(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v", err)
	}
}

func TestCollectList(t *testing.T) {
	got, ok, err := CollectList(Just(3, 1, 2)).Block(testContext(t))
	if err != nil || !ok {
		t.Fatalf("Block() = %v, %v", ok, err)
	}
	if !slices.Equal(got, []int{3, 1, 2}) {
		t.Errorf("got %v", got)
	}
}

func TestCollectListEmptyEmitsOneEmptyList(t *testing.T) {
	var rec recorder[[]int]
	sub := CollectList(Empty[int]()).Subscribe(context.Background(), rec.handlers())

	lists := rec.snapshot()
	if len(lists) != 1 {
		t.Fatalf("expected exactly one list, got %d", len(lists))
	}
	if lists[0] == nil || len(lists[0]) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", lists[0])
	}
	if _, completes := rec.terminals(); completes != 1 || sub.State() != StateCompleted {
		t.Errorf("completes = %d, state = %v", completes, sub.State())
	}
}

func TestCollectListPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	var rec recorder[[]int]
	CollectList(Concat(Just(1), Error[int](boom))).Subscribe(context.Background(), rec.handlers())

	if len(rec.snapshot()) != 0 {
		t.Error("partial list must not be emitted")
	}
	if errs, _ := rec.terminals(); errs != 1 {
		t.Errorf("errors = %d", errs)
	}
}

func TestReduceCountNext(t *testing.T) {
	ctx := testContext(t)

	sum, _, err := Reduce(Range(1, 4), 0, func(acc, v int) int { return acc + v }).Block(ctx)
	if err != nil || sum != 10 {
		t.Errorf("Reduce = %d, %v", sum, err)
	}

	n, _, err := Count(Just("a", "b", "c")).Block(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v", n, err)
	}

	first, ok, err := Next(Range(7, 100)).Block(ctx)
	if err != nil || !ok || first != 7 {
		t.Errorf("Next = %d, %v, %v", first, ok, err)
	}

	_, ok, err = Next(Empty[int]()).Block(ctx)
	if err != nil || ok {
		t.Errorf("Next(empty) ok = %v, err = %v", ok, err)
	}
}

func TestBuffer(t *testing.T) {
	got := collect(t, Buffer(Range(0, 5), 2))
	want := [][]int{{0, 1}, {2, 3}, {4}}
	if !slices.EqualFunc(got, want, slices.Equal[[]int]) {
		t.Errorf("got %v, want %v", got, want)
	}

	_, err := Collect(testContext(t), Buffer(Range(0, 5), 0))
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v", err)
	}
}
