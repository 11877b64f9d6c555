package catkin

import (
	"errors"
	"testing"
)

// named is a comparable listener stand-in.
type named struct{ name string }

func TestChainSnapshotOnRemove(t *testing.T) {
	var c Chain[*named]
	a, b, d := &named{"a"}, &named{"b"}, &named{"d"}
	_ = c.Add(a)
	_ = c.Add(b)
	_ = c.Add(d)

	var got []string
	err := c.Notify(func(l *named) {
		got = append(got, l.name)
		if l == a {
			c.Remove(b)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	// b was removed mid-iteration but is still in the snapshot.
	if !equalStrings(got, []string{"a", "b", "d"}) {
		t.Errorf("first pass = %v", got)
	}

	got = nil
	_ = c.Notify(func(l *named) { got = append(got, l.name) })
	if !equalStrings(got, []string{"a", "d"}) {
		t.Errorf("second pass = %v", got)
	}
}

func TestChainSnapshotOnAdd(t *testing.T) {
	var c Chain[*named]
	a := &named{"a"}
	_ = c.Add(a)

	calls := 0
	_ = c.Notify(func(l *named) {
		calls++
		_ = c.Add(&named{"late"})
	})
	if calls != 1 {
		t.Errorf("listener added during iteration ran in the same pass (%d calls)", calls)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestChainDispatchStopsAtFirstHandler(t *testing.T) {
	var c Chain[*named]
	for _, n := range []string{"a", "b", "c"} {
		_ = c.Add(&named{n})
	}
	var got []string
	handled, err := c.Dispatch(func(l *named) bool {
		got = append(got, l.name)
		return l.name == "b"
	})
	if err != nil || !handled {
		t.Fatalf("handled=%t err=%v", handled, err)
	}
	if !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("visited = %v", got)
	}

	handled, _ = c.Dispatch(func(*named) bool { return false })
	if handled {
		t.Error("no handler should report false")
	}
}

func TestChainReentrancyLimit(t *testing.T) {
	var c Chain[*named]
	_ = c.Add(&named{"a"})

	var depths []int
	var errs []error
	var recurse func(depth int)
	recurse = func(depth int) {
		err := c.Notify(func(*named) {
			depths = append(depths, depth)
			recurse(depth + 1)
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	recurse(1)

	if len(depths) != chainBuffers {
		t.Errorf("ran at depths %v, want %d levels", depths, chainBuffers)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrReentrantIterationLimit) {
		t.Errorf("errs = %v", errs)
	}

	// Buffers are returned after the failed nesting.
	if err := c.Notify(func(*named) {}); err != nil {
		t.Errorf("chain unusable after limit: %v", err)
	}
}

func TestChainNilListener(t *testing.T) {
	var c Chain[EventListener]
	if err := c.Add(nil); !errors.Is(err, ErrNilListener) {
		t.Errorf("Add(nil) = %v", err)
	}
	var typed *GestureAdapter
	if err := c.AddAt(0, typed); !errors.Is(err, ErrNilListener) {
		t.Errorf("AddAt(typed nil) = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d", c.Len())
	}
}

func TestChainPositional(t *testing.T) {
	var c Chain[*named]
	a, b, d := &named{"a"}, &named{"b"}, &named{"d"}
	_ = c.Add(a)
	_ = c.Add(d)
	if err := c.AddAt(1, b); err != nil {
		t.Fatal(err)
	}
	if c.At(0) != a || c.At(1) != b || c.At(2) != d {
		t.Fatal("AddAt did not insert in the middle")
	}
	if err := c.AddAt(4, a); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("AddAt(4) = %v", err)
	}

	got, err := c.RemoveAt(0)
	if err != nil || got != a {
		t.Errorf("RemoveAt(0) = %v, %v", got, err)
	}
	if _, err := c.RemoveAt(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveAt(2) = %v", err)
	}
	if !c.Contains(b) || c.Contains(a) {
		t.Error("Contains mismatch")
	}
	if c.Remove(a) {
		t.Error("Remove of absent listener should report false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestChainDuplicates(t *testing.T) {
	var c Chain[*named]
	a := &named{"a"}
	_ = c.Add(a)
	_ = c.Add(a)
	calls := 0
	_ = c.Notify(func(*named) { calls++ })
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	c.Remove(a)
	if c.Len() != 1 {
		t.Errorf("Remove should drop one occurrence, Len = %d", c.Len())
	}
}

func BenchmarkChainNotify(b *testing.B) {
	var c Chain[*named]
	for range 8 {
		_ = c.Add(&named{"l"})
	}
	b.ReportAllocs()
	for b.Loop() {
		_ = c.Notify(func(*named) {})
	}
}
