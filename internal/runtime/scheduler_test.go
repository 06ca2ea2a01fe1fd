package runtime

import (
	"reflect"
	"testing"
)

func TestPathSetDedup(t *testing.T) {
	set := NewPathSet("/a.js", "/b.js", "/a.js")
	if set.Len() != 2 {
		t.Errorf("Len: got %d, want 2", set.Len())
	}
	if !set.Contains("/a.js") || set.Contains("/c.js") {
		t.Error("membership wrong")
	}
	if got := set.Paths(); !reflect.DeepEqual(got, []string{"/a.js", "/b.js"}) {
		t.Errorf("insertion order lost: %v", got)
	}
}

func TestScheduleDepthFirst(t *testing.T) {
	set := NewPathSet(
		"/src/a.js",
		"/src/deep/nested/leaf.js",
		"/src/deep/mid.js",
		"/src/b.js",
	)
	batches := Schedule(set, 1, 8)
	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	want := []string{
		"/src/deep/nested/leaf.js",
		"/src/deep/mid.js",
		"/src/a.js",
		"/src/b.js",
	}
	if !reflect.DeepEqual(batches[0], want) {
		t.Errorf("order: got %v, want %v", batches[0], want)
	}
}

func TestScheduleIdempotent(t *testing.T) {
	set := NewPathSet("/x/a.js", "/y/z/b.js", "/c.js", "/y/d.js")
	first := Schedule(set, 2, 1)
	second := Schedule(set, 2, 1)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("scheduling not deterministic: %v vs %v", first, second)
	}
}

func TestScheduleBatchSizing(t *testing.T) {
	set := NewPathSet("/a.js", "/b.js", "/c.js", "/d.js", "/e.js")
	batches := Schedule(set, 2, 1)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if len(batches[0]) != 2 || len(batches[1]) != 2 || len(batches[2]) != 1 {
		t.Errorf("batch sizes: %d, %d, %d", len(batches[0]), len(batches[1]), len(batches[2]))
	}
}

func TestScheduleSmallSet(t *testing.T) {
	set := NewPathSet("/a.js")
	batches := Schedule(set, 8, 4)
	if len(batches) != 1 || len(batches[0]) != 1 {
		t.Errorf("single path should yield one batch: %v", batches)
	}
}

func TestScheduleEmpty(t *testing.T) {
	if batches := Schedule(NewPathSet(), 4, 4); len(batches) != 0 {
		t.Errorf("empty set should yield zero batches, got %v", batches)
	}
	if batches := Schedule(nil, 4, 4); len(batches) != 0 {
		t.Errorf("nil set should yield zero batches, got %v", batches)
	}
}
