package cmap

import (
	"fmt"
	"sort"
	"sync"
	"testing"
)

func TestMap_Range(t *testing.T) {
	m := New[int]()
	want := map[string]int{"alpha": 1, "beta": 2, "gamma": 3}
	for k, v := range want {
		m.Set(k, v)
	}

	got := make(map[string]int)
	m.Range(func(key string, value int) bool {
		got[key] = value
		return true
	})

	if len(got) != len(want) {
		t.Fatalf("Range visited %d pairs, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("got[%q] = %d, want %d", k, got[k], v)
		}
	}
}

func TestMap_RangeStopsEarly(t *testing.T) {
	m := New[int]()
	for i := 0; i < 64; i++ {
		m.Set(fmt.Sprintf("key-%02d", i), i)
	}

	visited := 0
	m.Range(func(string, int) bool {
		visited++
		return visited < 5
	})

	if visited != 5 {
		t.Fatalf("visited %d pairs after stopping, want 5", visited)
	}
}

func TestMap_Keys(t *testing.T) {
	m := New[int]()
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)

	keys := m.Keys()
	sort.Strings(keys)

	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}
}

func TestMap_ItemsIsACopy(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	m.Set("b", 2)

	items := m.Items()
	if len(items) != 2 || items["a"] != 1 || items["b"] != 2 {
		t.Fatalf("Items() = %v", items)
	}

	items["c"] = 3
	delete(items, "a")
	if !m.Has("a") || m.Has("c") {
		t.Fatal("mutating the Items snapshot leaked into the map")
	}
}

func TestMap_Pop(t *testing.T) {
	m := New[string]()
	m.Set("once", "value")

	got, ok := m.Pop("once")
	if !ok || got != "value" {
		t.Fatalf("Pop(once) = (%q, %v), want (\"value\", true)", got, ok)
	}
	if m.Has("once") {
		t.Fatal("key survived Pop")
	}
	if _, ok := m.Pop("once"); ok {
		t.Fatal("second Pop reported a hit")
	}
}

func TestMap_Stats(t *testing.T) {
	m := NewWithShards[int](4)
	const n = 200
	for i := 0; i < n; i++ {
		m.Set(fmt.Sprintf("key-%03d", i), i)
	}

	stats := m.Stats()
	if len(stats) != 4 {
		t.Fatalf("Stats() returned %d shards, want 4", len(stats))
	}

	total := 0
	for i, s := range stats {
		if s.Index != i {
			t.Errorf("stats[%d].Index = %d", i, s.Index)
		}
		total += s.Count
	}
	if total != n {
		t.Fatalf("shard counts sum to %d, want %d", total, n)
	}
}

func TestMap_RangeDuringWrites(t *testing.T) {
	m := New[int]()
	for i := 0; i < 500; i++ {
		m.Set(fmt.Sprintf("seed-%03d", i), i)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				m.Set(fmt.Sprintf("hot-%03d", i%100), i)
			}
		}
	}()

	// Seeded keys are never deleted, so every pass must see all of them.
	for i := 0; i < 50; i++ {
		seen := 0
		m.Range(func(key string, _ int) bool {
			seen++
			return true
		})
		if seen < 500 {
			t.Fatalf("Range saw %d pairs, want at least 500", seen)
		}
	}

	close(stop)
	wg.Wait()
}
