package cmap

// Range calls fn for each key-value pair until fn returns false.
//
// Shards are visited one at a time under their read locks, so the
// traversal is not a point-in-time snapshot of the whole map.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Keys returns the keys of all pairs present when their shard was
// visited.
func (m *Map[V]) Keys() []string {
	out := make([]string, 0, m.Count())
	m.Range(func(key string, _ V) bool {
		out = append(out, key)
		return true
	})
	return out
}

// Items returns a copy of the map contents as a plain map.
func (m *Map[V]) Items() map[string]V {
	out := make(map[string]V, m.Count())
	m.Range(func(key string, value V) bool {
		out[key] = value
		return true
	})
	return out
}

// Pop removes key and returns the value it held, or the zero value
// and false when the key was absent.
func (m *Map[V]) Pop(key string) (V, bool) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return v, ok
}

// ShardCount returns the number of shards.
func (m *Map[V]) ShardCount() int {
	return len(m.shards)
}

// ShardStats describes the occupancy of a single shard.
type ShardStats struct {
	Index int
	Count int
}

// Stats reports per-shard occupancy, useful for checking how evenly
// keys hash across shards.
func (m *Map[V]) Stats() []ShardStats {
	out := make([]ShardStats, len(m.shards))
	for i, s := range m.shards {
		s.mu.RLock()
		out[i] = ShardStats{Index: i, Count: len(s.items)}
		s.mu.RUnlock()
	}
	return out
}
