package mrtopo

import (
	"container/heap"
	"fmt"
	"math"
	"sync"
)

// PathRecord is result of single shortest path query: ordered node sequence
// and total length in meters. Unreachable pair is not an error: it is
// recorded as empty sequence with infinite length
type PathRecord struct {
	Path         []NodeID
	LengthMeters float64
}

// Reachable reports whether path endpoints are connected
func (record PathRecord) Reachable() bool {
	return !math.IsInf(record.LengthMeters, 1)
}

type nodePair struct {
	from NodeID
	to   NodeID
}

// PathCache memoizes shortest path queries by ordered node pair. Scoped per
// run and passed explicitly; safe for concurrent population by workers
type PathCache struct {
	mu      sync.RWMutex
	records map[nodePair]PathRecord
}

// NewPathCache returns empty path cache
func NewPathCache() *PathCache {
	return &PathCache{
		records: make(map[nodePair]PathRecord),
	}
}

func (cache *PathCache) get(from, to NodeID) (PathRecord, bool) {
	cache.mu.RLock()
	record, ok := cache.records[nodePair{from, to}]
	cache.mu.RUnlock()
	return record, ok
}

func (cache *PathCache) put(from, to NodeID, record PathRecord) {
	cache.mu.Lock()
	cache.records[nodePair{from, to}] = record
	cache.mu.Unlock()
}

// Len returns number of memoized queries
func (cache *PathCache) Len() int {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	return len(cache.records)
}

// PathEngine computes shortest paths over a frozen road graph weighted by
// edge length. Queries are pure and independent, so any number of workers
// may call Path concurrently
type PathEngine struct {
	graph *RoadGraph
	cache *PathCache
}

// NewPathEngine creates path engine over given graph. Graph must be frozen:
// queries must never run concurrently with node insertion
func NewPathEngine(graph *RoadGraph, cache *PathCache) (*PathEngine, error) {
	if !graph.Frozen() {
		return nil, fmt.Errorf("Graph is not frozen yet")
	}
	if cache == nil {
		cache = NewPathCache()
	}
	return &PathEngine{
		graph: graph,
		cache: cache,
	}, nil
}

// Path returns shortest path between two nodes and its length in meters.
// Results are memoized by ordered node pair
func (engine *PathEngine) Path(from, to NodeID) PathRecord {
	if record, ok := engine.cache.get(from, to); ok {
		return record
	}
	record := dijkstra(engine.graph, from, to)
	engine.cache.put(from, to, record)
	return record
}

type pqItem struct {
	node NodeID
	dist float64
}

type pathQueue []pqItem

func (pq pathQueue) Len() int            { return len(pq) }
func (pq pathQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq pathQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *pathQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *pathQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

var unreachable = PathRecord{Path: []NodeID{}, LengthMeters: math.Inf(1)}

// dijkstra is a standard single-source shortest path with early exit on
// target node
func dijkstra(graph *RoadGraph, from, to NodeID) PathRecord {
	if _, ok := graph.Node(from); !ok {
		return unreachable
	}
	if _, ok := graph.Node(to); !ok {
		return unreachable
	}
	if from == to {
		return PathRecord{Path: []NodeID{from}, LengthMeters: 0}
	}

	dist := map[NodeID]float64{from: 0}
	prev := make(map[NodeID]NodeID)
	done := make(map[NodeID]struct{})

	queue := &pathQueue{{node: from, dist: 0}}
	heap.Init(queue)

	for queue.Len() > 0 {
		current := heap.Pop(queue).(pqItem)
		if _, ok := done[current.node]; ok {
			continue
		}
		done[current.node] = struct{}{}
		if current.node == to {
			break
		}
		graph.forAdjacent(current.node, func(next NodeID, lengthMeters float64) {
			candidate := current.dist + lengthMeters
			if known, ok := dist[next]; !ok || candidate < known {
				dist[next] = candidate
				prev[next] = current.node
				heap.Push(queue, pqItem{node: next, dist: candidate})
			}
		})
	}

	total, ok := dist[to]
	if !ok {
		return unreachable
	}
	if _, ok := done[to]; !ok {
		return unreachable
	}

	path := []NodeID{to}
	for current := to; current != from; {
		current = prev[current]
		path = append(path, current)
	}
	// Reverse into from -> to order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return PathRecord{Path: path, LengthMeters: total}
}
