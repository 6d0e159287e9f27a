package routing

import "github.com/jburns/trailnet/pkg/graph"

// pqItem is a priority queue entry: a vertex at a tentative distance, tagged
// with the sequence number it was pushed at so that equal-distance ties
// break in push order (the documented Dijkstra tie-break rule).
type pqItem struct {
	v    graph.Vertex
	dist float64
	seq  int
}

// minHeap is a concrete-typed min-heap for the Dijkstra priority queue,
// avoiding interface boxing of container/heap.
type minHeap struct {
	items []pqItem
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) Push(v graph.Vertex, dist float64, seq int) {
	h.items = append(h.items, pqItem{v: v, dist: dist, seq: seq})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) Pop() pqItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func less(a, b pqItem) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.seq < b.seq
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(h.items[i], h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && less(h.items[left], h.items[smallest]) {
			smallest = left
		}
		if right < n && less(h.items[right], h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
