package ranker

import (
	"container/heap"

	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/catalog"
)

type candidate struct {
	pos     int
	content catalog.Content
	score   float64
}

// better reports whether a ranks ahead of b: higher score first, then
// earlier load position.
func better(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.pos < b.pos
}

// topK keeps the k best candidates seen so far in a min-heap whose root is
// the worst of them.
type topK struct {
	k int
	h candidateHeap
}

func newTopK(k int) *topK {
	return &topK{k: k}
}

func (t *topK) offer(c candidate) {
	if t.h.Len() < t.k {
		heap.Push(&t.h, c)
		return
	}
	if better(c, t.h[0]) {
		t.h[0] = c
		heap.Fix(&t.h, 0)
	}
}

// sorted drains the heap, best first.
func (t *topK) sorted() []Scored {
	result := make([]Scored, t.h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		c := heap.Pop(&t.h).(candidate)
		result[i] = Scored{Content: c.content.Clone(), Score: c.score}
	}
	return result
}

type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool { return better(h[j], h[i]) }

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x interface{}) {
	*h = append(*h, x.(candidate))
}

func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
