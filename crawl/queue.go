package crawl

// Queue is a FIFO crawl frontier with URL deduplication. A URL is added
// at most once for the lifetime of the queue, even after it has been
// consumed.
type Queue struct {
	items   []string
	visited map[string]bool
	idx     int
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		visited: make(map[string]bool),
	}
}

// Add enqueues a URL unless it has been seen before.
func (q *Queue) Add(url string) {
	if q.visited[url] {
		return
	}
	q.visited[url] = true
	q.items = append(q.items, url)
}

// HasNext reports whether unprocessed URLs remain.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next unprocessed URL and advances the read position.
func (q *Queue) Next() string {
	url := q.items[q.idx]
	q.idx++
	return url
}

// Visited returns the number of unique URLs seen so far.
func (q *Queue) Visited() int {
	return len(q.visited)
}

// All returns every discovered URL in BFS order.
func (q *Queue) All() []string {
	return q.items
}
