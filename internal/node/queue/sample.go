// Package queue содержит очереди узла: ограниченную очередь семплов
// и FIFO очередь ответов удаленной стороны.
package queue

import (
	"sync"

	"github.com/iudanet/fieldlink/internal/models"
)

// SampleQueue ограниченная очередь семплов в памяти.
// Порядок вставки сохраняется; при превышении лимита отбрасываются самые старые.
// Потребление идет с нового конца: свежесть важнее полноты.
//
// Инвариант len <= limit поддерживается под одной блокировкой при каждой
// мутации, поэтому он наблюдаем в любой момент любым читателем.
type SampleQueue struct {
	items []*models.Sample
	limit int
	mu    sync.Mutex
}

// NewSampleQueue создает очередь с лимитом limit (минимум 1)
func NewSampleQueue(limit int) *SampleQueue {
	if limit < 1 {
		limit = 1
	}
	return &SampleQueue{
		items: make([]*models.Sample, 0, limit+1),
		limit: limit,
	}
}

// Append добавляет семпл в конец и возвращает число вытесненных старых семплов
func (q *SampleQueue) Append(s *models.Sample) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, s)
	return q.evictLocked()
}

// PopNewest сначала вытесняет старые семплы до лимита, затем извлекает самый новый.
// Возвращает семпл (nil, если очередь пуста) и число вытесненных.
func (q *SampleQueue) PopNewest() (*models.Sample, int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	evicted := q.evictLocked()

	n := len(q.items)
	if n == 0 {
		return nil, evicted
	}

	s := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]

	return s, evicted
}

// evictLocked отбрасывает самые старые записи, пока длина больше лимита
func (q *SampleQueue) evictLocked() int {
	excess := len(q.items) - q.limit
	if excess <= 0 {
		return 0
	}

	clear(q.items[:excess])
	q.items = append(q.items[:0], q.items[excess:]...)

	return excess
}

// Clear удаляет все семплы и возвращает их количество
func (q *SampleQueue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items)
	clear(q.items)
	q.items = q.items[:0]

	return n
}

// Len возвращает текущую длину очереди
func (q *SampleQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Limit возвращает лимит очереди
func (q *SampleQueue) Limit() int {
	return q.limit
}

// Snapshot возвращает копию содержимого в порядке поступления (старые первыми)
func (q *SampleQueue) Snapshot() []*models.Sample {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*models.Sample, len(q.items))
	copy(out, q.items)
	return out
}
