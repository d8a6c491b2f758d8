package queue

import (
	"sync"

	"github.com/iudanet/fieldlink/internal/models"
)

// ResponseQueue FIFO очередь результатов передач, ожидающих разрешения.
// Pop извлекает запись ровно один раз.
type ResponseQueue struct {
	items []models.ResponseEntry
	mu    sync.Mutex
}

// NewResponseQueue создает пустую очередь ответов
func NewResponseQueue() *ResponseQueue {
	return &ResponseQueue{}
}

// Push добавляет запись в конец очереди
func (q *ResponseQueue) Push(e models.ResponseEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, e)
}

// Pop извлекает самую старую запись
func (q *ResponseQueue) Pop() (models.ResponseEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return models.ResponseEntry{}, false
	}

	e := q.items[0]
	q.items[0] = models.ResponseEntry{}
	q.items = q.items[1:]

	return e, true
}

// Len возвращает количество неразрешенных записей
func (q *ResponseQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
