package display

import (
	"sync"
)

// DefaultBuffer размер буфера подписчика по умолчанию
const DefaultBuffer = 16

// Bus внутрипроцессная шина событий.
// Медленный подписчик теряет события, публикатор не блокируется.
type Bus struct {
	subs    map[int]chan Event
	nextID  int
	dropped uint64
	closed  bool
	mu      sync.Mutex
}

// NewBus создает шину
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe регистрирует подписчика. Возвращает канал событий и функцию отписки.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Publish рассылает событие всем подписчикам без блокировки
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.dropped++
		}
	}
}

// Dropped возвращает число событий, не доставленных медленным подписчикам
func (b *Bus) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close закрывает все каналы подписчиков
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
