package network

import (
	"sync"
	"time"

	"amber-server/pkg/api"
)

const finalSendTimeout = time.Second

// Broadcaster занимается только рассылкой снимков подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SessionID -> Личный канал
	subscribers map[string]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
	}
}

// Register создает личный канал сессии (UI-клиента или бота)
func (b *Broadcaster) Register(sessionID string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[sessionID]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, 100)
	b.subscribers[sessionID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[sessionID]; ok {
		close(ch)
		delete(b.subscribers, sessionID)
	}
}

// Release удаляет подписчика, только если канал всё ещё его.
// Переподключение с тем же ID уже заменило канал, и старый клиент не должен трогать новый.
func (b *Broadcaster) Release(sessionID string, ch chan api.ServerResponse) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.subscribers[sessionID]
	if !ok || cur != ch {
		return false
	}
	close(cur)
	delete(b.subscribers, sessionID)
	return true
}

// SendTo отправляет снимок конкретной сессии. Медленный клиент теряет кадры, а не тормозит тик.
// Терминальный снимок (END) ждёт места в канале не дольше finalSendTimeout.
func (b *Broadcaster) SendTo(sessionID string, msg api.ServerResponse) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[sessionID]
	if !ok {
		return false
	}
	if msg.Result != nil {
		select {
		case ch <- msg:
			return true
		case <-time.After(finalSendTimeout):
			return false
		}
	}
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

// Broadcast отправляет всем (зрители debug-панели)
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// HasSubscriber проверяет, смотрит ли кто-то на сессию
func (b *Broadcaster) HasSubscriber(sessionID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[sessionID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
