package engine

import (
	"container/heap"
)

// TimedKind - что запланировано.
type TimedKind uint8

const (
	TimedGlobuleBatch TimedKind = iota // начало волны сфер, планирует следующую
	TimedGlobuleSpawn                  // одна сфера
)

// TimedItem обертка для элемента очереди приоритетов
type TimedItem struct {
	Kind  TimedKind
	AtMs  float64 // Приоритет. Чем меньше, тем раньше срабатывает.
	Seq   int     // Порядок постановки, для стабильности при равном AtMs
	Index int     // Индекс в куче (нужен для update)
}

// TimedQueue реализует heap.Interface и хранит TimedItems
type TimedQueue []*TimedItem

func (pq TimedQueue) Len() int { return len(pq) }

func (pq TimedQueue) Less(i, j int) bool {
	// MinHeap по времени, при равенстве - кто раньше поставлен
	if pq[i].AtMs == pq[j].AtMs {
		return pq[i].Seq < pq[j].Seq
	}
	return pq[i].AtMs < pq[j].AtMs
}

func (pq TimedQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *TimedQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*TimedItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *TimedQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// Scheduler - отложенные события энкаунтера на симуляционном времени.
type Scheduler struct {
	queue TimedQueue
	seq   int
}

func NewScheduler() *Scheduler {
	s := &Scheduler{queue: make(TimedQueue, 0)}
	heap.Init(&s.queue)
	return s
}

func (s *Scheduler) Schedule(kind TimedKind, atMs float64) {
	s.seq++
	heap.Push(&s.queue, &TimedItem{Kind: kind, AtMs: atMs, Seq: s.seq})
}

// PopDue снимает следующее событие, если его время наступило.
func (s *Scheduler) PopDue(nowMs float64) (*TimedItem, bool) {
	if s.queue.Len() == 0 || s.queue[0].AtMs > nowMs {
		return nil, false
	}
	return heap.Pop(&s.queue).(*TimedItem), true
}

// NextAt - время ближайшего события.
func (s *Scheduler) NextAt() (float64, bool) {
	if s.queue.Len() == 0 {
		return 0, false
	}
	return s.queue[0].AtMs, true
}

func (s *Scheduler) Len() int {
	return s.queue.Len()
}
