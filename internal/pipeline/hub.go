package pipeline

import (
	"context"
	"errors"
	"sync"
)

var ErrHubStopped = errors.New("ledger hub stopped")

type feedEntry struct {
	feed   *Feed
	cancel context.CancelFunc
	refs   int
}

// Hub запускает фиды по требованию и останавливает их, когда уходит последний подписчик
type Hub struct {
	ctx    context.Context
	source SnapshotSource
	opts   Options

	mu    sync.Mutex
	feeds map[uint]*feedEntry
	wg    sync.WaitGroup
}

// NewHub создает хаб; все фиды живут не дольше ctx
func NewHub(ctx context.Context, source SnapshotSource, opts Options) *Hub {
	return &Hub{
		ctx:    ctx,
		source: source,
		opts:   opts.withDefaults(),
		feeds:  make(map[uint]*feedEntry),
	}
}

// Notify передает уведомление об изменении отметок работающему фиду.
// Если фида нет, делать нечего: следующий подписчик прочитает свежий снимок.
func (h *Hub) Notify(personID uint) {
	h.mu.Lock()
	entry, ok := h.feeds[personID]
	h.mu.Unlock()

	if ok {
		entry.feed.Notify()
	}
}

// Subscribe подписывает на обновления сотрудника, при необходимости запуская фид
func (h *Hub) Subscribe(personID uint) (<-chan Update, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ctx.Err() != nil {
		return nil, nil, ErrHubStopped
	}

	entry, ok := h.feeds[personID]
	if !ok {
		entry = h.startFeedLocked(personID)
	}
	entry.refs++

	ch, unsubscribe := entry.feed.Subscribe()

	var once sync.Once
	release := func() {
		once.Do(func() {
			unsubscribe()
			h.release(personID, entry)
		})
	}
	return ch, release, nil
}

func (h *Hub) startFeedLocked(personID uint) *feedEntry {
	ctx, cancel := context.WithCancel(h.ctx)
	entry := &feedEntry{
		feed:   NewFeed(personID, h.source, h.opts),
		cancel: cancel,
	}
	h.feeds[personID] = entry

	h.opts.Recorder.RecordFeedStarted()
	h.opts.Logger.WithField("person_id", personID).Debug("Ledger feed started")

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.opts.Recorder.RecordFeedStopped()
		_ = entry.feed.Run(ctx)
		h.opts.Logger.WithField("person_id", personID).Debug("Ledger feed stopped")
	}()

	return entry
}

func (h *Hub) release(personID uint, entry *feedEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry.refs--
	if entry.refs > 0 {
		return
	}

	if current, ok := h.feeds[personID]; ok && current == entry {
		delete(h.feeds, personID)
	}
	entry.cancel()
}

// Active число работающих фидов
func (h *Hub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.feeds)
}

// Wait ждет остановки всех фидов (после отмены ctx хаба)
func (h *Hub) Wait() {
	h.wg.Wait()
}
