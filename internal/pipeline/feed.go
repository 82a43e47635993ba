// Package pipeline держит актуальный баланс сотрудника: получает уведомления об
// изменениях, перечитывает полный снимок отметок, пересчитывает и рассылает подписчикам.
package pipeline

import (
	"context"
	"sync"
	"time"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Snapshot полный набор отметок сотрудника и его роль на момент чтения
type Snapshot struct {
	Events []ledger.Event
	Role   ledger.Role
}

// SnapshotSource источник полных снимков. Частичные обновления не допускаются.
type SnapshotSource interface {
	Snapshot(ctx context.Context, personID uint) (Snapshot, error)
}

// Update опубликованный результат пересчета
type Update struct {
	PersonID   uint
	Ledger     ledger.Ledger
	Target     time.Duration // дневная норма по роли из того же снимка
	ComputedAt time.Time
	Seq        uint64
}

// Options общие параметры фидов
type Options struct {
	Tick     time.Duration
	Now      func() time.Time
	Location *time.Location
	Recorder metrics.Recorder
	Logger   *logrus.Logger
}

func (o Options) withDefaults() Options {
	if o.Tick <= 0 {
		o.Tick = time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Recorder == nil {
		o.Recorder = metrics.Nop{}
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
	return o
}

// Feed единственный владелец последнего снимка и результата для одного сотрудника.
// Снимок и результат меняет только горутина Run.
type Feed struct {
	personID uint
	source   SnapshotSource
	opts     Options

	notify chan struct{}

	// принадлежит горутине Run
	snapshot *Snapshot

	mu      sync.Mutex
	latest  *Update
	subs    map[uint64]chan Update
	nextSub uint64
	seq     uint64
	closed  bool
}

// NewFeed создает фид. Пересчеты начинаются после вызова Run.
func NewFeed(personID uint, source SnapshotSource, opts Options) *Feed {
	return &Feed{
		personID: personID,
		source:   source,
		opts:     opts.withDefaults(),
		notify:   make(chan struct{}, 1),
		subs:     make(map[uint64]chan Update),
	}
}

// Notify сообщает, что набор отметок изменился. Несколько уведомлений подряд схлопываются.
func (f *Feed) Notify() {
	select {
	case f.notify <- struct{}{}:
	default:
	}
}

// Run читает первый снимок и дальше пересчитывает на каждое уведомление и каждый тик.
// На тике снимок не перечитывается: меняется только текущий момент.
func (f *Feed) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.opts.Tick)
	defer ticker.Stop()
	defer f.closeSubscribers()

	f.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.notify:
			f.refresh(ctx)
		case <-ticker.C:
			f.recompute()
		}
	}
}

func (f *Feed) refresh(ctx context.Context) {
	snapshot, err := f.source.Snapshot(ctx, f.personID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		f.opts.Recorder.RecordSnapshotFailure()
		f.opts.Logger.WithError(err).WithField("person_id", f.personID).
			Error("Failed to read event snapshot, keeping last published ledger")
		return
	}

	f.snapshot = &snapshot
	f.recompute()
}

func (f *Feed) recompute() {
	if f.snapshot == nil {
		return
	}

	started := time.Now()
	now := f.opts.Now().In(f.opts.Location)
	result := ledger.ComputeDailySummaries(f.snapshot.Events, f.snapshot.Role, now)
	f.opts.Recorder.RecordRecompute(time.Since(started))

	f.publish(result, ledger.TargetDuration(f.snapshot.Role), now)
}

func (f *Feed) publish(result ledger.Ledger, target time.Duration, now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	update := Update{
		PersonID:   f.personID,
		Ledger:     result,
		Target:     target,
		ComputedAt: now,
		Seq:        f.seq,
	}
	f.latest = &update

	for _, ch := range f.subs {
		offer(ch, update)
	}
}

// offer кладет обновление в буфер подписчика; непрочитанное старое вытесняется
func offer(ch chan Update, update Update) {
	select {
	case ch <- update:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}
	ch <- update
}

// Latest последний опубликованный результат
func (f *Feed) Latest() (Update, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.latest == nil {
		return Update{}, false
	}
	return *f.latest, true
}

// Subscribe возвращает канал обновлений и функцию отписки. Если результат уже есть,
// он сразу лежит в канале. Канал закрывается при отписке или остановке фида.
func (f *Feed) Subscribe() (<-chan Update, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Update, 1)
	if f.closed {
		close(ch)
		return ch, func() {}
	}

	id := f.nextSub
	f.nextSub++
	f.subs[id] = ch

	if f.latest != nil {
		ch <- *f.latest
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if sub, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(sub)
			}
		})
	}
}

// Subscribers число активных подписчиков
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed) closeSubscribers() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
