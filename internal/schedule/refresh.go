package schedule

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshInterval период пересчёта экрана расписания
const DefaultRefreshInterval = time.Minute

// Clock источник текущего времени. В тестах подменяется.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker минимальный интерфейс над time.Ticker
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock реальные часы
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.t.Stop() }

// EvaluateFunc вызывается на каждом тике и при изменении данных
type EvaluateFunc func(ctx context.Context, now time.Time)

// Refresher перезапускает оценку расписания с фиксированным периодом
// и по сигналу Notify. Таймер захватывается в Start и освобождается
// при Stop или отмене контекста.
type Refresher struct {
	interval time.Duration
	clock    Clock
	evaluate EvaluateFunc

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
	notify  chan struct{}
}

// NewRefresher создаёт драйвер. interval <= 0 заменяется на DefaultRefreshInterval,
// nil clock на SystemClock.
func NewRefresher(interval time.Duration, clock Clock, evaluate EvaluateFunc) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Refresher{
		interval: interval,
		clock:    clock,
		evaluate: evaluate,
		notify:   make(chan struct{}, 1),
	}
}

// Start сразу выполняет оценку и запускает цикл. Повторный вызов ничего не делает.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	stop, done := r.stop, r.done
	r.mu.Unlock()

	ticker := r.clock.NewTicker(r.interval)
	started := false
	// паника в первой оценке не должна оставить таймер и флаг running
	defer func() {
		if started {
			return
		}
		ticker.Stop()
		r.mu.Lock()
		if r.done == done {
			r.running = false
		}
		r.mu.Unlock()
		close(done)
	}()

	r.evaluate(ctx, r.clock.Now())

	go r.loop(ctx, ticker, stop, done)
	started = true
}

func (r *Refresher) loop(ctx context.Context, ticker Ticker, stop, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	defer func() {
		r.mu.Lock()
		// Stop+Start мог уже запустить новый цикл
		if r.done == done {
			r.running = false
		}
		r.mu.Unlock()
	}()

	for {
		select {
		case <-ticker.C():
			r.evaluate(ctx, r.clock.Now())
		case <-r.notify:
			r.evaluate(ctx, r.clock.Now())
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Notify просит пересчитать расписание вне очереди. Не блокирует:
// несколько сигналов до обработки схлопываются в один.
func (r *Refresher) Notify() {
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Stop останавливает цикл и ждёт его завершения
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	stop, done := r.stop, r.done
	r.running = false
	r.mu.Unlock()

	close(stop)
	<-done
}

// Running true пока цикл активен
func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
