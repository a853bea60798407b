package planner

import (
	"sync"
	"time"
)

const DefaultDebounceDelay = 300 * time.Millisecond

// Debouncer превращает поток нажатий в стабильный поисковый запрос.
// Каждое новое значение отменяет предыдущий таймер — закоммитить может
// только таймер последнего нажатия. Пустое значение коммитится сразу,
// без задержки, чтобы не мигали устаревшие результаты.
type Debouncer struct {
	mu         sync.Mutex
	delay      time.Duration
	timer      *time.Timer
	raw        string
	committed  string
	debouncing bool
	onCommit   func(term string)
}

// NewDebouncer создает дебаунсер; onCommit вызывается при каждой смене
// закоммиченного значения (в том числе на пустое) — сюда вешается сброс
// страницы поиска.
func NewDebouncer(delay time.Duration, onCommit func(term string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{
		delay:    delay,
		onCommit: onCommit,
	}
}

// Input принимает сырое значение на каждое нажатие
func (d *Debouncer) Input(raw string) {
	d.mu.Lock()
	d.raw = raw
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if raw == "" {
		d.debouncing = false
		notify := d.committed != ""
		d.committed = ""
		d.mu.Unlock()
		if notify && d.onCommit != nil {
			d.onCommit("")
		}
		return
	}

	d.debouncing = true
	d.timer = time.AfterFunc(d.delay, func() { d.commit(raw) })
	d.mu.Unlock()
}

func (d *Debouncer) commit(raw string) {
	d.mu.Lock()
	if d.raw != raw { // таймер устарел, его обогнало новое нажатие
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.debouncing = false
	notify := d.committed != raw
	d.committed = raw
	d.mu.Unlock()

	if notify && d.onCommit != nil {
		d.onCommit(raw)
	}
}

// Term возвращает закоммиченный поисковый запрос
func (d *Debouncer) Term() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.committed
}

// Debouncing сообщает, ждет ли дебаунсер истечения таймера
func (d *Debouncer) Debouncing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.debouncing
}

// Stop отменяет незакоммиченный таймер, ничего не коммитя
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.debouncing = false
}
