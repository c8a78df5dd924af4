package ledger

import (
	"fmt"
	"sync"
)

// Recorder связывает Ledger и Store: сначала добавление в память, затем запись на диск.
// Записи, которые не удалось сохранить, остаются в очереди и дописываются
// в том же порядке при следующем Record, так что файл догоняет таблицу.
type Recorder struct {
	mu      sync.Mutex
	ledger  *Ledger
	store   Store
	pending []Record // в памяти, но ещё не в файле
}

// NewRecorder создаёт Recorder. store может быть nil (только память).
func NewRecorder(l *Ledger, store Store) *Recorder {
	if l == nil {
		l = New()
	}
	return &Recorder{ledger: l, store: store}
}

// Ledger возвращает таблицу текущей сессии.
func (r *Recorder) Ledger() *Ledger {
	return r.ledger
}

// SetStore меняет хранилище для следующих записей. Таблица сессии сохраняется.
func (r *Recorder) SetStore(store Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = store
}

// Record добавляет запись и сохраняет её вместе с ранее не сохранёнными.
// Запись остаётся в памяти, даже если сохранение не удалось.
func (r *Recorder) Record(name, country string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := NewRecord(name, country)
	r.ledger.Append(rec)

	if r.store == nil {
		return rec, nil
	}
	r.pending = append(r.pending, rec)
	if err := r.flush(); err != nil {
		return rec, fmt.Errorf("запись сохранена только в памяти: %w", err)
	}
	return rec, nil
}

// Pending возвращает число записей, ещё не попавших в файл.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// flush сохраняет очередь по порядку и останавливается на первой ошибке.
func (r *Recorder) flush() error {
	for len(r.pending) > 0 {
		if err := r.store.Persist(r.pending[0]); err != nil {
			return err
		}
		r.pending = r.pending[1:]
	}
	r.pending = nil
	return nil
}
