// Package ledger хранит извлечённые записи сессии и дублирует их в CSV.
package ledger

import (
	"strings"
	"sync"

	"voiceroll/internal/extract"
)

// Record - имя и страна одного говорящего.
type Record struct {
	Name    string
	Country string
}

// NewRecord создаёт запись; пустые поля заменяются на Unknown.
func NewRecord(name, country string) Record {
	name = strings.TrimSpace(name)
	country = strings.TrimSpace(country)
	if name == "" {
		name = extract.Unknown
	}
	if country == "" {
		country = extract.Unknown
	}
	return Record{Name: name, Country: country}
}

// Ledger - упорядоченный список записей текущей сессии, только добавление.
type Ledger struct {
	mu      sync.RWMutex
	records []Record
}

// New создаёт пустой Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append добавляет запись в конец и возвращает новую длину.
func (l *Ledger) Append(r Record) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
	return len(l.records)
}

// Records возвращает копию записей в порядке добавления.
func (l *Ledger) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len возвращает количество записей.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
