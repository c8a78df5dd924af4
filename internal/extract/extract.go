// Package extract извлекает имя и страну из распознанной фразы.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Unknown - значение поля, если ни одно правило не сработало.
const Unknown = "Unknown"

// Language язык распознавания.
type Language string

const (
	English Language = "English"
	Chinese Language = "Chinese"
)

// tokenPattern - одно слово: буквы, цифры, подчёркивание (как \w в Unicode).
const tokenPattern = `([\p{L}\p{N}_]+)`

// В RE2 \s и \b видят только ASCII, поэтому пробел и граница слова
// заданы через классы Unicode. Граница съедает один символ перед триггером,
// группа 1 по-прежнему слово после триггера.
const (
	spacePattern    = `[\s\p{Z}]`
	boundaryPattern = `(?:^|[^\p{L}\p{N}_])`
)

// Rule описывает набор фраз-триггеров, после которых идёт искомое слово.
type Rule struct {
	// Triggers - фразы в порядке приоритета.
	Triggers []string
	// WordBoundary - триггер должен начинаться на границе слова.
	WordBoundary bool
	// RequireSpace - между триггером и словом обязателен пробел.
	RequireSpace bool
	// LooseTriggers - допускает пробелы между символами триггера
	// (китайские модели Vosk выдают слова через пробел).
	LooseTriggers bool
}

// Table - правила для одного языка.
type Table struct {
	Name       Rule
	Country    Rule
	IgnoreCase bool
}

// Extractor применяет скомпилированную таблицу правил.
type Extractor struct {
	name    *regexp.Regexp
	country *regexp.Regexp
}

// Compile собирает Extractor из таблицы.
func Compile(t Table) (*Extractor, error) {
	name, err := compileRule(t.Name, t.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("правило имени: %w", err)
	}
	country, err := compileRule(t.Country, t.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("правило страны: %w", err)
	}
	return &Extractor{name: name, country: country}, nil
}

// compileRule строит одно регулярное выражение из альтернатив.
// RE2 ищет самое левое совпадение, а на одной позиции выбирает
// альтернативу, объявленную раньше.
func compileRule(r Rule, ignoreCase bool) (*regexp.Regexp, error) {
	if len(r.Triggers) == 0 {
		return nil, fmt.Errorf("нет триггеров")
	}

	alts := make([]string, 0, len(r.Triggers))
	for _, trig := range r.Triggers {
		alts = append(alts, triggerPattern(trig, r.LooseTriggers))
	}

	var b strings.Builder
	if ignoreCase {
		b.WriteString("(?i)")
	}
	if r.WordBoundary {
		b.WriteString(boundaryPattern)
	}
	b.WriteString("(?:")
	b.WriteString(strings.Join(alts, "|"))
	b.WriteString(")")
	b.WriteString(spacePattern)
	if r.RequireSpace {
		b.WriteString("+")
	} else {
		b.WriteString("*")
	}
	b.WriteString(tokenPattern)

	return regexp.Compile(b.String())
}

func triggerPattern(trig string, loose bool) string {
	if !loose {
		return regexp.QuoteMeta(trig)
	}
	runes := []rune(trig)
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = regexp.QuoteMeta(string(r))
	}
	return strings.Join(parts, spacePattern+"*")
}

// Extract возвращает имя и страну. Поиски независимы друг от друга.
func (e *Extractor) Extract(text string) (name, country string) {
	return find(e.name, text), find(e.country, text)
}

func find(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil || m[1] == "" {
		return Unknown
	}
	return m[1]
}
