package extract

import (
	"fmt"
	"sync"
)

// EnglishTable - правила для английских фраз.
var EnglishTable = Table{
	Name: Rule{
		Triggers:     []string{"my name is", "i am", "people know me as", "call me", "they call me"},
		WordBoundary: true,
		RequireSpace: true,
	},
	Country: Rule{
		Triggers:     []string{"i come from", "i belong to", "i am from", "from"},
		WordBoundary: true,
		RequireSpace: true,
	},
	IgnoreCase: true,
}

// ChineseTable - правила для китайских фраз.
var ChineseTable = Table{
	Name: Rule{
		Triggers:      []string{"名字是", "我叫", "大家叫我", "我名叫"},
		LooseTriggers: true,
	},
	Country: Rule{
		Triggers:      []string{"来自", "我属于", "我从"},
		LooseTriggers: true,
	},
}

var (
	registryMu sync.RWMutex
	tables     = map[Language]Table{
		English: EnglishTable,
		Chinese: ChineseTable,
	}
	compiled = map[Language]*Extractor{}
)

// Register добавляет или заменяет таблицу правил для языка.
func Register(lang Language, t Table) error {
	ex, err := Compile(t)
	if err != nil {
		return fmt.Errorf("язык %s: %w", lang, err)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	tables[lang] = t
	compiled[lang] = ex
	return nil
}

// For возвращает Extractor для языка.
func For(lang Language) (*Extractor, error) {
	registryMu.RLock()
	ex, ok := compiled[lang]
	t, known := tables[lang]
	registryMu.RUnlock()

	if ok {
		return ex, nil
	}
	if !known {
		return nil, fmt.Errorf("неизвестный язык: %s", lang)
	}

	ex, err := Compile(t)
	if err != nil {
		return nil, err
	}

	registryMu.Lock()
	compiled[lang] = ex
	registryMu.Unlock()
	return ex, nil
}

// Extract извлекает имя и страну для указанного языка.
// Для неизвестного языка оба поля равны Unknown.
func Extract(text string, lang Language) (name, country string) {
	ex, err := For(lang)
	if err != nil {
		return Unknown, Unknown
	}
	return ex.Extract(text)
}

// Languages возвращает поддерживаемые языки распознавания.
func Languages() []Language {
	return []Language{English, Chinese}
}

// ParseLanguage разбирает строку из конфига; по умолчанию English.
func ParseLanguage(s string) Language {
	switch Language(s) {
	case Chinese:
		return Chinese
	default:
		return English
	}
}
