package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultCSVPath - файл в рабочей директории.
const DefaultCSVPath = "data.csv"

// Header - заголовок CSV файла.
var Header = []string{"Name", "Country"}

// Store сохраняет запись в долговременное хранилище.
type Store interface {
	Persist(r Record) error
}

// CSVStore дописывает записи в CSV файл.
type CSVStore struct {
	path string
}

// NewCSVStore создаёт хранилище для файла path.
func NewCSVStore(path string) *CSVStore {
	if path == "" {
		path = DefaultCSVPath
	}
	return &CSVStore{path: path}
}

// Path возвращает путь к файлу.
func (s *CSVStore) Path() string {
	return s.path
}

// Persist дописывает запись. Заголовок пишется только в новый (пустой) файл.
func (s *CSVStore) Persist(r Record) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("не удалось открыть %s: %w", s.path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("не удалось прочитать размер %s: %w", s.path, err)
	}

	w := csv.NewWriter(f)
	if stat.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return err
		}
	}
	if err := w.Write([]string{r.Name, r.Country}); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", s.path, err)
	}

	return f.Close()
}

// Load читает все записи файла. Отсутствующий файл - пустой список.
func (s *CSVStore) Load() ([]Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records []Record
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records, fmt.Errorf("ошибка чтения %s: %w", s.path, err)
		}

		if first {
			first = false
			if isHeader(row) {
				continue
			}
		}
		if len(row) < 2 {
			continue
		}
		records = append(records, Record{Name: row[0], Country: row[1]})
	}

	return records, nil
}

func isHeader(row []string) bool {
	return len(row) == len(Header) && row[0] == Header[0] && row[1] == Header[1]
}
