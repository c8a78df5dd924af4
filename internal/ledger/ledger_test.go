package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voiceroll/internal/extract"
)

func TestNewRecordDefaultsToUnknown(t *testing.T) {
	r := NewRecord("", "  ")
	if r.Name != extract.Unknown || r.Country != extract.Unknown {
		t.Fatalf("got %+v", r)
	}

	r = NewRecord("John", "Spain")
	if r.Name != "John" || r.Country != "Spain" {
		t.Fatalf("got %+v", r)
	}
}

func TestLedgerPreservesOrder(t *testing.T) {
	l := New()
	l.Append(Record{"A", "X"})
	l.Append(Record{"B", "Y"})
	if n := l.Append(Record{"C", "Z"}); n != 3 {
		t.Fatalf("length %d", n)
	}

	got := l.Records()
	want := []Record{{"A", "X"}, {"B", "Y"}, {"C", "Z"}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: got %+v, want %+v", i, got[i], want[i])
		}
	}

	// Копия не должна влиять на ledger.
	got[0].Name = "changed"
	if l.Records()[0].Name != "A" {
		t.Fatal("Records must return a copy")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	store := NewCSVStore(path)

	r1 := Record{"John", "Spain"}
	r2 := Record{"李明", "中国"}
	if err := store.Persist(r1); err != nil {
		t.Fatalf("persist r1: %v", err)
	}
	if err := store.Persist(r2); err != nil {
		t.Fatalf("persist r2: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0] != r1 || got[1] != r2 {
		t.Fatalf("got %+v", got)
	}
}

func TestCSVHeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")

	// Несколько "запусков" - каждый с новым хранилищем.
	for i := 0; i < 3; i++ {
		if err := NewCSVStore(path).Persist(Record{"N", "C"}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := strings.Count(string(data), "Name,Country"); n != 1 {
		t.Fatalf("header present %d times:\n%s", n, data)
	}
	if !strings.HasPrefix(string(data), "Name,Country\n") {
		t.Fatalf("file must start with header:\n%s", data)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
}

func TestCSVQuotesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	store := NewCSVStore(path)
	r := Record{"Smith, Jr", `"Q"`}
	if err := store.Persist(r); err != nil {
		t.Fatalf("persist: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0] != r {
		t.Fatalf("got %+v", got)
	}
}

func TestCSVLoadMissingFile(t *testing.T) {
	got, err := NewCSVStore(filepath.Join(t.TempDir(), "none.csv")).Load()
	if err != nil || got != nil {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestRecorderAppendsThenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	rec := NewRecorder(New(), NewCSVStore(path))

	if _, err := rec.Record("John", "Spain"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := rec.Record("", ""); err != nil {
		t.Fatalf("record: %v", err)
	}

	mem := rec.Ledger().Records()
	disk, err := NewCSVStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(mem) != 2 || len(disk) != 2 {
		t.Fatalf("mem=%d disk=%d", len(mem), len(disk))
	}
	for i := range mem {
		if mem[i] != disk[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, mem[i], disk[i])
		}
	}
	if mem[1] != (Record{extract.Unknown, extract.Unknown}) {
		t.Fatalf("empty fields must become Unknown, got %+v", mem[1])
	}
}

type failingStore struct{}

func (failingStore) Persist(Record) error { return errors.New("disk full") }

func TestRecorderPersistFailure(t *testing.T) {
	rec := NewRecorder(nil, failingStore{})
	r, err := rec.Record("A", "B")
	if err == nil {
		t.Fatal("expected persist error")
	}
	if r != (Record{"A", "B"}) {
		t.Fatalf("got %+v", r)
	}
	if rec.Ledger().Len() != 1 {
		t.Fatal("in-memory append happens before persist")
	}
}

// flakyStore отказывает, пока fail > 0, и запоминает сохранённые записи.
type flakyStore struct {
	fail  int
	saved []Record
}

func (s *flakyStore) Persist(r Record) error {
	if s.fail > 0 {
		s.fail--
		return errors.New("disk full")
	}
	s.saved = append(s.saved, r)
	return nil
}

func TestRecorderRetriesFailedRows(t *testing.T) {
	store := &flakyStore{fail: 1}
	rec := NewRecorder(nil, store)

	if _, err := rec.Record("Ann", "Chile"); err == nil {
		t.Fatal("expected persist error")
	}
	if rec.Pending() != 1 {
		t.Fatalf("pending %d, want 1", rec.Pending())
	}

	if _, err := rec.Record("Li", "China"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.Pending() != 0 {
		t.Fatalf("pending %d, want 0", rec.Pending())
	}

	mem := rec.Ledger().Records()
	if len(store.saved) != len(mem) {
		t.Fatalf("file has %d rows, memory %d", len(store.saved), len(mem))
	}
	for i := range mem {
		if mem[i] != store.saved[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, mem[i], store.saved[i])
		}
	}
}

func TestRecorderSetStoreKeepsLedger(t *testing.T) {
	dir := t.TempDir()
	first := NewCSVStore(filepath.Join(dir, "a.csv"))
	second := NewCSVStore(filepath.Join(dir, "b.csv"))

	rec := NewRecorder(nil, first)
	if _, err := rec.Record("Ann", "Chile"); err != nil {
		t.Fatal(err)
	}
	rec.SetStore(second)
	if _, err := rec.Record("Li", "China"); err != nil {
		t.Fatal(err)
	}

	if rec.Ledger().Len() != 2 {
		t.Fatalf("ledger has %d rows", rec.Ledger().Len())
	}
	a, _ := first.Load()
	b, _ := second.Load()
	if len(a) != 1 || a[0].Name != "Ann" || len(b) != 1 || b[0].Name != "Li" {
		t.Fatalf("a=%v b=%v", a, b)
	}
}
