package extract

import "testing"

func TestExtractEnglish(t *testing.T) {
	cases := []struct {
		text    string
		name    string
		country string
	}{
		{"my name is John and I am from Spain", "John", "Spain"},
		{"my name is\u00a0John", "John", Unknown},
		{"hello they call me Bob i come from Canada", "Bob", "Canada"},
		{"People know me as Ana", "Ana", Unknown},
		{"i belong to Peru", Unknown, "Peru"},
		{"I am Li and i am from China", "Li", "China"},
		{"call me maybe", "maybe", Unknown},
		{"nothing useful here", Unknown, Unknown},
		{"", Unknown, Unknown},
	}

	for _, tc := range cases {
		name, country := Extract(tc.text, English)
		if name != tc.name || country != tc.country {
			t.Errorf("Extract(%q) = (%q, %q), want (%q, %q)", tc.text, name, country, tc.name, tc.country)
		}
	}
}

func TestExtractEnglishLeftmostWins(t *testing.T) {
	// "from" стоит раньше "i come from", поэтому выигрывает самое левое совпадение.
	_, country := Extract("from Oslo but i come from Bergen", English)
	if country != "Oslo" {
		t.Fatalf("expected leftmost match Oslo, got %q", country)
	}

	// На одной позиции "i am from" объявлен раньше "from" и захватывает слово после себя.
	_, country = Extract("i am from Kenya", English)
	if country != "Kenya" {
		t.Fatalf("expected Kenya, got %q", country)
	}
}

func TestExtractEnglishNeedsWordBoundary(t *testing.T) {
	// "aircall me" не должно срабатывать как "call me".
	name, _ := Extract("aircall me Tom", English)
	if name != Unknown {
		t.Fatalf("expected Unknown, got %q", name)
	}

	// Граница учитывает не только ASCII: "é" - буква, значит "call me" внутри слова.
	name, _ = Extract("écall me Tom", English)
	if name != Unknown {
		t.Fatalf("expected Unknown inside a non-ASCII word, got %q", name)
	}
	name, _ = Extract("«call me Tom", English)
	if name != "Tom" {
		t.Fatalf("expected Tom after punctuation, got %q", name)
	}
}

func TestExtractChinese(t *testing.T) {
	cases := []struct {
		text    string
		name    string
		country string
	}{
		{"我叫李明，我从中国", "李明", "中国"},
		{"大家叫我小王，我来自日本", "小王", "日本"},
		{"我的名字是张伟", "张伟", Unknown},
		{"我 叫 李明 我 从 中国", "李明", "中国"},
		{"我叫　李明，我从　中国", "李明", "中国"},
		{"我　叫李明", "李明", Unknown},
		{"你好", Unknown, Unknown},
	}

	for _, tc := range cases {
		name, country := Extract(tc.text, Chinese)
		if name != tc.name || country != tc.country {
			t.Errorf("Extract(%q) = (%q, %q), want (%q, %q)", tc.text, name, country, tc.name, tc.country)
		}
	}
}

func TestExtractIsPure(t *testing.T) {
	text := "my name is John and I am from Spain"
	n1, c1 := Extract(text, English)
	n2, c2 := Extract(text, English)
	if n1 != n2 || c1 != c2 {
		t.Fatalf("results differ: (%q, %q) vs (%q, %q)", n1, c1, n2, c2)
	}
}

func TestExtractUnknownLanguage(t *testing.T) {
	name, country := Extract("my name is John", Language("Klingon"))
	if name != Unknown || country != Unknown {
		t.Fatalf("expected Unknown pair, got (%q, %q)", name, country)
	}
}

func TestRegisterLanguage(t *testing.T) {
	fr := Language("French")
	err := Register(fr, Table{
		Name:       Rule{Triggers: []string{"je m'appelle"}, WordBoundary: true, RequireSpace: true},
		Country:    Rule{Triggers: []string{"je viens de"}, WordBoundary: true, RequireSpace: true},
		IgnoreCase: true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	name, country := Extract("Je m'appelle Luc et je viens de France", fr)
	if name != "Luc" || country != "France" {
		t.Fatalf("got (%q, %q)", name, country)
	}
}

func TestCompileRejectsEmptyRule(t *testing.T) {
	if _, err := Compile(Table{Name: Rule{}, Country: Rule{Triggers: []string{"x"}}}); err == nil {
		t.Fatal("expected error for rule without triggers")
	}
}

func TestParseLanguage(t *testing.T) {
	if ParseLanguage("Chinese") != Chinese {
		t.Fatal("expected Chinese")
	}
	if ParseLanguage("") != English {
		t.Fatal("expected English default")
	}
}
