package category

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hip Hop", "hip hop"},
		{"  lo-fi ", "lo fi"},
		{"Lo - Fi", "lo fi"},
		{"k-pop", "k pop"},
		{"drum\tand\n bass", "drum and bass"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultCategory(t *testing.T) {
	cats := Default()
	tests := []struct {
		genre, want string
	}{
		{"hip hop", "Hip Hop & Rap"},
		{"Lo Fi", "Electronic & Dance"},
		{"LO-FI", "Electronic & Dance"},
		{"K-Pop", "Asian Pop"},
		{"metalcore", "Metal"},
		{"polka", Other},
	}
	for _, tt := range tests {
		if got := cats.Category(tt.genre); got != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.genre, got, tt.want)
		}
	}
}

func TestDefaultColors(t *testing.T) {
	cats := Default()
	if got := cats.Color("Hip Hop & Rap"); got != "#ff6b35" {
		t.Errorf("Color(Hip Hop & Rap) = %q, want #ff6b35", got)
	}
	if got := cats.Color("no such category"); got != cats.Color(Other) {
		t.Errorf("unknown category color = %q, want Other's %q", got, cats.Color(Other))
	}
	s := cats.Scheme("Pop")
	if s.Light == s.Primary || s.Dark == s.Primary {
		t.Errorf("variants should differ from primary: %+v", s)
	}
}

func TestCategoriesOrder(t *testing.T) {
	cats := Default()
	got := cats.Categories()
	if len(got) == 0 || got[0] != "Hip Hop & Rap" {
		t.Fatalf("Categories()[0] = %v, want Hip Hop & Rap", got)
	}
	if got[len(got)-1] != Other {
		t.Errorf("last category = %q, want %q", got[len(got)-1], Other)
	}
	got[0] = "mutated"
	if cats.Categories()[0] != "Hip Hop & Rap" {
		t.Error("Categories should return a copy")
	}
}

func TestNewAppendsOtherAndGeneratesColors(t *testing.T) {
	cats := New([]Category{
		{Name: "A", Genres: []string{"x", "y"}},
		{Name: "B", Genres: []string{"z", "x"}},
	})

	if got := cats.Categories(); len(got) != 3 || got[2] != Other {
		t.Fatalf("Categories = %v, want [A B %s]", got, Other)
	}
	if got := cats.Category("x"); got != "A" {
		t.Errorf("Category(x) = %q, want A (first mapping wins)", got)
	}
	if got := cats.Genres("B"); len(got) != 1 || got[0] != "z" {
		t.Errorf("Genres(B) = %v, want [z]", got)
	}
	a, b := cats.Color("A"), cats.Color("B")
	if !strings.HasPrefix(a, "#") || len(a) != 7 || a == b {
		t.Errorf("generated colors = %q, %q; want distinct hex", a, b)
	}
}

func TestNilLookup(t *testing.T) {
	var cats *Lookup
	if got := cats.Category("rock"); got != Other {
		t.Errorf("nil Category = %q, want %q", got, Other)
	}
	if got := cats.Color("rock"); got != "#808080" {
		t.Errorf("nil Color = %q, want #808080", got)
	}
	if got := cats.Categories(); len(got) != 1 {
		t.Errorf("nil Categories = %v", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cats.toml")
	doc := `
[[category]]
name = "Chill"
color = "#112233"
genres = ["lofi beats", "chillhop"]
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cats, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := cats.Category("Chill-Hop"); got != Other {
		t.Errorf("Category(Chill-Hop) = %q, want %q", got, Other)
	}
	if got := cats.Category("LoFi Beats"); got != "Chill" {
		t.Errorf("Category(LoFi Beats) = %q, want Chill", got)
	}
	if got := cats.Color("Chill"); got != "#112233" {
		t.Errorf("Color(Chill) = %q, want #112233", got)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadFile(missing) should fail")
	}
	if _, err := Parse([]byte("[[category]\nname=")); err == nil {
		t.Error("Parse(invalid) should fail")
	}
}
