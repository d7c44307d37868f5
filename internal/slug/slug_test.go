package slug

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"simple", "Grand parent", 0, "grand-parent"},
		{"already clean", "child", 0, "child"},
		{"diacritics", "Categoría Ñoña", 0, "categoria-nona"},
		{"french", "Été à Paris", 0, "ete-a-paris"},
		{"cedilla", "Garçon", 0, "garcon"},
		{"punctuation runs", "Hello,   World!!!", 0, "hello-world"},
		{"leading trailing", "--Launch--", 0, "launch"},
		{"digits kept", "Top 10 results", 0, "top-10-results"},
		{"empty", "", 0, ""},
		{"only symbols", "!!!", 0, ""},
		{"mixed unicode", "daß & söhne", 0, "da-sohne"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugifyTruncation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"no truncation needed", "grand-parent", 20, "grand-parent"},
		{"exact fit", "grand-parent", 12, "grand-parent"},
		{"word boundary", "grand parent child", 14, "grand-parent"},
		{"cut lands on hyphen", "grand parent child", 12, "grand-parent"},
		{"single long word hard cut", "abcdefghij", 5, "abcde"},
		{"never trailing hyphen", "grand parent", 6, "grand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("Slugify(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if len(got) > tt.max {
				t.Errorf("result %q exceeds max %d", got, tt.max)
			}
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	a := Slugify("Nueva categoría práctica", 0)
	b := Slugify("Nueva categoría práctica", 0)
	if a != b {
		t.Errorf("Slugify is not deterministic: %q vs %q", a, b)
	}
}
