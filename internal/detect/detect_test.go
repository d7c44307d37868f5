package detect

import (
	"testing"

	"sectionpaths/internal/config"
	"sectionpaths/internal/entity"
)

func testSettings() *config.Settings {
	cfg := config.DefaultSettings()
	cfg.Bundles = map[string]config.BundleConfig{
		"article": {Vocabulary: "category", Field: "field_section"},
	}
	return cfg
}

func TestTermNeedsAliasUpdate(t *testing.T) {
	cfg := testSettings()

	base := &entity.Term{ID: 2, Label: "Child", Vocabulary: "category", ParentID: 1, Langcode: "en"}

	tests := []struct {
		name     string
		term     *entity.Term
		original *entity.Term
		isUpdate bool
		want     bool
	}{
		{"insert in managed vocabulary", base, nil, false, true},
		{"insert in unmanaged vocabulary",
			&entity.Term{ID: 9, Label: "Tag", Vocabulary: "tags"}, nil, false, false},
		{"update with label change", base,
			&entity.Term{ID: 2, Label: "Old child", Vocabulary: "category", ParentID: 1}, true, true},
		{"update with parent change", base,
			&entity.Term{ID: 2, Label: "Child", Vocabulary: "category", ParentID: 7}, true, true},
		{"update with nothing relevant changed", base,
			&entity.Term{ID: 2, Label: "Child", Vocabulary: "category", ParentID: 1}, true, false},
		{"update with missing snapshot fails open", base, nil, true, true},
		{"nil term", nil, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TermNeedsAliasUpdate(cfg, tt.term, tt.original, tt.isUpdate)
			if got != tt.want {
				t.Errorf("TermNeedsAliasUpdate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNodeNeedsAliasUpdate(t *testing.T) {
	cfg := testSettings()

	base := &entity.Node{ID: 5, Title: "Launch", Bundle: "article", TermID: 2, Langcode: "en"}

	tests := []struct {
		name     string
		node     *entity.Node
		original *entity.Node
		isUpdate bool
		want     bool
	}{
		{"insert in configured bundle", base, nil, false, true},
		{"insert in unconfigured bundle",
			&entity.Node{ID: 6, Title: "About", Bundle: "page"}, nil, false, false},
		{"update with title change", base,
			&entity.Node{ID: 5, Title: "Old launch", Bundle: "article", TermID: 2}, true, true},
		{"update with reference change", base,
			&entity.Node{ID: 5, Title: "Launch", Bundle: "article", TermID: 3}, true, true},
		{"update with nothing relevant changed", base,
			&entity.Node{ID: 5, Title: "Launch", Bundle: "article", TermID: 2}, true, false},
		{"update with missing snapshot fails open", base, nil, true, true},
		{"nil node", nil, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NodeNeedsAliasUpdate(cfg, tt.node, tt.original, tt.isUpdate)
			if got != tt.want {
				t.Errorf("NodeNeedsAliasUpdate = %v, want %v", got, tt.want)
			}
		})
	}
}
