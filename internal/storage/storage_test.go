package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sectionpaths/internal/config"
	"sectionpaths/internal/entity"
	"sectionpaths/internal/logging"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()

	db, err := Open(tmpDir, logging.Discard())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})

	return db
}

func TestDatabaseInitialization(t *testing.T) {
	tmpDir := t.TempDir()

	db, err := Open(tmpDir, logging.Discard())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	dbPath := filepath.Join(tmpDir, config.DotDir, "sectionpaths.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatalf("Database file was not created at %s", dbPath)
	}

	version, err := db.getSchemaVersion()
	if err != nil {
		t.Fatalf("Failed to get schema version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("Expected schema version %d, got %d", currentSchemaVersion, version)
	}
}

func TestAliasRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAliasRepository(db)

	if err := repo.Create("term/1", "/grand-parent", "en"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec, err := repo.FindBySource("term/1", "en")
	if err != nil {
		t.Fatalf("FindBySource: %v", err)
	}
	if rec == nil || rec.Alias != "/grand-parent" {
		t.Fatalf("FindBySource = %+v, want /grand-parent", rec)
	}

	rec, err = repo.FindByAlias("/grand-parent", "en")
	if err != nil {
		t.Fatalf("FindByAlias: %v", err)
	}
	if rec == nil || rec.Source != "term/1" {
		t.Fatalf("FindByAlias = %+v, want source term/1", rec)
	}

	// Different language is a separate namespace.
	missing, err := repo.FindBySource("term/1", "es")
	if err != nil {
		t.Fatalf("FindBySource(es): %v", err)
	}
	if missing != nil {
		t.Errorf("expected no record for es, got %+v", missing)
	}

	deleted, err := repo.DeleteBySource("term/1", "en")
	if err != nil {
		t.Fatalf("DeleteBySource: %v", err)
	}
	if !deleted {
		t.Error("DeleteBySource should report a removed record")
	}

	deleted, err = repo.DeleteBySource("term/1", "en")
	if err != nil {
		t.Fatalf("DeleteBySource second call: %v", err)
	}
	if deleted {
		t.Error("second delete should report nothing removed")
	}
}

func TestAliasUniqueConstraint(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAliasRepository(db)

	if err := repo.Create("term/1", "/launch", "en"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Same alias, same language, different source must be rejected.
	err := repo.Create("node/5", "/launch", "en")
	if err == nil {
		t.Fatal("expected unique constraint violation")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "unique") &&
		!strings.Contains(err.Error(), "constraint") {
		t.Errorf("unexpected error text: %v", err)
	}

	// Same alias in another language is fine.
	if err := repo.Create("node/5", "/launch", "es"); err != nil {
		t.Errorf("same alias in another language should be allowed: %v", err)
	}

	count, err := repo.CountByLangcode("en")
	if err != nil {
		t.Fatalf("CountByLangcode: %v", err)
	}
	if count != 1 {
		t.Errorf("CountByLangcode(en) = %d, want 1", count)
	}
}

func TestTermRepositoryHierarchy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTermRepository(db)

	root := &entity.Term{Vocabulary: "category", Label: "Grand parent", Langcode: "en"}
	if err := repo.Create(root); err != nil {
		t.Fatalf("Create root: %v", err)
	}
	child := &entity.Term{Vocabulary: "category", Label: "Child", ParentID: root.ID, Langcode: "en"}
	if err := repo.Create(child); err != nil {
		t.Fatalf("Create child: %v", err)
	}
	other := &entity.Term{Vocabulary: "tags", Label: "Misc", Langcode: "en"}
	if err := repo.Create(other); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	roots, err := repo.Roots("category")
	if err != nil {
		t.Fatalf("Roots: %v", err)
	}
	if len(roots) != 1 || roots[0].ID != root.ID {
		t.Errorf("Roots(category) = %+v, want just the root term", roots)
	}

	children, err := repo.Children(root.ID)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(children) != 1 || children[0].Label != "Child" {
		t.Errorf("Children = %+v", children)
	}

	all, err := repo.ByVocabulary("category")
	if err != nil {
		t.Fatalf("ByVocabulary: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ByVocabulary(category) = %d terms, want 2", len(all))
	}

	got, err := repo.Get(child.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ParentID != root.ID {
		t.Errorf("ParentID = %d, want %d", got.ParentID, root.ID)
	}

	got.Label = "Renamed child"
	if err := repo.Update(got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := repo.Get(child.ID)
	if again.Label != "Renamed child" {
		t.Errorf("Label after update = %q", again.Label)
	}

	if err := repo.Delete(child.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, _ := repo.Get(child.ID)
	if gone != nil {
		t.Errorf("expected term gone, got %+v", gone)
	}
}

func TestNodeRepositoryByTermAndBundle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNodeRepository(db)

	a := &entity.Node{Bundle: "article", Title: "Launch", TermID: 2, Langcode: "en"}
	b := &entity.Node{Bundle: "article", Title: "Review", TermID: 2, Langcode: "en"}
	c := &entity.Node{Bundle: "page", Title: "About", TermID: 2, Langcode: "en"}
	d := &entity.Node{Bundle: "article", Title: "Elsewhere", TermID: 3, Langcode: "en"}
	for _, n := range []*entity.Node{a, b, c, d} {
		if err := repo.Create(n); err != nil {
			t.Fatalf("Create %q: %v", n.Title, err)
		}
	}

	nodes, err := repo.ByTermAndBundle(2, "article")
	if err != nil {
		t.Fatalf("ByTermAndBundle: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].Title != "Launch" || nodes[1].Title != "Review" {
		t.Errorf("nodes = %+v", nodes)
	}

	a.TermID = 0
	if err := repo.Update(a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	nodes, _ = repo.ByTermAndBundle(2, "article")
	if len(nodes) != 1 {
		t.Errorf("expected 1 node after reassignment, got %d", len(nodes))
	}
}
