package dispatch

import (
	"fmt"
	"sort"
	"testing"

	"sectionpaths/internal/alias"
	"sectionpaths/internal/config"
	"sectionpaths/internal/entity"
	"sectionpaths/internal/logging"
	"sectionpaths/internal/paths"
	"sectionpaths/internal/processor"
)

type memAliases struct {
	recs map[string]*entity.Alias
	next int64
}

func newMemAliases() *memAliases {
	return &memAliases{recs: make(map[string]*entity.Alias)}
}

func (s *memAliases) FindBySource(source, langcode string) (*entity.Alias, error) {
	return s.recs[source+"|"+langcode], nil
}

func (s *memAliases) FindByAlias(aliasPath, langcode string) (*entity.Alias, error) {
	for _, rec := range s.recs {
		if rec.Alias == aliasPath && rec.Langcode == langcode {
			return rec, nil
		}
	}
	return nil, nil
}

func (s *memAliases) Create(source, aliasPath, langcode string) error {
	if existing, _ := s.FindByAlias(aliasPath, langcode); existing != nil {
		return fmt.Errorf("alias %q already taken", aliasPath)
	}
	s.next++
	s.recs[source+"|"+langcode] = &entity.Alias{
		ID: s.next, Source: source, Alias: aliasPath, Langcode: langcode,
	}
	return nil
}

func (s *memAliases) DeleteBySource(source, langcode string) (bool, error) {
	k := source + "|" + langcode
	if _, ok := s.recs[k]; !ok {
		return false, nil
	}
	delete(s.recs, k)
	return true, nil
}

func (s *memAliases) aliasOf(source string) string {
	if rec := s.recs[source+"|en"]; rec != nil {
		return rec.Alias
	}
	return ""
}

type memTerms struct {
	byID map[int64]*entity.Term
}

func (m *memTerms) Get(id int64) (*entity.Term, error) { return m.byID[id], nil }

func (m *memTerms) Children(parentID int64) ([]*entity.Term, error) {
	var out []*entity.Term
	for _, term := range m.byID {
		if term.ParentID == parentID {
			out = append(out, term)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memNodes struct {
	nodes []*entity.Node
}

func (m *memNodes) ByTermAndBundle(termID int64, bundle string) ([]*entity.Node, error) {
	var out []*entity.Node
	for _, n := range m.nodes {
		if n.TermID == termID && n.Bundle == bundle {
			out = append(out, n)
		}
	}
	return out, nil
}

type fixture struct {
	cfg     *config.Settings
	aliases *memAliases
	terms   *memTerms
	nodes   *memNodes
	disp    *Dispatcher
}

func newFixture(mutate func(*config.Settings)) *fixture {
	cfg := config.DefaultSettings()
	cfg.Bundles = map[string]config.BundleConfig{
		"article": {Vocabulary: "sections", Field: "field_section"},
	}
	cfg.SilentMessages = true
	if mutate != nil {
		mutate(cfg)
	}

	logger := logging.Discard()
	aliases := newMemAliases()
	terms := &memTerms{byID: make(map[int64]*entity.Term)}
	nodes := &memNodes{}

	resolver := paths.NewResolver(terms, cfg.MaxSlugLength)
	actions := alias.NewActions(aliases, logger)
	conflicts := alias.NewConflictResolver(aliases)
	oplog := alias.NewOperationLogger(cfg, logger, nil)
	related := processor.NewRelatedNodes(cfg, nodes, resolver, actions, conflicts, oplog, logger)
	proc := processor.NewProcessor(cfg, terms, resolver, actions, conflicts, related, oplog, logger)
	disp := NewDispatcher(cfg, proc, actions, oplog, logger)

	return &fixture{cfg: cfg, aliases: aliases, terms: terms, nodes: nodes, disp: disp}
}

func (f *fixture) addTerm(id, parentID int64, label string) *entity.Term {
	t := &entity.Term{ID: id, Label: label, Vocabulary: "sections", ParentID: parentID, Langcode: "en"}
	f.terms.byID[id] = t
	return t
}

func (f *fixture) addNode(id, termID int64, title string) *entity.Node {
	n := &entity.Node{ID: id, Title: title, Bundle: "article", TermID: termID, Langcode: "en"}
	f.nodes.nodes = append(f.nodes.nodes, n)
	return n
}

func TestTermInsertedCreatesAlias(t *testing.T) {
	f := newFixture(nil)
	term := f.addTerm(1, 0, "News")

	if err := f.disp.TermInserted(term); err != nil {
		t.Fatalf("TermInserted() error = %v", err)
	}
	if got := f.aliases.aliasOf("term/1"); got != "/news" {
		t.Errorf("alias = %q, want /news", got)
	}
}

func TestTermInsertedUnmanagedVocabulary(t *testing.T) {
	f := newFixture(nil)
	term := &entity.Term{ID: 1, Label: "Tag", Vocabulary: "tags", Langcode: "en"}

	if err := f.disp.TermInserted(term); err != nil {
		t.Fatalf("TermInserted() error = %v", err)
	}
	if got := f.aliases.aliasOf("term/1"); got != "" {
		t.Errorf("unmanaged term got alias %q", got)
	}
}

func TestTermUpdatedSkipsIrrelevantChange(t *testing.T) {
	f := newFixture(nil)
	term := f.addTerm(1, 0, "News")
	if err := f.disp.TermInserted(term); err != nil {
		t.Fatal(err)
	}

	// Neither label nor parent changed; the stored alias must not churn.
	before := *term
	if err := f.disp.TermUpdated(&before, term); err != nil {
		t.Fatalf("TermUpdated() error = %v", err)
	}
	if got := f.aliases.aliasOf("term/1"); got != "/news" {
		t.Errorf("alias = %q, want /news untouched", got)
	}
}

func TestTermUpdatedRenameCascades(t *testing.T) {
	f := newFixture(nil)
	parent := f.addTerm(1, 0, "News")
	child := f.addTerm(2, 1, "Local")
	f.addNode(10, 2, "Story")
	for _, term := range []*entity.Term{parent, child} {
		if err := f.disp.TermInserted(term); err != nil {
			t.Fatal(err)
		}
	}
	node := f.nodes.nodes[0]
	if err := f.disp.NodeInserted(node); err != nil {
		t.Fatal(err)
	}

	before := *parent
	parent.Label = "World news"
	if err := f.disp.TermUpdated(&before, parent); err != nil {
		t.Fatalf("TermUpdated() error = %v", err)
	}

	want := map[string]string{
		"term/1":  "/world-news",
		"term/2":  "/world-news/local",
		"node/10": "/world-news/local/story",
	}
	for source, aliasPath := range want {
		if got := f.aliases.aliasOf(source); got != aliasPath {
			t.Errorf("%s: got %q, want %q", source, got, aliasPath)
		}
	}
}

func TestDeletionCascadeLifecycle(t *testing.T) {
	f := newFixture(func(cfg *config.Settings) {
		cfg.GenerateNodeAliasIfTermEmpty = true
	})
	parent := f.addTerm(1, 0, "News")
	child := f.addTerm(2, 1, "Local")
	f.addNode(10, 2, "Story")
	for _, term := range []*entity.Term{parent, child} {
		if err := f.disp.TermInserted(term); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.disp.NodeInserted(f.nodes.nodes[0]); err != nil {
		t.Fatal(err)
	}

	// The subtree goes away: both terms snapshot before removal, then
	// report deletion in turn.
	for _, term := range []*entity.Term{parent, child} {
		if err := f.disp.TermPredelete(term); err != nil {
			t.Fatalf("TermPredelete(%d) error = %v", term.ID, err)
		}
	}
	delete(f.terms.byID, 1)
	delete(f.terms.byID, 2)

	if err := f.disp.TermDeleted(parent, false); err != nil {
		t.Fatalf("TermDeleted(parent) error = %v", err)
	}
	// Cascade must wait for the second term.
	if got := f.aliases.aliasOf("term/2"); got == "" {
		t.Fatal("cascade ran before all deletions reported")
	}
	if err := f.disp.TermDeleted(child, false); err != nil {
		t.Fatalf("TermDeleted(child) error = %v", err)
	}

	if got := f.aliases.aliasOf("term/1"); got != "" {
		t.Errorf("term/1 kept alias %q", got)
	}
	if got := f.aliases.aliasOf("term/2"); got != "" {
		t.Errorf("term/2 kept alias %q", got)
	}
	if got := f.aliases.aliasOf("node/10"); got != "/story" {
		t.Errorf("node alias = %q, want /story", got)
	}

	// A fresh cascade starts clean after the previous one completed.
	other := f.addTerm(3, 0, "Sports")
	if err := f.disp.TermInserted(other); err != nil {
		t.Fatal(err)
	}
	if err := f.disp.TermPredelete(other); err != nil {
		t.Fatal(err)
	}
	delete(f.terms.byID, 3)
	if err := f.disp.TermDeleted(other, false); err != nil {
		t.Fatalf("TermDeleted(other) error = %v", err)
	}
	if got := f.aliases.aliasOf("term/3"); got != "" {
		t.Errorf("term/3 kept alias %q", got)
	}
}

func TestTermDeletedWithoutSnapshot(t *testing.T) {
	f := newFixture(nil)
	term := f.addTerm(1, 0, "News")

	// No predelete happened; the event is tolerated and ignored.
	if err := f.disp.TermDeleted(term, false); err != nil {
		t.Fatalf("TermDeleted() error = %v", err)
	}
}

func TestNodeLifecycle(t *testing.T) {
	f := newFixture(nil)
	section := f.addTerm(1, 0, "News")
	if err := f.disp.TermInserted(section); err != nil {
		t.Fatal(err)
	}
	node := f.addNode(10, 1, "Story")

	if err := f.disp.NodeInserted(node); err != nil {
		t.Fatalf("NodeInserted() error = %v", err)
	}
	if got := f.aliases.aliasOf("node/10"); got != "/news/story" {
		t.Errorf("alias = %q, want /news/story", got)
	}

	// Retitle.
	before := *node
	node.Title = "Big story"
	if err := f.disp.NodeUpdated(&before, node); err != nil {
		t.Fatalf("NodeUpdated() error = %v", err)
	}
	if got := f.aliases.aliasOf("node/10"); got != "/news/big-story" {
		t.Errorf("alias = %q, want /news/big-story", got)
	}

	// Unchanged save is a no-op.
	same := *node
	if err := f.disp.NodeUpdated(&same, node); err != nil {
		t.Fatalf("NodeUpdated() error = %v", err)
	}
	if got := f.aliases.aliasOf("node/10"); got != "/news/big-story" {
		t.Errorf("alias churned to %q", got)
	}

	if err := f.disp.NodeDeleted(node); err != nil {
		t.Fatalf("NodeDeleted() error = %v", err)
	}
	if got := f.aliases.aliasOf("node/10"); got != "" {
		t.Errorf("deleted node kept alias %q", got)
	}
}

func TestNodeInsertedUnconfiguredBundle(t *testing.T) {
	f := newFixture(nil)
	node := &entity.Node{ID: 10, Title: "Page", Bundle: "page", Langcode: "en"}

	if err := f.disp.NodeInserted(node); err != nil {
		t.Fatalf("NodeInserted() error = %v", err)
	}
	if got := f.aliases.aliasOf("node/10"); got != "" {
		t.Errorf("unconfigured bundle got alias %q", got)
	}
}
