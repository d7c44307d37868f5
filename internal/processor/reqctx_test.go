package processor

import (
	"testing"

	"sectionpaths/internal/entity"
)

func pd(id int64, label string) PendingDeletion {
	return PendingDeletion{
		Term: &entity.Term{ID: id, Label: label, Vocabulary: "sections", Langcode: "en"},
	}
}

func TestRequestContextSetGetDelete(t *testing.T) {
	rc := NewRequestContext()

	if rc.Has(GroupInput, 1) {
		t.Error("empty context reports Has")
	}
	rc.Set(GroupInput, 1, pd(1, "One"))
	got, ok := rc.Get(GroupInput, 1)
	if !ok || got.Term.Label != "One" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	// Overwriting keeps a single entry.
	rc.Set(GroupInput, 1, pd(1, "One again"))
	if rc.CountInGroup(GroupInput) != 1 {
		t.Errorf("count = %d after overwrite", rc.CountInGroup(GroupInput))
	}

	rc.Delete(GroupInput, 1)
	if rc.Has(GroupInput, 1) {
		t.Error("entry survived Delete")
	}
}

func TestRequestContextTransition(t *testing.T) {
	rc := NewRequestContext()
	rc.Set(GroupInput, 1, pd(1, "One"))
	rc.Set(GroupInput, 2, pd(2, "Two"))

	if !rc.Transition(GroupInput, GroupOutput, 1) {
		t.Fatal("Transition returned false for present entry")
	}
	if rc.IsLastInGroup(GroupInput) {
		t.Error("input drained with one entry left")
	}
	// A second transition of the same id is a no-op.
	if rc.Transition(GroupInput, GroupOutput, 1) {
		t.Error("Transition succeeded twice for one id")
	}

	if !rc.Transition(GroupInput, GroupOutput, 2) {
		t.Fatal("Transition returned false for second entry")
	}
	if !rc.IsLastInGroup(GroupInput) {
		t.Error("input not drained")
	}
	if rc.CountInGroup(GroupOutput) != 2 {
		t.Errorf("output count = %d, want 2", rc.CountInGroup(GroupOutput))
	}
}

func TestRequestContextEntriesOrder(t *testing.T) {
	rc := NewRequestContext()
	for _, id := range []int64{3, 1, 2} {
		rc.Set(GroupOutput, id, pd(id, ""))
	}
	entries := rc.Entries(GroupOutput)
	if len(entries) != 3 {
		t.Fatalf("len = %d", len(entries))
	}
	for i, want := range []int64{3, 1, 2} {
		if entries[i].Term.ID != want {
			t.Errorf("entries[%d].ID = %d, want %d", i, entries[i].Term.ID, want)
		}
	}
}

func TestRequestContextClearGroup(t *testing.T) {
	rc := NewRequestContext()
	rc.Set(GroupOutput, 1, pd(1, ""))
	rc.Set(GroupOutput, 2, pd(2, ""))
	rc.ClearGroup(GroupOutput)
	if rc.CountInGroup(GroupOutput) != 0 {
		t.Error("group not cleared")
	}
	if entries := rc.Entries(GroupOutput); entries != nil {
		t.Errorf("Entries = %v after clear", entries)
	}
}
