package fuzzitem

import (
	"testing"
)

func TestStoreSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	item := New([]byte{0x01, 0x02, 0x03})
	item.Depth = 1
	item.FuzzedCount = 4
	item.HitRank = HitRank2
	m := NewMetadata(5, 1, item.Depth)

	if err := store.Save(item, m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if m.FilePath == "" {
		t.Fatal("expected Save to populate FilePath")
	}
	if m.FileSize != 3 {
		t.Fatalf("expected FileSize 3, got %d", m.FileSize)
	}

	loadedItem, loadedMeta, err := store.Load(m.FilePath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(loadedItem.Data) != string(item.Data) {
		t.Fatalf("expected loaded data %v, got %v", item.Data, loadedItem.Data)
	}
	if loadedMeta.ID != 5 || loadedMeta.FuzzedCount != 4 || loadedMeta.HitRank != HitRank2 {
		t.Fatalf("unexpected loaded metadata: %+v", loadedMeta)
	}
}

func TestStoreLoadAllOrdersByID(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	ids := []uint64{3, 1, 2}
	for _, id := range ids {
		item := New([]byte{byte(id)})
		m := NewMetadata(id, 0, 0)
		if err := store.Save(item, m); err != nil {
			t.Fatalf("Save(%d) failed: %v", id, err)
		}
	}

	items, metas, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(items) != 3 || len(metas) != 3 {
		t.Fatalf("expected 3 items and metas, got %d and %d", len(items), len(metas))
	}
	for i, want := range []uint64{1, 2, 3} {
		if metas[i].ID != want {
			t.Fatalf("expected metas[%d].ID == %d, got %d", i, want, metas[i].ID)
		}
	}
}

func TestStoreLoadAllIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := store.Save(New([]byte{0xff}), NewMetadata(1, 0, 0)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	items, _, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}
