package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestChangesSinceReturnsBothTables(t *testing.T) {
	db := testDB(t)
	old := mustCreate(t, db, NewEntity{Kind: KindList, Name: "old"})

	all0, err := db.ListIndex(nil, SortByUpdatedAt)
	if err != nil {
		t.Fatal(err)
	}
	watermark := all0[0].UpdatedAt
	time.Sleep(2 * time.Millisecond)

	fresh := mustCreate(t, db, NewEntity{Kind: KindList, Name: "fresh"})
	if _, err := db.UpdateContent(old.ID, json.RawMessage(`{"v":2}`), nil); err != nil {
		t.Fatal(err)
	}

	cs, err := db.ChangesSince(watermark)
	if err != nil {
		t.Fatalf("ChangesSince: %v", err)
	}

	// Both the new entity and the content-edited one moved past the
	// watermark on the metadata side.
	if len(cs.Lists) != 2 {
		t.Fatalf("lists = %d rows, want 2", len(cs.Lists))
	}
	// Content side: the fresh row plus the edited payload.
	if len(cs.Items) != 2 {
		t.Fatalf("items = %d rows, want 2", len(cs.Items))
	}
	seen := map[string]bool{}
	for _, c := range cs.Items {
		seen[c.ID] = true
	}
	if !seen[old.ID] || !seen[fresh.ID] {
		t.Errorf("items missing expected ids: %v", seen)
	}

	if cs.ServerTime.Before(watermark) {
		t.Errorf("server_time %v precedes watermark %v", cs.ServerTime, watermark)
	}
}

func TestChangesSinceExcludesWatermarkInstant(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, NewEntity{Kind: KindList, Name: "only"})

	all, err := db.ListIndex(nil, SortByUpdatedAt)
	if err != nil {
		t.Fatal(err)
	}

	cs, err := db.ChangesSince(all[0].UpdatedAt)
	if err != nil {
		t.Fatalf("ChangesSince: %v", err)
	}
	if len(cs.Lists) != 0 || len(cs.Items) != 0 {
		t.Errorf("rows at exactly the watermark leaked: %d lists, %d items", len(cs.Lists), len(cs.Items))
	}
}
