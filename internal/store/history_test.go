package store

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryHistoryStore_AppendAndOrder(t *testing.T) {
	s := NewInMemoryHistoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

	first, err := s.Append(ctx, EditSnapshot{CommentID: "c1", Content: "v1", EditedAt: base})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected snapshot id")
	}
	_, _ = s.Append(ctx, EditSnapshot{CommentID: "c1", Content: "v2", EditedAt: base.Add(time.Second)})
	_, _ = s.Append(ctx, EditSnapshot{CommentID: "c1", Content: "v3", EditedAt: base.Add(2 * time.Second)})
	_, _ = s.Append(ctx, EditSnapshot{CommentID: "other", Content: "x", EditedAt: base})

	snaps, err := s.ListByComment(ctx, "c1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snaps))
	}
	if snaps[0].Content != "v3" || snaps[1].Content != "v2" || snaps[2].Content != "v1" {
		t.Fatalf("expected most-recent-first, got %v", snaps)
	}
}

func TestInMemoryHistoryStore_TimestampTies(t *testing.T) {
	s := NewInMemoryHistoryStore()
	ctx := context.Background()
	ts := time.Now().UTC()

	_, _ = s.Append(ctx, EditSnapshot{CommentID: "c1", Content: "older", EditedAt: ts})
	_, _ = s.Append(ctx, EditSnapshot{CommentID: "c1", Content: "newer", EditedAt: ts})

	snaps, _ := s.ListByComment(ctx, "c1")
	if snaps[0].Content != "newer" {
		t.Fatalf("append order must break ties, got %v", snaps)
	}
}

func TestHistoryStoreInterface(t *testing.T) {
	var _ HistoryStore = (*InMemoryHistoryStore)(nil)
	var _ HistoryStore = (*PostgresHistoryStore)(nil)
}
