package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
	"github.com/reelforge/reelforge-agent/internal/db"
)

func setupTestDB(t *testing.T) (*db.DB, *SQLiteRepository) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database, err := db.New(dbPath, nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database, NewRepository(database.Conn())
}

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestService_AddItem(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, 4, nil)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, "", "beach.jpg", 0)
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if item.ID == "" {
		t.Error("item.ID is empty")
	}
	if item.Kind != KindImage {
		t.Errorf("item.Kind = %s, want image", item.Kind)
	}
	if item.DisplayDurationSeconds != 4 {
		t.Errorf("item.DisplayDurationSeconds = %v, want 4", item.DisplayDurationSeconds)
	}
	if item.Position != 0 {
		t.Errorf("item.Position = %d, want 0", item.Position)
	}

	second, err := svc.AddItem(ctx, KindVideo, "clip", 2.5)
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if second.Position != 1 {
		t.Errorf("second.Position = %d, want 1", second.Position)
	}

	got, err := repo.GetItem(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if got == nil || got.DisplayDurationSeconds != 2.5 || got.Kind != KindVideo {
		t.Errorf("GetItem() = %+v, want stored video with 2.5s", got)
	}
}

func TestService_AddItem_Invalid(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, 0, nil)

	tests := []struct {
		name     string
		kind     Kind
		itemName string
		duration float64
	}{
		{"empty name", KindImage, "  ", 0},
		{"unknown extension", "", "notes.txt", 0},
		{"bad kind", Kind("audio"), "a.mp3", 0},
		{"negative duration", KindImage, "a.png", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(context.Background(), tt.kind, tt.itemName, tt.duration)
			if apperrors.CodeOf(err) != apperrors.CodeInput {
				t.Errorf("AddItem() error = %v, want input error", err)
			}
		})
	}
}

func TestService_RemoveItem(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, 0, nil)
	ctx := context.Background()

	svc.AddItem(ctx, KindImage, "a.png", 0)
	b, _ := svc.AddItem(ctx, KindImage, "b.png", 0)
	svc.AddItem(ctx, KindImage, "c.png", 0)

	if err := svc.RemoveItem(ctx, b.ID); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}

	items, err := svc.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if !equalStrings(names(items), []string{"a.png", "c.png"}) {
		t.Errorf("ListItems() = %v", names(items))
	}
	for i, it := range items {
		if it.Position != i {
			t.Errorf("items[%d].Position = %d, want %d", i, it.Position, i)
		}
	}

	err = svc.RemoveItem(ctx, b.ID)
	if !errors.Is(err, apperrors.NotFound("")) {
		t.Errorf("RemoveItem() twice error = %v, want not found", err)
	}
}

func TestService_Reorder(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, 0, nil)
	ctx := context.Background()

	a, _ := svc.AddItem(ctx, KindImage, "a.png", 0)
	b, _ := svc.AddItem(ctx, KindImage, "b.png", 0)
	c, _ := svc.AddItem(ctx, KindVideo, "c.mp4", 0)

	if err := svc.Reorder(ctx, []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	items, _ := svc.ListItems(ctx)
	if !equalStrings(names(items), []string{"c.mp4", "a.png", "b.png"}) {
		t.Errorf("after Reorder() = %v", names(items))
	}

	bad := [][]string{
		{a.ID, b.ID},
		{a.ID, a.ID, b.ID},
		{a.ID, b.ID, "missing"},
	}
	for _, ids := range bad {
		if err := svc.Reorder(ctx, ids); apperrors.CodeOf(err) != apperrors.CodeInput {
			t.Errorf("Reorder(%v) error = %v, want input error", ids, err)
		}
	}
}

func TestService_OnChange(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, 0, nil)
	ctx := context.Background()

	var calls int
	var last []Item
	svc.OnChange(func(items []Item) {
		calls++
		last = items
	})

	a, _ := svc.AddItem(ctx, KindImage, "a.png", 0)
	b, _ := svc.AddItem(ctx, KindImage, "b.png", 0)
	if calls != 2 || len(last) != 2 {
		t.Fatalf("after adds calls = %d, len = %d; want 2, 2", calls, len(last))
	}

	if err := svc.Reorder(ctx, []string{b.ID, a.ID}); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	if calls != 3 || last[0].ID != b.ID {
		t.Errorf("after reorder calls = %d, first = %s", calls, last[0].ID)
	}

	// a rejected change does not notify
	_ = svc.Reorder(ctx, []string{a.ID})
	if calls != 3 {
		t.Errorf("rejected reorder notified observers, calls = %d", calls)
	}

	if err := svc.RemoveItem(ctx, a.ID); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	if calls != 4 || len(last) != 1 {
		t.Errorf("after remove calls = %d, len = %d", calls, len(last))
	}
}

func TestService_ConcurrentAddsKeepDistinctPositions(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, 0, nil)
	ctx := context.Background()

	var mu sync.Mutex
	var lastLen int
	svc.OnChange(func(items []Item) {
		mu.Lock()
		defer mu.Unlock()
		if len(items) < lastLen {
			t.Errorf("observer saw %d items after %d", len(items), lastLen)
		}
		lastLen = len(items)
	})

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.AddItem(ctx, KindImage, fmt.Sprintf("drop-%02d.png", i), 0); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("AddItem() error = %v", err)
	}

	items, err := svc.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != n {
		t.Fatalf("len(items) = %d, want %d", len(items), n)
	}
	for i, it := range items {
		if it.Position != i {
			t.Errorf("items[%d].Position = %d, want %d", i, it.Position, i)
		}
	}
	if lastLen != n {
		t.Errorf("last notification had %d items, want %d", lastLen, n)
	}
}

func TestService_RemoveClosesGap(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, 0, nil)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		it, err := svc.AddItem(ctx, KindImage, name, 0)
		if err != nil {
			t.Fatalf("AddItem(%q) error = %v", name, err)
		}
		ids = append(ids, it.ID)
	}

	if err := svc.RemoveItem(ctx, ids[1]); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	if _, err := svc.AddItem(ctx, KindImage, "e.png", 0); err != nil {
		t.Fatalf("AddItem() after remove error = %v", err)
	}

	items, err := svc.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	want := []string{"a.png", "c.png", "d.png", "e.png"}
	if got := names(items); !equalStrings(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
	for i, it := range items {
		if it.Position != i {
			t.Errorf("items[%d].Position = %d, want %d", i, it.Position, i)
		}
	}
}
