// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pdiddy/post-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(types.StoreConfig{
		Enabled: true,
		DBPath:  filepath.Join(t.TempDir(), "posts.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePost(word string) *types.WordPost {
	return &types.WordPost{
		Word:            word,
		Title:           "📚 今天学单词：" + word,
		Tags:            []string{"英语学习", "记单词"},
		ImageSuggestion: "明亮的静物",
	}
}

func TestRecordPostAndHasPosted(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	posted, err := s.HasPosted(ctx, "banana", "CET-4", "v1")
	if err != nil {
		t.Fatal(err)
	}
	if posted {
		t.Fatal("fresh store must report not posted")
	}

	id, err := s.RecordPost(ctx, samplePost("banana"), "CET-4", "v1", "https://example.com/n/1")
	if err != nil {
		t.Fatal(err)
	}
	if id <= 0 {
		t.Fatalf("id = %d", id)
	}

	posted, err = s.HasPosted(ctx, "banana", "CET-4", "v1")
	if err != nil {
		t.Fatal(err)
	}
	if !posted {
		t.Error("recorded post must be reported as posted")
	}

	// Different level or prompt version is a different dedup key.
	for _, tt := range []struct{ level, version string }{
		{"CET-6", "v1"},
		{"CET-4", "v2"},
	} {
		posted, err := s.HasPosted(ctx, "banana", tt.level, tt.version)
		if err != nil {
			t.Fatal(err)
		}
		if posted {
			t.Errorf("(%s, %s) must not match", tt.level, tt.version)
		}
	}
}

func TestRecordPostCreatesInteractionsStub(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.RecordPost(ctx, samplePost("apple"), "CET-4", "v1", "")
	if err != nil {
		t.Fatal(err)
	}

	posts, err := s.RecentPosts(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Fatalf("len = %d", len(posts))
	}
	p := posts[0]
	if p.ID != id || p.Word != "apple" || p.Level != "CET-4" || p.PromptVersion != "v1" {
		t.Errorf("record = %+v", p)
	}
	if p.Likes != 0 || p.Favorites != 0 || p.Comments != 0 || p.Views != 0 {
		t.Errorf("stub counters must be zero: %+v", p)
	}
	if want := []string{"英语学习", "记单词"}; !reflect.DeepEqual(p.Tags, want) {
		t.Errorf("Tags = %#v, want %#v", p.Tags, want)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt must parse")
	}
}

func TestUpdateInteractions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.RecordPost(ctx, samplePost("cherry"), "CET-4", "v1", "")
	if err != nil {
		t.Fatal(err)
	}

	likes, views := 12, 340
	found, err := s.UpdateInteractions(ctx, id, InteractionUpdate{Likes: &likes, Views: &views})
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("update must find the stub row")
	}

	posts, err := s.RecentPosts(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	p := posts[0]
	if p.Likes != 12 || p.Views != 340 {
		t.Errorf("counters = %+v", p)
	}
	if p.Favorites != 0 || p.Comments != 0 {
		t.Errorf("untouched counters must stay zero: %+v", p)
	}
}

func TestUpdateInteractionsMissingPost(t *testing.T) {
	s := testStore(t)

	likes := 1
	found, err := s.UpdateInteractions(context.Background(), 999, InteractionUpdate{Likes: &likes})
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("update of a missing post must report not found")
	}
}

func TestUpdateInteractionsEmpty(t *testing.T) {
	s := testStore(t)

	found, err := s.UpdateInteractions(context.Background(), 1, InteractionUpdate{})
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("empty update must be a no-op")
	}
}

func TestRecentPostsOrderAndLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, w := range []string{"one", "two", "three"} {
		if _, err := s.RecordPost(ctx, samplePost(w), "CET-4", "v1", ""); err != nil {
			t.Fatal(err)
		}
	}

	posts, err := s.RecentPosts(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 {
		t.Fatalf("len = %d, want 2", len(posts))
	}
	if posts[0].Word != "three" || posts[1].Word != "two" {
		t.Errorf("order = [%s %s], want newest first", posts[0].Word, posts[1].Word)
	}
}

func TestComparePromptVersions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	idA, _ := s.RecordPost(ctx, samplePost("alpha"), "CET-4", "v1", "")
	idB, _ := s.RecordPost(ctx, samplePost("beta"), "CET-4", "v2", "")
	idC, _ := s.RecordPost(ctx, samplePost("gamma"), "CET-4", "v2", "")

	set := func(id int64, likes int) {
		if _, err := s.UpdateInteractions(ctx, id, InteractionUpdate{Likes: &likes}); err != nil {
			t.Fatal(err)
		}
	}
	set(idA, 10)
	set(idB, 3)
	set(idC, 4)

	stats, err := s.ComparePromptVersions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("len = %d, want 2", len(stats))
	}
	if stats[0].Key != "v1" || stats[0].TotalPosts != 1 || stats[0].AvgLikes != 10 {
		t.Errorf("stats[0] = %+v", stats[0])
	}
	if stats[1].Key != "v2" || stats[1].TotalPosts != 2 || stats[1].AvgLikes != 3.5 {
		t.Errorf("stats[1] = %+v", stats[1])
	}
}

func TestCompareLevels(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	s.RecordPost(ctx, samplePost("alpha"), "CET-4", "v1", "")
	s.RecordPost(ctx, samplePost("beta"), "CET-6", "v1", "")
	// A legacy run without a level must be excluded.
	s.RecordPost(ctx, samplePost("gamma"), "", "v1", "")

	stats, err := s.CompareLevels(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("len = %d, want 2", len(stats))
	}
	for _, g := range stats {
		if g.Key == "" {
			t.Errorf("NULL level leaked into stats: %+v", g)
		}
	}
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	s.RecordPost(ctx, samplePost("delta"), "CET-4", "v1", "")

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "export.yaml")
	jsonPath := filepath.Join(dir, "export.json")

	if err := s.ExportYAML(ctx, yamlPath, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.ExportJSON(ctx, jsonPath, 0); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{yamlPath, jsonPath} {
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Errorf("export %s missing or empty: %v", p, err)
		}
	}
}
