package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"navippon/imgcache"
	"navippon/models"
)

// memKV is an in-memory stand-in for the redis-backed store.
type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memKV) Keys(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// stubCacher caches a fixed payload for every experience except the ones
// listed in fail.
type stubCacher struct {
	kv   KeyValueStore
	fail map[string]bool
}

func (c *stubCacher) CacheAll(ctx context.Context, experiences []models.Experience) []imgcache.Result {
	results := make([]imgcache.Result, 0, len(experiences))
	for _, exp := range experiences {
		if c.fail[exp.ExperienceID] {
			results = append(results, imgcache.Result{ExperienceID: exp.ExperienceID, Err: fmt.Errorf("simulated fetch failure")})
			continue
		}
		encoded := "data:image/jpeg;base64,ZmFrZQ=="
		if err := c.kv.Set(ctx, ImageKey(exp.ExperienceID), encoded); err != nil {
			results = append(results, imgcache.Result{ExperienceID: exp.ExperienceID, Err: err})
			continue
		}
		results = append(results, imgcache.Result{ExperienceID: exp.ExperienceID, Encoded: encoded})
	}
	return results
}

func testExperience(id string) *models.Experience {
	return &models.Experience{
		ExperienceID: id,
		Title:        "Exp " + id,
		Description:  "desc",
		Price:        1200,
		Prefecture:   "Tokyo",
		Categories:   []string{"food"},
		Photo:        "https://img.example/" + id + ".jpg",
		Rating:       4.5,
		Address:      "1-2-3 Somewhere",
	}
}

func testFixture() (*models.Itinerary, []models.Board) {
	start := "2026-04-01"
	boards := []models.Board{
		{
			BoardID:     "b1",
			DailyBudget: 5000,
			Favorites: []models.Favorite{
				{FavoriteID: "f1", ExperienceID: "e1", Experience: testExperience("e1")},
				{FavoriteID: "f2", ExperienceID: "e2", Experience: testExperience("e2")},
			},
		},
		{
			BoardID:     "b2",
			DailyBudget: 3000,
			Favorites: []models.Favorite{
				{FavoriteID: "f3", ExperienceID: "e3", Experience: testExperience("e3")},
			},
		},
	}
	it := &models.Itinerary{
		ItineraryID: "it1",
		Name:        "Spring Trip",
		TotalBudget: 80000,
		TravelDays:  2,
		StartDate:   &start,
		Creator:     "u1",
		Boards:      boards,
	}
	return it, boards
}

func TestSaveThenCheckStatus(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	store := NewStore(kv, &stubCacher{kv: kv})
	it, boards := testFixture()

	if _, err := store.Save(ctx, it, boards, it.StartDate); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, found, err := store.CheckStatus(ctx, "it1")
	if err != nil {
		t.Fatalf("checkStatus: %v", err)
	}
	if !found {
		t.Fatal("expected snapshot to be present after save")
	}
	if len(snap.Boards) != len(boards) {
		t.Fatalf("expected %d boards, got %d", len(boards), len(snap.Boards))
	}
	if snap.Version != models.SnapshotVersion {
		t.Fatalf("expected version %q, got %q", models.SnapshotVersion, snap.Version)
	}
	if snap.StartDate == nil || *snap.StartDate != *it.StartDate {
		t.Fatalf("start date not copied: %v", snap.StartDate)
	}

	// favorite order must match the source exactly
	wantOrder := []string{"f1", "f2"}
	for i, fav := range snap.Boards[0].Favorites {
		if fav.FavoriteID != wantOrder[i] {
			t.Fatalf("favorite %d: expected %s, got %s", i, wantOrder[i], fav.FavoriteID)
		}
	}
	if snap.Boards[0].Favorites[0].Experience.Title != "Exp e1" {
		t.Fatalf("reduced experience lost title: %+v", snap.Boards[0].Favorites[0].Experience)
	}
}

func TestRemoveDeletesSnapshotAndImages(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	store := NewStore(kv, &stubCacher{kv: kv})
	it, boards := testFixture()

	if _, err := store.Save(ctx, it, boards, it.StartDate); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Remove(ctx, "it1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, found, _ := store.CheckStatus(ctx, "it1"); found {
		t.Fatal("snapshot still present after remove")
	}
	for _, expID := range []string{"e1", "e2", "e3"} {
		if _, found, _ := kv.Get(ctx, ImageKey(expID)); found {
			t.Fatalf("cached image for %s survived remove", expID)
		}
	}

	// removing again is not an error
	if err := store.Remove(ctx, "it1"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestRemoveDeletesUndecodableSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	store := NewStore(kv, &stubCacher{kv: kv})

	kv.Set(ctx, ItineraryKey("it1"), "{not valid json")

	if err := store.Remove(ctx, "it1"); err != nil {
		t.Fatalf("remove of corrupt snapshot: %v", err)
	}
	if _, found, _ := kv.Get(ctx, ItineraryKey("it1")); found {
		t.Fatal("corrupt snapshot key survived remove")
	}
}

func TestClearAllLeavesUnrelatedKeys(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	store := NewStore(kv, &stubCacher{kv: kv})

	for i := 0; i < 3; i++ {
		it, boards := testFixture()
		it.ItineraryID = fmt.Sprintf("it%d", i)
		if _, err := store.Save(ctx, it, boards, it.StartDate); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	kv.Set(ctx, "onboardingCompleted", "true")

	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("clearAll: %v", err)
	}

	for _, pattern := range []string{"offline_itinerary_*", "offline_image_*"} {
		keys, _ := kv.Keys(ctx, pattern)
		if len(keys) != 0 {
			t.Fatalf("keys matching %s survived clearAll: %v", pattern, keys)
		}
	}
	if _, found, _ := kv.Get(ctx, "onboardingCompleted"); !found {
		t.Fatal("clearAll deleted an unrelated key")
	}
}

func TestImageFailureDoesNotAbortSave(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	store := NewStore(kv, &stubCacher{kv: kv, fail: map[string]bool{"e2": true}})
	it, boards := testFixture()

	if _, err := store.Save(ctx, it, boards, it.StartDate); err != nil {
		t.Fatalf("save should succeed despite an image failure: %v", err)
	}

	if _, found, _ := store.CheckStatus(ctx, "it1"); !found {
		t.Fatal("snapshot missing after save")
	}
	if _, found, _ := kv.Get(ctx, ImageKey("e1")); !found {
		t.Fatal("image e1 should have been cached")
	}
	if _, found, _ := kv.Get(ctx, ImageKey("e2")); found {
		t.Fatal("failed image e2 should not be cached")
	}
	if _, found, _ := kv.Get(ctx, ImageKey("e3")); !found {
		t.Fatal("image e3 should have been cached")
	}
}

func TestRepeatedSaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	store := NewStore(kv, &stubCacher{kv: kv})
	it, boards := testFixture()

	first, err := store.Save(ctx, it, boards, it.StartDate)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := store.Save(ctx, it, boards, it.StartDate)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	keys, _ := kv.Keys(ctx, "offline_itinerary_*")
	if len(keys) != 1 {
		t.Fatalf("expected exactly 1 snapshot key, got %v", keys)
	}

	// snapshots differ only in SavedAt
	a, b := *first, *second
	a.SavedAt, b.SavedAt = "", ""
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	if !reflect.DeepEqual(aj, bj) {
		t.Fatalf("snapshots differ beyond savedAt:\n%s\n%s", aj, bj)
	}
}

// blockingCacher parks CacheAll until released, to hold a save in flight.
type blockingCacher struct {
	started chan struct{}
	release chan struct{}
}

func (c *blockingCacher) CacheAll(context.Context, []models.Experience) []imgcache.Result {
	close(c.started)
	<-c.release
	return nil
}

func TestConcurrentSaveRejected(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	cacher := &blockingCacher{started: make(chan struct{}), release: make(chan struct{})}
	store := NewStore(kv, cacher)
	it, boards := testFixture()

	done := make(chan error, 1)
	go func() {
		_, err := store.Save(ctx, it, boards, it.StartDate)
		done <- err
	}()

	<-cacher.started
	if _, err := store.Save(ctx, it, boards, it.StartDate); err != ErrOperationInProgress {
		t.Fatalf("expected ErrOperationInProgress, got %v", err)
	}
	if err := store.Remove(ctx, "it1"); err != ErrOperationInProgress {
		t.Fatalf("expected ErrOperationInProgress from remove, got %v", err)
	}

	close(cacher.release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first save: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for first save")
	}

	// guard released, a fresh save goes through
	store.images = &stubCacher{kv: kv}
	if _, err := store.Save(ctx, it, boards, it.StartDate); err != nil {
		t.Fatalf("save after release: %v", err)
	}
}

func TestUsageIsAdvisoryKilobytes(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	store := NewStore(kv, nil)

	kv.Set(ctx, ItineraryKey("x"), strings.Repeat("a", 4096))
	kv.Set(ctx, "unrelated", strings.Repeat("b", 4096))

	kb, err := store.Usage(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if kb != 4 {
		t.Fatalf("expected 4 KB, got %d", kb)
	}
}
