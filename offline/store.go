package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"navippon/imgcache"
	"navippon/models"
)

const (
	itineraryKeyPrefix = "offline_itinerary_"
	imageKeyPrefix     = "offline_image_"
)

// ErrOperationInProgress is returned when a save or remove is already
// running for the same itinerary id.
var ErrOperationInProgress = errors.New("offline operation already in progress for this itinerary")

// KeyValueStore is the persistent store the snapshots live in. Get reports
// absence via its bool; Keys takes a glob pattern with a trailing `*`.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// ImageCacher mirrors experience images into the store, best-effort.
type ImageCacher interface {
	CacheAll(ctx context.Context, experiences []models.Experience) []imgcache.Result
}

// Store keeps a user-controlled local mirror of itinerary trip data so it
// can be read without the backing services.
type Store struct {
	kv     KeyValueStore
	images ImageCacher

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewStore(kv KeyValueStore, images ImageCacher) *Store {
	return &Store{
		kv:       kv,
		images:   images,
		inFlight: make(map[string]bool),
	}
}

func ItineraryKey(itineraryID string) string {
	return itineraryKeyPrefix + itineraryID
}

func ImageKey(experienceID string) string {
	return imageKeyPrefix + experienceID
}

// begin marks an itinerary id as busy. Mutating operations on one id are
// rejected while another is running instead of racing last-write-wins.
func (s *Store) begin(itineraryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[itineraryID] {
		return ErrOperationInProgress
	}
	s.inFlight[itineraryID] = true
	return nil
}

func (s *Store) end(itineraryID string) {
	s.mu.Lock()
	delete(s.inFlight, itineraryID)
	s.mu.Unlock()
}

// CheckStatus looks up the persisted snapshot for an itinerary. Absence is
// not an error.
func (s *Store) CheckStatus(ctx context.Context, itineraryID string) (*models.ItinerarySnapshot, bool, error) {
	raw, found, err := s.kv.Get(ctx, ItineraryKey(itineraryID))
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	var snap models.ItinerarySnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, true, nil
}

// Save builds a fresh snapshot of the itinerary, mirrors the favorite
// images (best-effort, failures are skipped), then persists the snapshot
// whole. A previously stored snapshot for the same id is only replaced
// after serialization succeeds.
func (s *Store) Save(ctx context.Context, it *models.Itinerary, boards []models.Board, startDate *string) (*models.ItinerarySnapshot, error) {
	if err := s.begin(it.ItineraryID); err != nil {
		return nil, err
	}
	defer s.end(it.ItineraryID)

	snap := newSnapshot(it, boards, startDate, time.Now())

	if s.images != nil {
		var experiences []models.Experience
		for _, board := range boards {
			for _, fav := range board.Favorites {
				if fav.Experience != nil {
					experiences = append(experiences, *fav.Experience)
				}
			}
		}
		// The batch settles fully before the snapshot is written, but the
		// snapshot never depends on image cache completeness.
		results := s.images.CacheAll(ctx, experiences)
		for _, res := range results {
			if res.Err != nil {
				log.Printf("offline: image cache skipped for %s: %v", res.ExperienceID, res.Err)
			}
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("serialize snapshot: %w", err)
	}

	if err := s.kv.Set(ctx, ItineraryKey(it.ItineraryID), string(data)); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	return snap, nil
}

// Remove deletes the snapshot and every image cached for its favorites.
// Removing a non-existent snapshot is not an error.
func (s *Store) Remove(ctx context.Context, itineraryID string) error {
	if err := s.begin(itineraryID); err != nil {
		return err
	}
	defer s.end(itineraryID)

	raw, found, err := s.kv.Get(ctx, ItineraryKey(itineraryID))
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if found {
		// A snapshot that no longer decodes must still be removable; its
		// cached images are swept later by ClearAll.
		var snap models.ItinerarySnapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			log.Printf("offline: removing undecodable snapshot %s: %v", itineraryID, err)
		} else {
			for _, board := range snap.Boards {
				for _, fav := range board.Favorites {
					if err := s.kv.Delete(ctx, ImageKey(fav.Experience.ExperienceID)); err != nil {
						log.Printf("offline: failed to delete cached image %s: %v", fav.Experience.ExperienceID, err)
					}
				}
			}
		}
	}

	if err := s.kv.Delete(ctx, ItineraryKey(itineraryID)); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// ClearAll deletes every snapshot and cached image. Keys outside the two
// offline prefixes are never touched.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, pattern := range []string{itineraryKeyPrefix + "*", imageKeyPrefix + "*"} {
		keys, err := s.kv.Keys(ctx, pattern)
		if err != nil {
			return fmt.Errorf("scan offline keys: %w", err)
		}
		for _, key := range keys {
			if err := s.kv.Delete(ctx, key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
	}
	return nil
}

// Usage reports the stored size of all offline data in kilobytes. This is
// a character-count approximation, advisory UI feedback only, not a
// capacity enforcement mechanism.
func (s *Store) Usage(ctx context.Context) (int64, error) {
	var total int64
	for _, pattern := range []string{itineraryKeyPrefix + "*", imageKeyPrefix + "*"} {
		keys, err := s.kv.Keys(ctx, pattern)
		if err != nil {
			return 0, fmt.Errorf("scan offline keys: %w", err)
		}
		for _, key := range keys {
			val, found, err := s.kv.Get(ctx, key)
			if err != nil {
				return 0, err
			}
			if found {
				total += int64(len(val))
			}
		}
	}
	return total / 1024, nil
}

// newSnapshot denormalizes the live itinerary and boards into the persisted
// schema, dropping every experience field outside the reduced set. Board
// and favorite order is preserved exactly.
func newSnapshot(it *models.Itinerary, boards []models.Board, startDate *string, now time.Time) *models.ItinerarySnapshot {
	boardSnaps := make([]models.BoardSnapshot, 0, len(boards))
	for _, board := range boards {
		favs := make([]models.FavoriteSnapshot, 0, len(board.Favorites))
		for _, fav := range board.Favorites {
			var exp models.ExperienceSnapshot
			if fav.Experience != nil {
				exp = fav.Experience.Reduce()
			} else {
				exp = models.ExperienceSnapshot{ExperienceID: fav.ExperienceID}
			}
			favs = append(favs, models.FavoriteSnapshot{
				FavoriteID: fav.FavoriteID,
				Experience: exp,
			})
		}
		boardSnaps = append(boardSnaps, models.BoardSnapshot{
			BoardID:     board.BoardID,
			Date:        board.Date,
			DailyBudget: board.DailyBudget,
			Favorites:   favs,
		})
	}

	return &models.ItinerarySnapshot{
		ItineraryID: it.ItineraryID,
		Name:        it.Name,
		TotalBudget: it.TotalBudget,
		TravelDays:  it.TravelDays,
		StartDate:   startDate,
		IsPrivate:   it.IsPrivate,
		Creator:     it.Creator,
		Travelers:   it.Travelers,
		Boards:      boardSnaps,
		SavedAt:     now.UTC().Format(time.RFC3339),
		Version:     models.SnapshotVersion,
	}
}
