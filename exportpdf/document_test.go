package exportpdf

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"navippon/models"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Tokyo & Kyoto!!", "tokyo___kyoto__"},
		{"Osaka 2026", "osaka_2026"},
		{"nara", "nara"},
		{"", "itinerario"},
		{"   ", "itinerario"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Fatalf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFilename(t *testing.T) {
	date := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	if got := Filename("Tokyo & Kyoto!!", date); got != "tokyo___kyoto___2026-04-01.pdf" {
		t.Fatalf("unexpected filename: %q", got)
	}
	if got := Filename("", date); got != "itinerario_2026-04-01.pdf" {
		t.Fatalf("unexpected fallback filename: %q", got)
	}
}

func docFixture() (*models.Itinerary, []models.Board) {
	start := "2026-04-01"
	boards := []models.Board{
		{
			BoardID:     "b1",
			DailyBudget: 5000,
			Favorites: []models.Favorite{
				{FavoriteID: "f1", Experience: &models.Experience{
					ExperienceID: "e1",
					Title:        "Senso-ji",
					Prefecture:   "Tokyo",
					Description:  "Ancient Buddhist temple in Asakusa.",
					Price:        0,
					Categories:   []string{"temple"},
					Rating:       4.7,
				}},
				{FavoriteID: "f2", Experience: &models.Experience{
					ExperienceID: "e2",
					Title:        "Sushi Dai",
					Prefecture:   "Tokyo",
					Description:  "Famous sushi counter near the old fish market.",
					Price:        4500,
				}},
			},
		},
		{BoardID: "b2", DailyBudget: 0}, // nothing planned
	}
	it := &models.Itinerary{
		ItineraryID: "it1",
		Name:        "Golden Week",
		TotalBudget: 120000,
		TravelDays:  2,
		StartDate:   &start,
	}
	return it, boards
}

func TestBuildDocument(t *testing.T) {
	it, boards := docFixture()
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)

	doc := BuildDocument(it, boards, it.StartDate, "https://navippon.app/itineraries/it1", now)

	if doc.Overview.DayCount != 2 {
		t.Fatalf("day count = %d, want 2", doc.Overview.DayCount)
	}
	if doc.Overview.ExperienceCount != 2 {
		t.Fatalf("experience count = %d, want 2", doc.Overview.ExperienceCount)
	}
	if doc.Overview.StartDateLabel != "Wednesday, April 1, 2026" {
		t.Fatalf("start date label = %q", doc.Overview.StartDateLabel)
	}

	if len(doc.Days) != 2 {
		t.Fatalf("expected 2 day sections, got %d", len(doc.Days))
	}

	day1 := doc.Days[0]
	if day1.Index != 1 || day1.DateLabel != "Wed, 01 Apr 2026" {
		t.Fatalf("day 1 header wrong: %+v", day1)
	}
	if len(day1.Cards) != 2 || day1.Cards[0].Title != "Senso-ji" || day1.Cards[1].Title != "Sushi Dai" {
		t.Fatalf("card order not preserved: %+v", day1.Cards)
	}

	// badges only for present fields: no price badge for a free temple
	for _, badge := range day1.Cards[0].Badges {
		if strings.Contains(badge, "¥") {
			t.Fatalf("free experience got a price badge: %v", day1.Cards[0].Badges)
		}
	}
	if len(day1.Cards[1].Badges) != 1 || !strings.Contains(day1.Cards[1].Badges[0], "4500") {
		t.Fatalf("priced experience badges wrong: %v", day1.Cards[1].Badges)
	}

	// the empty board keeps its section and carries the placeholder the
	// renderer prints instead of cards
	if len(doc.Days[1].Cards) != 0 {
		t.Fatalf("empty day should have no cards: %+v", doc.Days[1])
	}
	if doc.Days[1].Placeholder != EmptyDayPlaceholder {
		t.Fatalf("empty day placeholder = %q, want %q", doc.Days[1].Placeholder, EmptyDayPlaceholder)
	}
	if day1.Placeholder != "" {
		t.Fatalf("day with cards should have no placeholder: %q", day1.Placeholder)
	}
}

func TestBuildDocumentNoStartDate(t *testing.T) {
	it, boards := docFixture()
	doc := BuildDocument(it, boards, nil, "", time.Now())
	if doc.Overview.StartDateLabel != "Date not set" {
		t.Fatalf("start date label = %q", doc.Overview.StartDateLabel)
	}
	if doc.Days[0].DateLabel != "" {
		t.Fatalf("day without start date should have no date label: %q", doc.Days[0].DateLabel)
	}
}

func testDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 12, 9))
	for x := 0; x < 12; x++ {
		for y := 0; y < 9; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 60, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRenderProducesPDF(t *testing.T) {
	it, boards := docFixture()
	doc := BuildDocument(it, boards, it.StartDate, "https://navippon.app/itineraries/it1", time.Now())

	images := map[string]string{"e1": testDataURL(t)}
	out, err := Render(doc, images)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF, starts with %.8q", out)
	}
	if len(out) < 1000 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestRenderPaginatesLongItineraries(t *testing.T) {
	start := "2026-04-01"
	var boards []models.Board
	for d := 0; d < 14; d++ {
		board := models.Board{BoardID: "b", DailyBudget: 4000}
		for f := 0; f < 5; f++ {
			board.Favorites = append(board.Favorites, models.Favorite{
				FavoriteID: "f",
				Experience: &models.Experience{
					ExperienceID: "e",
					Title:        "Some place",
					Prefecture:   "Kyoto",
					Description:  strings.Repeat("A long description of the experience. ", 6),
					Price:        1000,
					Rating:       4.2,
				},
			})
		}
		boards = append(boards, board)
	}
	it := &models.Itinerary{ItineraryID: "long", Name: "Long Trip", TravelDays: 14, StartDate: &start}

	doc := BuildDocument(it, boards, it.StartDate, "", time.Now())
	out, err := Render(doc, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// 70 cards cannot fit on one A4 page; a single-page document has one
	// "/Type /Page" object plus the "/Type /Pages" root
	if count := bytes.Count(out, []byte("/Type /Page")); count < 3 {
		t.Fatalf("expected a multi-page document, got %d page objects", count-1)
	}
}
