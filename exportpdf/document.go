package exportpdf

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"navippon/models"
)

// EmptyDayPlaceholder is rendered for a board with zero favorites so a day
// never disappears from the exported document.
const EmptyDayPlaceholder = "No experiences planned for this day"

// Document is the structured view of an itinerary fed to the renderer.
// Building it is a pure step so layout is testable without a PDF surface.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Link        string
	Overview    Overview
	Days        []DaySection
}

type Overview struct {
	StartDateLabel  string
	DayCount        int
	ExperienceCount int
	TotalBudget     float64
}

type DaySection struct {
	Index       int // 1-based day number
	DateLabel   string
	DailyBudget float64
	Cards       []Card
	Placeholder string // set instead of cards when the day has none
}

type Card struct {
	ExperienceID string
	Title        string
	Prefecture   string
	Description  string
	Badges       []string
}

// BuildDocument denormalizes the live itinerary and boards into the view
// model, in day order, favorites in insertion order.
func BuildDocument(it *models.Itinerary, boards []models.Board, startDate *string, link string, now time.Time) *Document {
	doc := &Document{
		Title:       it.Name,
		GeneratedAt: now,
		Link:        link,
	}

	var start time.Time
	var hasStart bool
	if startDate != nil {
		if parsed, err := time.Parse("2006-01-02", *startDate); err == nil {
			start = parsed
			hasStart = true
		}
	}

	startLabel := "Date not set"
	if hasStart {
		startLabel = start.Format("Monday, January 2, 2006")
	}

	total := 0
	for i, board := range boards {
		section := DaySection{
			Index:       i + 1,
			DailyBudget: board.DailyBudget,
		}
		if hasStart {
			section.DateLabel = start.AddDate(0, 0, i).Format("Mon, 02 Jan 2006")
		}
		for _, fav := range board.Favorites {
			if fav.Experience == nil {
				continue
			}
			section.Cards = append(section.Cards, buildCard(fav.Experience))
			total++
		}
		if len(section.Cards) == 0 {
			section.Placeholder = EmptyDayPlaceholder
		}
		doc.Days = append(doc.Days, section)
	}

	doc.Overview = Overview{
		StartDateLabel:  startLabel,
		DayCount:        len(boards),
		ExperienceCount: total,
		TotalBudget:     it.TotalBudget,
	}
	return doc
}

// buildCard keeps only present fields; absent price, category or rating
// produces no badge rather than an empty one.
func buildCard(exp *models.Experience) Card {
	card := Card{
		ExperienceID: exp.ExperienceID,
		Title:        exp.Title,
		Prefecture:   exp.Prefecture,
		Description:  exp.Description,
	}
	if exp.Price > 0 {
		card.Badges = append(card.Badges, fmt.Sprintf("¥ %.0f", exp.Price))
	}
	if len(exp.Categories) > 0 && exp.Categories[0] != "" {
		card.Badges = append(card.Badges, exp.Categories[0])
	}
	if exp.Rating > 0 {
		card.Badges = append(card.Badges, fmt.Sprintf("%.1f / 5", exp.Rating))
	}
	return card
}

var nonSlugPattern = regexp.MustCompile(`[^a-z0-9]`)

// Slugify lowercases the name and replaces every character outside
// [a-z0-9] with an underscore. An empty name falls back to "itinerario".
func Slugify(name string) string {
	if strings.TrimSpace(name) == "" {
		return "itinerario"
	}
	return nonSlugPattern.ReplaceAllString(strings.ToLower(name), "_")
}

// Filename builds the download name: <slug>_<YYYY-MM-DD>.pdf
func Filename(name string, date time.Time) string {
	return fmt.Sprintf("%s_%s.pdf", Slugify(name), date.Format("2006-01-02"))
}
