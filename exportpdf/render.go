package exportpdf

import (
	"bytes"
	"fmt"
	"log"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"navippon/imgcache"
)

const (
	pageWidth    = 210.0 // A4, mm
	pageHeight   = 297.0
	pageMargin   = 15.0
	contentWidth = pageWidth - 2*pageMargin
)

// Render lays the document out onto A4 pages. Content flows top to bottom
// and a new page starts whenever the next block does not fit in the
// remaining height, so the final page may be partial. images maps
// experience ids to cached data URLs; a missing entry just means the card
// renders without a photo.
func Render(doc *Document, images map[string]string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 6, fmt.Sprintf("Navippon - page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	renderHeader(pdf, tr, doc)
	renderOverview(pdf, tr, doc.Overview)

	for _, day := range doc.Days {
		renderDay(pdf, tr, day, images)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ensureSpace starts a new page when the next block of height h would run
// past the bottom margin.
func ensureSpace(pdf *gofpdf.Fpdf, h float64) {
	if pdf.GetY()+h > pageHeight-pageMargin {
		pdf.AddPage()
	}
}

func renderHeader(pdf *gofpdf.Fpdf, tr func(string) string, doc *Document) {
	if doc.Link != "" {
		if qr, err := qrcode.Encode(doc.Link, qrcode.Medium, 256); err == nil {
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qr))
			pdf.ImageOptions("qr", pageWidth-pageMargin-22, pageMargin, 22, 22, false, opts, 0, "")
		} else {
			log.Printf("exportpdf: qr generation skipped: %v", err)
		}
	}

	title := doc.Title
	if title == "" {
		title = "Itinerary"
	}
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(contentWidth-25, 12, tr(title), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(contentWidth-25, 6, "Generated "+doc.GeneratedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(8)
}

func renderOverview(pdf *gofpdf.Fpdf, tr func(string) string, ov Overview) {
	pdf.SetFillColor(240, 245, 255)
	pdf.SetTextColor(50, 50, 50)
	pdf.SetFont("Arial", "", 11)

	lines := []string{
		"Start date: " + ov.StartDateLabel,
		fmt.Sprintf("Days: %d", ov.DayCount),
		fmt.Sprintf("Experiences: %d", ov.ExperienceCount),
		tr(fmt.Sprintf("Total budget: ¥ %.0f", ov.TotalBudget)),
	}
	for _, line := range lines {
		pdf.CellFormat(contentWidth, 7, line, "", 1, "L", true, 0, "")
	}
	pdf.Ln(6)
}

func renderDay(pdf *gofpdf.Fpdf, tr func(string) string, day DaySection, images map[string]string) {
	ensureSpace(pdf, 14)

	header := fmt.Sprintf("Day %d", day.Index)
	if day.DateLabel != "" {
		header += " - " + day.DateLabel
	}
	if day.DailyBudget > 0 {
		header += tr(fmt.Sprintf("   (budget ¥ %.0f)", day.DailyBudget))
	}

	pdf.SetFillColor(200, 30, 45)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(contentWidth, 9, header, "", 1, "L", true, 0, "")
	pdf.Ln(2)

	if day.Placeholder != "" {
		ensureSpace(pdf, 10)
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(contentWidth, 8, day.Placeholder, "", 1, "L", false, 0, "")
		pdf.Ln(3)
		return
	}

	for _, card := range day.Cards {
		renderCard(pdf, tr, card, images[card.ExperienceID])
	}
	pdf.Ln(3)
}

func renderCard(pdf *gofpdf.Fpdf, tr func(string) string, card Card, encoded string) {
	const imgW, imgH = 26.0, 20.0

	textX := pageMargin + 4
	textW := contentWidth - 8
	hasImage := encoded != ""
	if hasImage {
		textX += imgW + 4
		textW -= imgW + 4
	}

	pdf.SetFont("Arial", "", 9)
	descLines := pdf.SplitText(tr(card.Description), textW)
	if len(descLines) > 4 {
		descLines = descLines[:4]
	}

	cardH := 6.0 + 4.0 + float64(len(descLines))*4.5 + 2.0
	if len(card.Badges) > 0 {
		cardH += 7
	}
	if hasImage && cardH < imgH+6 {
		cardH = imgH + 6
	}
	ensureSpace(pdf, cardH+2)

	top := pdf.GetY()
	pdf.SetDrawColor(220, 220, 220)
	pdf.Rect(pageMargin, top, contentWidth, cardH, "D")

	if hasImage {
		if raw, err := imgcache.DecodeDataURL(encoded); err == nil {
			opts := gofpdf.ImageOptions{ImageType: "JPG"}
			pdf.RegisterImageOptionsReader("exp_"+card.ExperienceID, opts, bytes.NewReader(raw))
			pdf.ImageOptions("exp_"+card.ExperienceID, pageMargin+3, top+3, imgW, imgH, false, opts, 0, "")
		} else {
			log.Printf("exportpdf: bad cached image for %s: %v", card.ExperienceID, err)
		}
	}

	pdf.SetXY(textX, top+2)
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(textW, 6, tr(card.Title), "", 2, "L", false, 0, "")

	if card.Prefecture != "" {
		pdf.SetX(textX)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(textW, 4, tr(card.Prefecture), "", 2, "L", false, 0, "")
	}

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(70, 70, 70)
	for _, line := range descLines {
		pdf.SetX(textX)
		pdf.CellFormat(textW, 4.5, line, "", 2, "L", false, 0, "")
	}

	if len(card.Badges) > 0 {
		pdf.SetXY(textX, top+cardH-7)
		pdf.SetFont("Arial", "B", 8)
		for _, badge := range card.Badges {
			w := pdf.GetStringWidth(tr(badge)) + 6
			pdf.SetFillColor(240, 240, 240)
			pdf.SetTextColor(60, 60, 60)
			pdf.CellFormat(w, 5, tr(badge), "", 0, "C", true, 0, "")
			pdf.CellFormat(2, 5, "", "", 0, "L", false, 0, "")
		}
	}

	pdf.SetXY(pageMargin, top+cardH+2)
}
