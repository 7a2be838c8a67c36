package corpus

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Clipper fetches a recipe page and extracts the corpus fields from its
// markup. It understands schema.org Recipe microdata and falls back to a
// labelled nutrition-facts table.
type Clipper struct {
	httpClient *http.Client
}

// NewClipper creates a new Clipper instance.
func NewClipper() *Clipper {
	return &Clipper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ClipURL fetches the URL and extracts a corpus recipe from it.
func (c *Clipper) ClipURL(url string) (*Recipe, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	return c.Parse(resp.Body)
}

// Parse extracts a recipe from an HTML document.
func (c *Clipper) Parse(body io.Reader) (*Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Remove noise before scanning for labelled values
	doc.Find("script, style, nav, footer, iframe").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	rec := &Recipe{
		ID:      uuid.NewString(),
		Visible: true,
	}

	rec.Name = firstText(doc, `[itemprop="name"]`, "h1", "title")
	rec.Description = firstText(doc, `[itemprop="description"]`, `meta[name="description"]`)
	if rec.Name == "" {
		return nil, fmt.Errorf("page has no recipe name")
	}

	rec.BaseCalories = c.nutrientValue(doc, `[itemprop="calories"]`, "calories")
	rec.Macros.ProteinG = c.nutrientValue(doc, `[itemprop="proteinContent"]`, "protein")
	rec.Macros.CarbsG = c.nutrientValue(doc, `[itemprop="carbohydrateContent"]`, "carbohydrate")
	rec.Macros.FatG = c.nutrientValue(doc, `[itemprop="fatContent"]`, "fat")

	if rec.BaseCalories <= 0 {
		return nil, fmt.Errorf("page has no usable calorie value")
	}

	doc.Find(`[itemprop="recipeCategory"]`).Each(func(i int, s *goquery.Selection) {
		tag := strings.ToLower(strings.TrimSpace(s.Text()))
		if tag != "" {
			rec.MealTypes = append(rec.MealTypes, tag)
		}
	})

	return rec, nil
}

// nutrientValue reads a numeric nutrient, preferring microdata and falling
// back to a "<label> ... <number>" row anywhere in the document.
func (c *Clipper) nutrientValue(doc *goquery.Document, selector, label string) float64 {
	if v, ok := parseNumber(doc.Find(selector).First().Text()); ok {
		return v
	}

	var value float64
	doc.Find("tr, li, p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.ToLower(s.Text())
		if !strings.Contains(text, label) {
			return true
		}
		if v, ok := parseNumber(text); ok {
			value = v
			return false
		}
		return true
	})
	return value
}

func parseNumber(text string) (float64, bool) {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func firstText(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if content, ok := sel.Attr("content"); ok {
			return strings.TrimSpace(content)
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
	}
	return ""
}
