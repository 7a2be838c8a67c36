package corpus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const microdataHTML = `
<html>
	<head><script>alert('noise');</script><title>Fallback Title</title></head>
	<body>
		<h1 itemprop="name">Chicken Quinoa Bowl</h1>
		<p itemprop="description">A protein-heavy lunch bowl.</p>
		<span itemprop="recipeCategory">Lunch</span>
		<span itemprop="recipeCategory">Dinner</span>
		<div>
			<span itemprop="calories">520 kcal</span>
			<span itemprop="proteinContent">42 g</span>
			<span itemprop="carbohydrateContent">55 g</span>
			<span itemprop="fatContent">14 g</span>
		</div>
		<footer>Copyright 2024</footer>
	</body>
</html>`

const tableHTML = `
<html>
	<body>
		<h1>Overnight Oats</h1>
		<table>
			<tr><td>Calories</td><td>310</td></tr>
			<tr><td>Protein</td><td>12.5 g</td></tr>
			<tr><td>Carbohydrates</td><td>48 g</td></tr>
			<tr><td>Fat</td><td>8 g</td></tr>
		</table>
	</body>
</html>`

func TestParse_Microdata(t *testing.T) {
	clipper := NewClipper()

	rec, err := clipper.Parse(strings.NewReader(microdataHTML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if rec.Name != "Chicken Quinoa Bowl" {
		t.Errorf("Expected name 'Chicken Quinoa Bowl', got '%s'", rec.Name)
	}
	if rec.Description != "A protein-heavy lunch bowl." {
		t.Errorf("Unexpected description '%s'", rec.Description)
	}
	if rec.BaseCalories != 520 {
		t.Errorf("Expected 520 calories, got %v", rec.BaseCalories)
	}
	if rec.Macros.ProteinG != 42 || rec.Macros.CarbsG != 55 || rec.Macros.FatG != 14 {
		t.Errorf("Unexpected macros: %+v", rec.Macros)
	}
	if len(rec.MealTypes) != 2 || rec.MealTypes[0] != "lunch" || rec.MealTypes[1] != "dinner" {
		t.Errorf("Expected meal types [lunch dinner], got %v", rec.MealTypes)
	}
	if rec.ID == "" {
		t.Error("Expected a generated recipe ID")
	}
	if !rec.Visible {
		t.Error("Expected clipped recipe to be visible")
	}
}

func TestParse_NutritionTableFallback(t *testing.T) {
	clipper := NewClipper()

	rec, err := clipper.Parse(strings.NewReader(tableHTML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if rec.Name != "Overnight Oats" {
		t.Errorf("Expected name 'Overnight Oats', got '%s'", rec.Name)
	}
	if rec.BaseCalories != 310 {
		t.Errorf("Expected 310 calories, got %v", rec.BaseCalories)
	}
	if rec.Macros.ProteinG != 12.5 {
		t.Errorf("Expected 12.5g protein, got %v", rec.Macros.ProteinG)
	}
}

func TestParse_RejectsPageWithoutCalories(t *testing.T) {
	clipper := NewClipper()

	_, err := clipper.Parse(strings.NewReader(`<html><body><h1>Just a Title</h1></body></html>`))
	if err == nil {
		t.Fatal("Expected an error for a page without calories, got nil")
	}
}

func TestClipURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(microdataHTML))
	}))
	defer ts.Close()

	clipper := NewClipper()
	rec, err := clipper.ClipURL(ts.URL)
	if err != nil {
		t.Fatalf("ClipURL failed: %v", err)
	}
	if rec.Name != "Chicken Quinoa Bowl" {
		t.Errorf("Expected name 'Chicken Quinoa Bowl', got '%s'", rec.Name)
	}
}

func TestClipURL_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	clipper := NewClipper()
	if _, err := clipper.ClipURL(ts.URL); err == nil {
		t.Fatal("Expected an error for a 404 response, got nil")
	}
}
