package services

import (
	"testing"

	"chegoou/models"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Açaí", "acai"},
		{"  Pizza Hut  ", "pizza hut"},
		{"HAMBÚRGUER", "hamburguer"},
		{"São João", "sao joao"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeText(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := NormalizeText(got); again != got {
			t.Errorf("NormalizeText not idempotent: %q -> %q", got, again)
		}
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "sushi", 5},
		{"sushi", "", 5},
		{"sushi", "sushi", 0},
		{"sushi", "sashi", 1},
		{"sushi", "sashe", 2},
		{"hamburguer", "hamburgeur", 2},
		{"kitten", "sitting", 3},
		{"açaí", "acai", 2},
	}
	for _, tt := range tests {
		if got := EditDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("EditDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIsMatch(t *testing.T) {
	tests := []struct {
		name          string
		source, query string
		want          bool
	}{
		{"empty query", "Pizza Hut", "", false},
		{"empty source", "", "pizza", false},
		{"substring beats fuzzy", "Pizza Hut", "pizza", true},
		{"substring after normalization", "Açaí do Centro", "acai", true},
		{"short query substring still matches", "Açaí", "ac", true},
		{"short word never fuzzy matched", "Sushi", "ab", false},
		{"three letters budget one", "Pizza", "pzz", false},
		{"typo within budget two", "Hamburguer", "Hamburgeur", true},
		{"typo within budget one", "Sushi", "Sashi", true},
		{"typo beyond budget one", "Sushi", "Sashe", false},
		{"multi word query one hit", "Sushi do Mar", "mar sashi", true},
		{"no relation", "Padaria Central", "farmacia", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMatch(tt.source, tt.query); got != tt.want {
				t.Errorf("IsMatch(%q, %q) = %v, want %v", tt.source, tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterCompanies(t *testing.T) {
	companies := []CompanyWithDistance{
		{Company: models.Company{Name: "Pizza Hut", Category: "Pizza"}},
		{Company: models.Company{Name: "Sushi do Mar", Category: "Japonesa"}},
		{Company: models.Company{Name: "Açaí do Centro", Category: "Açaí"}},
	}
	got := FilterCompanies("pizza", companies)
	if len(got) != 1 || got[0].Company.Name != "Pizza Hut" {
		t.Fatalf("FilterCompanies(pizza) kept %d, want only Pizza Hut", len(got))
	}
	got = FilterCompanies("japonesa", companies)
	if len(got) != 1 || got[0].Company.Name != "Sushi do Mar" {
		t.Fatalf("category match failed: kept %d", len(got))
	}
	if got := FilterCompanies("  ", companies); len(got) != 3 {
		t.Errorf("blank query should keep everything, kept %d", len(got))
	}
}

func TestFilterProducts(t *testing.T) {
	products := []models.Product{
		{Name: "Hamburguer Duplo", Category: "Lanches", IsAvailable: true},
		{Name: "Sushi Combo", Category: "Japonesa", IsAvailable: true},
		{Name: "Pizza Calabresa", Category: "Pizza", IsAvailable: false},
	}
	got := FilterProducts("hamburgeur", products)
	if len(got) != 1 || got[0].Name != "Hamburguer Duplo" {
		t.Fatalf("fuzzy product match failed: kept %d", len(got))
	}
	// Unavailable products are hidden even on exact match.
	if got := FilterProducts("pizza", products); len(got) != 0 {
		t.Errorf("unavailable product should be hidden, kept %d", len(got))
	}
}
