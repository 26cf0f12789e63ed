package services

import (
  "math"
  "testing"
)

func almostEqual(a, b float64) bool {
  return math.Abs(a-b) < 1e-6
}

func TestParseIngredientLine_SimpleQuantityUnitName(t *testing.T) {
  got := ParseIngredientLine("200 g flour")
  if !almostEqual(got.Quantity, 200) || got.Unit != "g" || got.Name != "flour" {
    t.Fatalf("unexpected result: %+v", got)
  }
}

func TestParseIngredientLine_UnitAliases(t *testing.T) {
  cases := []struct {
    line string
    unit string
  }{
    {"2 tablespoons olive oil", "tbsp"},
    {"1 teaspoon salt", "tsp"},
    {"3 cups milk", "cup"},
    {"500 grams sugar", "g"},
    {"1.5 litres stock", "l"},
    {"2 tins tomatoes", "can"},
  }
  for _, tc := range cases {
    got := ParseIngredientLine(tc.line)
    if got.Unit != tc.unit {
      t.Fatalf("line %q: expected unit %q got %q", tc.line, tc.unit, got.Unit)
    }
  }
}

func TestParseIngredientLine_PlainFraction(t *testing.T) {
  got := ParseIngredientLine("1/2 cup butter")
  if !almostEqual(got.Quantity, 0.5) || got.Unit != "cup" || got.Name != "butter" {
    t.Fatalf("unexpected result: %+v", got)
  }
}

func TestParseIngredientLine_UnicodeFraction(t *testing.T) {
  got := ParseIngredientLine("½ tsp vanilla extract")
  if !almostEqual(got.Quantity, 0.5) || got.Unit != "tsp" || got.Name != "vanilla extract" {
    t.Fatalf("unexpected result: %+v", got)
  }
}

func TestParseIngredientLine_MixedNumber(t *testing.T) {
  got := ParseIngredientLine("1 1/2 cups flour")
  if !almostEqual(got.Quantity, 1.5) {
    t.Fatalf("expected 1.5 got %v", got.Quantity)
  }
  got = ParseIngredientLine("2½ tbsp honey")
  if !almostEqual(got.Quantity, 2.5) || got.Unit != "tbsp" {
    t.Fatalf("unexpected result: %+v", got)
  }
}

func TestParseIngredientLine_RangeKeepsLowerBound(t *testing.T) {
  cases := []string{"2-3 eggs", "2 - 3 eggs", "2 to 3 eggs", "2–3 eggs"}
  for _, line := range cases {
    got := ParseIngredientLine(line)
    if !almostEqual(got.Quantity, 2) {
      t.Fatalf("line %q: expected quantity 2 got %v", line, got.Quantity)
    }
    if got.Name != "eggs" {
      t.Fatalf("line %q: expected name eggs got %q", line, got.Name)
    }
  }
}

func TestParseIngredientLine_WordStartingWithToIsNotARange(t *testing.T) {
  got := ParseIngredientLine("2 tomatoes")
  if !almostEqual(got.Quantity, 2) || got.Name != "tomatoes" {
    t.Fatalf("unexpected result: %+v", got)
  }
}

func TestParseIngredientLine_OfIsStripped(t *testing.T) {
  got := ParseIngredientLine("2 cloves of garlic")
  if got.Unit != "clove" || got.Name != "garlic" {
    t.Fatalf("unexpected result: %+v", got)
  }
}

func TestParseIngredientLine_ParenNoteAndTrailingQualifier(t *testing.T) {
  got := ParseIngredientLine("1 onion (red), finely chopped")
  if got.Name != "onion" {
    t.Fatalf("expected name onion got %q", got.Name)
  }
  if got.Note != "finely chopped, red" {
    t.Fatalf("unexpected note: %q", got.Note)
  }
}

func TestParseIngredientLine_NoQuantity(t *testing.T) {
  got := ParseIngredientLine("salt and pepper")
  if got.Quantity != 0 || got.Unit != "" || got.Name != "salt and pepper" {
    t.Fatalf("unexpected result: %+v", got)
  }
}

func TestParseIngredientLine_AbsurdQuantityClampedToZero(t *testing.T) {
  got := ParseIngredientLine("9999999 g salt")
  if got.Quantity != 0 {
    t.Fatalf("expected quantity clamped to 0, got %v", got.Quantity)
  }
  if got.Name != "salt" {
    t.Fatalf("expected name salt got %q", got.Name)
  }
  got = ParseIngredientLine("10000 g flour")
  if !almostEqual(got.Quantity, 10000) {
    t.Fatalf("expected boundary quantity kept, got %v", got.Quantity)
  }
}

func TestParseIngredientLine_DecimalComma(t *testing.T) {
  got := ParseIngredientLine("0,5 l cream")
  if !almostEqual(got.Quantity, 0.5) || got.Unit != "l" {
    t.Fatalf("unexpected result: %+v", got)
  }
}

func TestParseISO8601Duration(t *testing.T) {
  cases := []struct {
    in   string
    want int
  }{
    {"PT30M", 30},
    {"PT1H", 60},
    {"PT1H30M", 90},
    {"P1D", 1440},
    {"P1DT2H", 1560},
    {"PT45S", 1},
    {"pt15m", 15},
    {"", 0},
    {"45 minutes", 0},
    {"PT", 0},
    {"P7D", 10080},
    {"PT99999H", 0},
  }
  for _, tc := range cases {
    if got := ParseISO8601Duration(tc.in); got != tc.want {
      t.Fatalf("%q: expected %d got %d", tc.in, tc.want, got)
    }
  }
}

func TestParseYield(t *testing.T) {
  cases := []struct {
    in   string
    want int
  }{
    {"4 servings", 4},
    {"Serves 6", 6},
    {"6-8", 6},
    {"12", 12},
    {"", 0},
    {"a crowd", 0},
  }
  for _, tc := range cases {
    if got := ParseYield(tc.in); got != tc.want {
      t.Fatalf("%q: expected %d got %d", tc.in, tc.want, got)
    }
  }
}
