package types

import "testing"

func TestAllAllergens_HasFourteenCodes(t *testing.T) {
  if len(AllAllergens) != 14 {
    t.Fatalf("expected 14 allergen codes, got %d", len(AllAllergens))
  }
  seen := make(map[string]bool, len(AllAllergens))
  for _, code := range AllAllergens {
    if seen[code] {
      t.Fatalf("duplicate allergen code %q", code)
    }
    seen[code] = true
  }
}

func TestValidAllergen(t *testing.T) {
  for _, code := range AllAllergens {
    if !ValidAllergen(code) {
      t.Fatalf("expected %q to be valid", code)
    }
  }
  for _, code := range []string{"", "Gluten", "shellfish", "kryptonite"} {
    if ValidAllergen(code) {
      t.Fatalf("expected %q to be invalid", code)
    }
  }
}
