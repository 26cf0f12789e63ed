package services

import (
  "testing"

  "gorm.io/datatypes"

  "github.com/chefboard/chefboard-backend/internal/types"
)

func TestRecipeAllergens_UnionIsSortedAndDeduplicated(t *testing.T) {
  recipe := &types.Recipe{
    Portions: 4,
    Ingredients: []types.RecipeIngredient{
      {Name: "flour", Allergens: datatypes.JSON(`["gluten"]`)},
      {Name: "milk", Allergens: datatypes.JSON(`["milk"]`)},
      {Name: "butter", Allergens: datatypes.JSON(`["milk"]`)},
      {Name: "eggs", Allergens: datatypes.JSON(`["eggs"]`)},
      {Name: "salt"},
    },
  }
  got := RecipeAllergens(recipe)
  want := []string{"eggs", "gluten", "milk"}
  if len(got) != len(want) {
    t.Fatalf("expected %v got %v", want, got)
  }
  for i := range want {
    if got[i] != want[i] {
      t.Fatalf("expected %v got %v", want, got)
    }
  }
}

func TestRecipeAllergens_IgnoresUnknownCodesAndBadJSON(t *testing.T) {
  recipe := &types.Recipe{
    Ingredients: []types.RecipeIngredient{
      {Name: "x", Allergens: datatypes.JSON(`["gluten", "kryptonite"]`)},
      {Name: "y", Allergens: datatypes.JSON(`{not json`)},
    },
  }
  got := RecipeAllergens(recipe)
  if len(got) != 1 || got[0] != "gluten" {
    t.Fatalf("expected [gluten] got %v", got)
  }
}

func TestScaleRecipe(t *testing.T) {
  recipe := &types.Recipe{
    Portions: 4,
    Ingredients: []types.RecipeIngredient{
      {Name: "flour", Quantity: 200, Unit: "g"},
      {Name: "milk", Quantity: 0.5, Unit: "l"},
    },
  }
  ScaleRecipe(recipe, 10)
  if recipe.Ingredients[0].Quantity != 500 {
    t.Fatalf("expected 500 got %v", recipe.Ingredients[0].Quantity)
  }
  if recipe.Ingredients[1].Quantity != 1.25 {
    t.Fatalf("expected 1.25 got %v", recipe.Ingredients[1].Quantity)
  }
}

func TestScaleRecipe_InvalidPortionsAreNoops(t *testing.T) {
  recipe := &types.Recipe{
    Portions: 4,
    Ingredients: []types.RecipeIngredient{
      {Name: "flour", Quantity: 200},
    },
  }
  ScaleRecipe(recipe, 0)
  ScaleRecipe(recipe, -2)
  if recipe.Ingredients[0].Quantity != 200 {
    t.Fatalf("expected quantity unchanged, got %v", recipe.Ingredients[0].Quantity)
  }
}

func TestBuildSteps_SkipsEmptyLines(t *testing.T) {
  steps := buildSteps([]string{"Chop onions.", "  ", "", "Serve."})
  if len(steps) != 2 {
    t.Fatalf("expected 2 steps got %d", len(steps))
  }
  if steps[1].Instruction != "Serve." {
    t.Fatalf("unexpected instruction: %q", steps[1].Instruction)
  }
}

func TestValidateRecipeInput(t *testing.T) {
  if err := validateRecipeInput(RecipeInput{Title: ""}); err == nil {
    t.Fatalf("expected error for missing title")
  }
  if err := validateRecipeInput(RecipeInput{
    Title:       "Soup",
    Ingredients: []IngredientInput{{Name: "tomato", Allergens: []string{"kryptonite"}}},
  }); err == nil {
    t.Fatalf("expected error for unknown allergen")
  }
  if err := validateRecipeInput(RecipeInput{
    Title:       "Soup",
    Ingredients: []IngredientInput{{Name: "tomato", Quantity: -1}},
  }); err == nil {
    t.Fatalf("expected error for negative quantity")
  }
  if err := validateRecipeInput(RecipeInput{
    Title:       "Soup",
    Ingredients: []IngredientInput{{Name: "tomato", Quantity: 2, Allergens: []string{"celery"}}},
  }); err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
}
