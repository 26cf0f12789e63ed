package services

import (
  "testing"
)

const jsonldPage = `<!DOCTYPE html>
<html><head>
<title>Tomato Soup</title>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "WebSite", "name": "Example Kitchen"},
    {
      "@type": "Recipe",
      "name": "Tomato Soup",
      "description": "A simple soup.",
      "image": {"@type": "ImageObject", "url": "/images/soup.jpg"},
      "recipeCategory": "Soup",
      "recipeYield": "4 servings",
      "prepTime": "PT15M",
      "cookTime": "PT30M",
      "recipeIngredient": ["1 kg tomatoes", "2 tbsp olive oil"],
      "recipeInstructions": [
        {"@type": "HowToStep", "text": "Roast the tomatoes."},
        {"@type": "HowToStep", "text": "Blend and season."}
      ]
    }
  ]
}
</script>
</head><body><h1>ignored</h1></body></html>`

func TestExtractRecipe_JSONLDGraph(t *testing.T) {
  got, err := ExtractRecipe([]byte(jsonldPage), "https://example.com/recipes/tomato-soup")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if got.Strategy != StrategyJSONLD {
    t.Fatalf("expected strategy %q got %q", StrategyJSONLD, got.Strategy)
  }
  if got.Title != "Tomato Soup" {
    t.Fatalf("unexpected title: %q", got.Title)
  }
  if got.Yield != "4 servings" || got.PrepText != "PT15M" || got.CookText != "PT30M" {
    t.Fatalf("unexpected meta: %+v", got)
  }
  if len(got.Ingredients) != 2 || got.Ingredients[0] != "1 kg tomatoes" {
    t.Fatalf("unexpected ingredients: %v", got.Ingredients)
  }
  if len(got.Steps) != 2 || got.Steps[1] != "Blend and season." {
    t.Fatalf("unexpected steps: %v", got.Steps)
  }
  if got.ImageURL != "https://example.com/images/soup.jpg" {
    t.Fatalf("image URL not resolved: %q", got.ImageURL)
  }
}

const jsonldSectionsPage = `<html><head>
<script type="application/ld+json">
{
  "@type": ["Recipe", "NewsArticle"],
  "name": "Layer Cake",
  "recipeIngredient": ["300 g flour"],
  "recipeInstructions": [
    {
      "@type": "HowToSection",
      "name": "Sponge",
      "itemListElement": [
        {"@type": "HowToStep", "text": "Cream butter and sugar."},
        {"@type": "HowToStep", "text": "Fold in flour."}
      ]
    },
    {"@type": "HowToStep", "text": "Assemble the layers."}
  ]
}
</script>
</head><body></body></html>`

func TestExtractRecipe_JSONLDHowToSections(t *testing.T) {
  got, err := ExtractRecipe([]byte(jsonldSectionsPage), "https://example.com/cake")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if len(got.Steps) != 3 {
    t.Fatalf("expected 3 flattened steps got %v", got.Steps)
  }
  if got.Steps[0] != "Cream butter and sugar." || got.Steps[2] != "Assemble the layers." {
    t.Fatalf("unexpected step order: %v", got.Steps)
  }
}

const microdataPage = `<html><body>
<div itemscope itemtype="https://schema.org/Recipe">
  <h1 itemprop="name">Beef Stew</h1>
  <meta itemprop="recipeYield" content="6">
  <time itemprop="cookTime" datetime="PT2H">2 hours</time>
  <ul>
    <li itemprop="recipeIngredient">500 g beef</li>
    <li itemprop="recipeIngredient">2 carrots</li>
  </ul>
  <ol itemprop="recipeInstructions">
    <li>Brown the beef.</li>
    <li>Simmer for two hours.</li>
  </ol>
</div>
</body></html>`

func TestExtractRecipe_Microdata(t *testing.T) {
  got, err := ExtractRecipe([]byte(microdataPage), "https://example.com/stew")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if got.Strategy != StrategyMicrodata {
    t.Fatalf("expected strategy %q got %q", StrategyMicrodata, got.Strategy)
  }
  if got.Title != "Beef Stew" || got.Yield != "6" || got.CookText != "PT2H" {
    t.Fatalf("unexpected meta: %+v", got)
  }
  if len(got.Ingredients) != 2 || got.Ingredients[1] != "2 carrots" {
    t.Fatalf("unexpected ingredients: %v", got.Ingredients)
  }
  if len(got.Steps) != 2 || got.Steps[0] != "Brown the beef." {
    t.Fatalf("unexpected steps: %v", got.Steps)
  }
}

const heuristicPage = `<html><head>
<meta property="og:title" content="Pancakes">
<meta property="og:image" content="https://cdn.example.com/pancakes.jpg">
</head><body>
<h1>Pancakes</h1>
<div class="recipe-ingredients">
  <ul>
    <li>250 g flour</li>
    <li>2 eggs</li>
    <li>300 ml milk</li>
  </ul>
</div>
<div class="instructions">
  <ol>
    <li>Whisk everything together.</li>
    <li>Fry in a hot pan.</li>
  </ol>
</div>
</body></html>`

func TestExtractRecipe_HeuristicFallback(t *testing.T) {
  got, err := ExtractRecipe([]byte(heuristicPage), "https://example.com/pancakes")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if got.Strategy != StrategyHeuristic {
    t.Fatalf("expected strategy %q got %q", StrategyHeuristic, got.Strategy)
  }
  if got.Title != "Pancakes" {
    t.Fatalf("unexpected title: %q", got.Title)
  }
  if len(got.Ingredients) != 3 {
    t.Fatalf("unexpected ingredients: %v", got.Ingredients)
  }
  if len(got.Steps) != 2 {
    t.Fatalf("unexpected steps: %v", got.Steps)
  }
}

func TestExtractRecipe_NoRecipe(t *testing.T) {
  page := `<html><body><h1>About us</h1><p>We sell pans.</p></body></html>`
  if _, err := ExtractRecipe([]byte(page), "https://example.com/about"); err == nil {
    t.Fatalf("expected an error for a page without a recipe")
  }
}

func TestValidateImportURL(t *testing.T) {
  valid := []string{"https://example.com/r/1", "http://food.example.org/x"}
  for _, u := range valid {
    if err := ValidateImportURL(u); err != nil {
      t.Fatalf("expected %q to validate: %v", u, err)
    }
  }
  invalid := []string{"", "ftp://example.com/x", "https://localhost/r", "https://127.0.0.1/r", "https://printer.local/r", "not a url://"}
  for _, u := range invalid {
    if err := ValidateImportURL(u); err == nil {
      t.Fatalf("expected %q to be rejected", u)
    }
  }
}
