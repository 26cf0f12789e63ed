package services

import (
  "bytes"
  "encoding/json"
  "fmt"
  "net/url"
  "strings"

  "github.com/PuerkitoBio/goquery"
  "github.com/microcosm-cc/bluemonday"
  "golang.org/x/net/html"

  "github.com/chefboard/chefboard-backend/internal/normalization"
)

// Extraction strategies, recorded on the import run so a reviewer can see
// how a recipe was pulled from the page.
const (
  StrategyJSONLD    = "jsonld"
  StrategyMicrodata = "microdata"
  StrategyHeuristic = "heuristic"
)

// ScrapedRecipe is the raw output of page extraction, before ingredient
// lines and durations are normalized.
type ScrapedRecipe struct {
  Title       string
  Description string
  ImageURL    string
  Category    string
  Yield       string
  PrepText    string
  CookText    string
  TotalText   string
  Ingredients []string
  Steps       []string
  Strategy    string
}

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText strips markup and entities from a scraped fragment.
func sanitizeText(s string) string {
  return normalization.CollapseWhitespace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// ExtractRecipe parses an HTML page and pulls a recipe out of it, trying
// schema.org JSON-LD first, then microdata, then heuristic selectors.
// A result without a title and at least one ingredient counts as a miss
// and the next strategy is tried.
func ExtractRecipe(page []byte, pageURL string) (*ScrapedRecipe, error) {
  doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
  if err != nil {
    return nil, fmt.Errorf("Failed to parse page HTML: %w", err)
  }

  if scraped := extractJSONLD(doc); scrapedUsable(scraped) {
    scraped.Strategy = StrategyJSONLD
    resolveImageURL(scraped, pageURL)
    return scraped, nil
  }
  if scraped := extractMicrodata(doc); scrapedUsable(scraped) {
    scraped.Strategy = StrategyMicrodata
    resolveImageURL(scraped, pageURL)
    return scraped, nil
  }
  if scraped := extractHeuristic(doc); scrapedUsable(scraped) {
    scraped.Strategy = StrategyHeuristic
    resolveImageURL(scraped, pageURL)
    return scraped, nil
  }
  return nil, fmt.Errorf("No recipe found on page")
}

func scrapedUsable(s *ScrapedRecipe) bool {
  return s != nil && s.Title != "" && len(s.Ingredients) > 0
}

func resolveImageURL(s *ScrapedRecipe, pageURL string) {
  if s.ImageURL == "" {
    return
  }
  base, err := url.Parse(pageURL)
  if err != nil {
    return
  }
  ref, err := url.Parse(s.ImageURL)
  if err != nil {
    s.ImageURL = ""
    return
  }
  s.ImageURL = base.ResolveReference(ref).String()
}

// ---- JSON-LD ----

func extractJSONLD(doc *goquery.Document) *ScrapedRecipe {
  var found *ScrapedRecipe
  doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
    var raw any
    if err := json.Unmarshal([]byte(sel.Text()), &raw); err != nil {
      return true
    }
    if node := findRecipeNode(raw); node != nil {
      found = recipeFromJSONLD(node)
      return false
    }
    return true
  })
  return found
}

// findRecipeNode walks a decoded JSON-LD document, including @graph arrays
// and top-level arrays, looking for a node typed Recipe.
func findRecipeNode(raw any) map[string]any {
  switch v := raw.(type) {
  case []any:
    for _, item := range v {
      if node := findRecipeNode(item); node != nil {
        return node
      }
    }
  case map[string]any:
    if isRecipeType(v["@type"]) {
      return v
    }
    if graph, ok := v["@graph"]; ok {
      return findRecipeNode(graph)
    }
  }
  return nil
}

func isRecipeType(t any) bool {
  switch v := t.(type) {
  case string:
    return strings.EqualFold(v, "Recipe")
  case []any:
    for _, item := range v {
      if s, ok := item.(string); ok && strings.EqualFold(s, "Recipe") {
        return true
      }
    }
  }
  return false
}

func recipeFromJSONLD(node map[string]any) *ScrapedRecipe {
  s := &ScrapedRecipe{
    Title:       sanitizeText(jsonString(node["name"])),
    Description: sanitizeText(jsonString(node["description"])),
    ImageURL:    jsonImageURL(node["image"]),
    Category:    sanitizeText(jsonString(node["recipeCategory"])),
    Yield:       jsonString(node["recipeYield"]),
    PrepText:    jsonString(node["prepTime"]),
    CookText:    jsonString(node["cookTime"]),
    TotalText:   jsonString(node["totalTime"]),
  }
  for _, line := range jsonStringList(node["recipeIngredient"]) {
    if line = sanitizeText(line); line != "" {
      s.Ingredients = append(s.Ingredients, line)
    }
  }
  s.Steps = instructionsFromJSONLD(node["recipeInstructions"])
  return s
}

// instructionsFromJSONLD flattens recipeInstructions, which can be a
// string, a list of strings, HowToStep objects, or HowToSection objects
// with nested itemListElement steps.
func instructionsFromJSONLD(raw any) []string {
  var out []string
  var walk func(any)
  walk = func(v any) {
    switch node := v.(type) {
    case string:
      if text := sanitizeText(node); text != "" {
        out = append(out, text)
      }
    case []any:
      for _, item := range node {
        walk(item)
      }
    case map[string]any:
      if items, ok := node["itemListElement"]; ok {
        walk(items)
        return
      }
      if text := sanitizeText(jsonString(node["text"])); text != "" {
        out = append(out, text)
      } else if text := sanitizeText(jsonString(node["name"])); text != "" {
        out = append(out, text)
      }
    }
  }
  walk(raw)
  return out
}

func jsonString(v any) string {
  switch s := v.(type) {
  case string:
    return strings.TrimSpace(s)
  case float64:
    return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", s), "0"), ".")
  case []any:
    if len(s) > 0 {
      return jsonString(s[0])
    }
  case map[string]any:
    return jsonString(s["@value"])
  }
  return ""
}

func jsonStringList(v any) []string {
  switch s := v.(type) {
  case string:
    return []string{s}
  case []any:
    out := make([]string, 0, len(s))
    for _, item := range s {
      if str := jsonString(item); str != "" {
        out = append(out, str)
      }
    }
    return out
  }
  return nil
}

func jsonImageURL(v any) string {
  switch s := v.(type) {
  case string:
    return strings.TrimSpace(s)
  case []any:
    if len(s) > 0 {
      return jsonImageURL(s[0])
    }
  case map[string]any:
    return jsonString(s["url"])
  }
  return ""
}

// ---- microdata ----

func extractMicrodata(doc *goquery.Document) *ScrapedRecipe {
  scope := doc.Find(`[itemtype*="schema.org/Recipe"]`).First()
  if scope.Length() == 0 {
    return nil
  }
  s := &ScrapedRecipe{}

  scope.Find("[itemprop]").Each(func(_ int, sel *goquery.Selection) {
    prop, _ := sel.Attr("itemprop")
    for _, name := range strings.Fields(prop) {
      value := microdataValue(sel)
      switch name {
      case "name":
        if s.Title == "" {
          s.Title = sanitizeText(value)
        }
      case "description":
        if s.Description == "" {
          s.Description = sanitizeText(value)
        }
      case "image":
        if s.ImageURL == "" {
          s.ImageURL = value
        }
      case "recipeCategory":
        if s.Category == "" {
          s.Category = sanitizeText(value)
        }
      case "recipeYield":
        if s.Yield == "" {
          s.Yield = value
        }
      case "prepTime":
        if s.PrepText == "" {
          s.PrepText = value
        }
      case "cookTime":
        if s.CookText == "" {
          s.CookText = value
        }
      case "totalTime":
        if s.TotalText == "" {
          s.TotalText = value
        }
      case "recipeIngredient", "ingredients":
        if text := sanitizeText(value); text != "" {
          s.Ingredients = append(s.Ingredients, text)
        }
      case "recipeInstructions":
        s.Steps = append(s.Steps, microdataSteps(sel)...)
      }
    }
  })
  return s
}

// microdataValue picks the value of an itemprop element per the microdata
// rules: content attribute first, then tag-specific attributes, then text.
func microdataValue(sel *goquery.Selection) string {
  if v, ok := sel.Attr("content"); ok {
    return strings.TrimSpace(v)
  }
  if v, ok := sel.Attr("datetime"); ok {
    return strings.TrimSpace(v)
  }
  if goquery.NodeName(sel) == "img" || goquery.NodeName(sel) == "source" {
    if v, ok := sel.Attr("src"); ok {
      return strings.TrimSpace(v)
    }
  }
  if goquery.NodeName(sel) == "a" || goquery.NodeName(sel) == "link" {
    if v, ok := sel.Attr("href"); ok {
      return strings.TrimSpace(v)
    }
  }
  return sel.Text()
}

func microdataSteps(sel *goquery.Selection) []string {
  var out []string
  items := sel.Find("li")
  if items.Length() == 0 {
    items = sel.Find(`[itemprop="text"]`)
  }
  if items.Length() == 0 {
    if text := sanitizeText(sel.Text()); text != "" {
      return []string{text}
    }
    return nil
  }
  items.Each(func(_ int, li *goquery.Selection) {
    if text := sanitizeText(li.Text()); text != "" {
      out = append(out, text)
    }
  })
  return out
}

// ---- heuristic ----

var heuristicIngredientSelectors = []string{
  `[class*="ingredient"] li`,
  `[id*="ingredient"] li`,
  `ul[class*="ingredients"] li`,
}

var heuristicStepSelectors = []string{
  `[class*="instruction"] li`,
  `[class*="direction"] li`,
  `[class*="method"] li`,
  `[id*="instruction"] li`,
  `ol[class*="steps"] li`,
}

// extractHeuristic is the fallback for pages without structured data. It
// leans on common class names and marks nothing as authoritative; runs
// that land here get flagged for review downstream.
func extractHeuristic(doc *goquery.Document) *ScrapedRecipe {
  s := &ScrapedRecipe{}

  if t := sanitizeText(doc.Find("h1").First().Text()); t != "" {
    s.Title = t
  } else if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
    s.Title = sanitizeText(t)
  }
  if d, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
    s.Description = sanitizeText(d)
  } else if d, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
    s.Description = sanitizeText(d)
  }
  if img, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
    s.ImageURL = strings.TrimSpace(img)
  }

  for _, selector := range heuristicIngredientSelectors {
    items := doc.Find(selector)
    if items.Length() < 2 {
      continue
    }
    items.Each(func(_ int, li *goquery.Selection) {
      if text := sanitizeText(li.Text()); text != "" {
        s.Ingredients = append(s.Ingredients, text)
      }
    })
    if len(s.Ingredients) > 0 {
      break
    }
  }

  for _, selector := range heuristicStepSelectors {
    items := doc.Find(selector)
    if items.Length() == 0 {
      continue
    }
    items.Each(func(_ int, li *goquery.Selection) {
      if text := sanitizeText(li.Text()); text != "" {
        s.Steps = append(s.Steps, text)
      }
    })
    if len(s.Steps) > 0 {
      break
    }
  }

  return s
}
