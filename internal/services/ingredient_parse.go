package services

import (
  "regexp"
  "strconv"
  "strings"

  "github.com/chefboard/chefboard-backend/internal/normalization"
)

// ParsedIngredient is the structured form of one free-text ingredient line.
type ParsedIngredient struct {
  Quantity float64
  Unit     string
  Name     string
  Note     string
}

var vulgarFractions = map[rune]float64{
  '¼': 0.25,
  '½': 0.5,
  '¾': 0.75,
  '⅓': 1.0 / 3.0,
  '⅔': 2.0 / 3.0,
  '⅕': 0.2,
  '⅖': 0.4,
  '⅗': 0.6,
  '⅘': 0.8,
  '⅙': 1.0 / 6.0,
  '⅚': 5.0 / 6.0,
  '⅛': 0.125,
  '⅜': 0.375,
  '⅝': 0.625,
  '⅞': 0.875,
}

// unitAliases maps spelled-out and abbreviated unit forms onto one
// canonical token. Canonical units are metric plus the handful of kitchen
// measures that do not translate cleanly.
var unitAliases = map[string]string{
  "g":           "g",
  "gram":        "g",
  "grams":       "g",
  "gramm":       "g",
  "kg":          "kg",
  "kilogram":    "kg",
  "kilograms":   "kg",
  "ml":          "ml",
  "milliliter":  "ml",
  "milliliters": "ml",
  "millilitre":  "ml",
  "millilitres": "ml",
  "cl":          "cl",
  "l":           "l",
  "liter":       "l",
  "liters":      "l",
  "litre":       "l",
  "litres":      "l",
  "tsp":         "tsp",
  "teaspoon":    "tsp",
  "teaspoons":   "tsp",
  "tbsp":        "tbsp",
  "tbs":         "tbsp",
  "tablespoon":  "tbsp",
  "tablespoons": "tbsp",
  "cup":         "cup",
  "cups":        "cup",
  "oz":          "oz",
  "ounce":       "oz",
  "ounces":      "oz",
  "lb":          "lb",
  "lbs":         "lb",
  "pound":       "lb",
  "pounds":      "lb",
  "pinch":       "pinch",
  "pinches":     "pinch",
  "dash":        "dash",
  "dashes":      "dash",
  "clove":       "clove",
  "cloves":      "clove",
  "slice":       "slice",
  "slices":      "slice",
  "piece":       "piece",
  "pieces":      "piece",
  "pcs":         "piece",
  "can":         "can",
  "cans":        "can",
  "tin":         "can",
  "tins":        "can",
  "bunch":       "bunch",
  "bunches":     "bunch",
  "sprig":       "sprig",
  "sprigs":      "sprig",
  "stick":       "stick",
  "sticks":      "stick",
  "stalk":       "stalk",
  "stalks":      "stalk",
  "handful":     "handful",
  "handfuls":    "handful",
}

var (
  rangeSeparatorRe = regexp.MustCompile(`^\s*(?:-|–|—|to)\s*`)
  parenNoteRe      = regexp.MustCompile(`\(([^)]*)\)`)
)

// Sanity caps for scraped values. Anything past these is scraper noise and
// is clamped to zero instead of imported.
const (
  maxIngredientQuantity = 10000
  maxDurationMinutes    = 7 * 24 * 60
)

// ParseIngredientLine splits a free-text ingredient line into quantity,
// canonical unit, name and note. Quantities handle decimals, plain and
// unicode fractions, mixed numbers and ranges. For a range the lower
// bound is kept, so "2-3 eggs" yields quantity 2.
func ParseIngredientLine(line string) ParsedIngredient {
  line = normalization.CollapseWhitespace(line)

  var note string
  line = parenNoteRe.ReplaceAllStringFunc(line, func(m string) string {
    inner := strings.TrimSpace(strings.Trim(m, "()"))
    if inner != "" {
      if note != "" {
        note += ", "
      }
      note += inner
    }
    return ""
  })
  line = normalization.CollapseWhitespace(line)

  // Trailing ", finely chopped" style qualifiers become the note.
  if idx := strings.Index(line, ","); idx >= 0 {
    tail := strings.TrimSpace(line[idx+1:])
    if tail != "" {
      if note != "" {
        note = tail + ", " + note
      } else {
        note = tail
      }
    }
    line = strings.TrimSpace(line[:idx])
  }

  qty, rest := parseQuantity(line)
  if qty > maxIngredientQuantity {
    qty = 0
  }
  unit, name := parseUnit(rest)

  return ParsedIngredient{
    Quantity: qty,
    Unit:     unit,
    Name:     strings.TrimSpace(name),
    Note:     note,
  }
}

// parseQuantity consumes a leading number (decimal, fraction, mixed number
// or range) and returns it with the remainder of the line. A line with no
// leading number returns quantity 0.
func parseQuantity(line string) (float64, string) {
  first, rest, ok := parseNumber(line)
  if !ok {
    return 0, line
  }

  // Mixed number: "1 1/2 cups" or "1½ cups".
  if frac, rest2, ok2 := parseFraction(strings.TrimSpace(rest)); ok2 && first == float64(int(first)) {
    return first + frac, rest2
  }

  // Range: lower bound wins.
  if m := rangeSeparatorRe.FindString(rest); m != "" {
    if _, rest2, ok2 := parseNumber(strings.TrimSpace(rest[len(m):])); ok2 {
      return first, rest2
    }
  }

  return first, rest
}

// parseNumber reads one decimal, plain fraction or unicode fraction off the
// front of s.
func parseNumber(s string) (float64, string, bool) {
  s = strings.TrimSpace(s)
  if s == "" {
    return 0, s, false
  }

  runes := []rune(s)
  if v, ok := vulgarFractions[runes[0]]; ok {
    return v, string(runes[1:]), true
  }

  i := 0
  for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.' || s[i] == ',') {
    i++
  }
  if i == 0 {
    return 0, s, false
  }

  numStr := strings.ReplaceAll(s[:i], ",", ".")
  rest := s[i:]

  // Plain fraction "1/2" or mixed-number tail.
  if strings.HasPrefix(rest, "/") {
    j := 1
    for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
      j++
    }
    if j > 1 {
      num, err1 := strconv.ParseFloat(numStr, 64)
      den, err2 := strconv.ParseFloat(rest[1:j], 64)
      if err1 == nil && err2 == nil && den != 0 {
        return num / den, rest[j:], true
      }
    }
  }

  v, err := strconv.ParseFloat(strings.TrimSuffix(numStr, "."), 64)
  if err != nil {
    return 0, s, false
  }

  // Unicode fraction glued to the integer, "1½".
  restRunes := []rune(rest)
  if len(restRunes) > 0 {
    if frac, ok := vulgarFractions[restRunes[0]]; ok && v == float64(int(v)) {
      return v + frac, string(restRunes[1:]), true
    }
  }

  return v, rest, true
}

// parseFraction reads a standalone fraction (plain or unicode) for the
// fractional part of a mixed number.
func parseFraction(s string) (float64, string, bool) {
  if s == "" {
    return 0, s, false
  }
  runes := []rune(s)
  if v, ok := vulgarFractions[runes[0]]; ok {
    return v, string(runes[1:]), true
  }
  i := 0
  for i < len(s) && s[i] >= '0' && s[i] <= '9' {
    i++
  }
  if i == 0 || i >= len(s) || s[i] != '/' {
    return 0, s, false
  }
  j := i + 1
  for j < len(s) && s[j] >= '0' && s[j] <= '9' {
    j++
  }
  if j == i+1 {
    return 0, s, false
  }
  num, err1 := strconv.ParseFloat(s[:i], 64)
  den, err2 := strconv.ParseFloat(s[i+1:j], 64)
  if err1 != nil || err2 != nil || den == 0 {
    return 0, s, false
  }
  return num / den, s[j:], true
}

// parseUnit consumes a leading unit token if the first word is a known
// alias, otherwise the whole remainder is the name.
func parseUnit(s string) (string, string) {
  s = strings.TrimSpace(s)
  if s == "" {
    return "", ""
  }
  word := s
  rest := ""
  if idx := strings.IndexByte(s, ' '); idx >= 0 {
    word = s[:idx]
    rest = s[idx+1:]
  }
  canonical, ok := unitAliases[strings.ToLower(strings.TrimSuffix(word, "."))]
  if !ok || rest == "" {
    return "", s
  }
  // "2 cloves of garlic" keeps just "garlic".
  rest = strings.TrimSpace(rest)
  if strings.HasPrefix(strings.ToLower(rest), "of ") {
    rest = rest[3:]
  }
  return canonical, rest
}

var iso8601DurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseISO8601Duration converts a schema.org duration like "PT1H30M" into
// whole minutes, rounding seconds up. Returns 0 for anything unparseable or
// longer than a week.
func ParseISO8601Duration(s string) int {
  s = strings.ToUpper(strings.TrimSpace(s))
  m := iso8601DurationRe.FindStringSubmatch(s)
  if m == nil {
    return 0
  }
  days, _ := strconv.Atoi(zeroIfEmpty(m[1]))
  hours, _ := strconv.Atoi(zeroIfEmpty(m[2]))
  minutes, _ := strconv.Atoi(zeroIfEmpty(m[3]))
  seconds, _ := strconv.ParseFloat(zeroIfEmpty(m[4]), 64)

  total := days*24*60 + hours*60 + minutes
  if seconds > 0 {
    total++
  }
  if total > maxDurationMinutes {
    return 0
  }
  return total
}

func zeroIfEmpty(s string) string {
  if s == "" {
    return "0"
  }
  return s
}

var yieldNumberRe = regexp.MustCompile(`\d+`)

// ParseYield pulls a portion count out of a recipeYield value such as
// "4 servings", "Serves 6" or "6-8". The first number wins.
func ParseYield(s string) int {
  m := yieldNumberRe.FindString(s)
  if m == "" {
    return 0
  }
  n, err := strconv.Atoi(m)
  if err != nil || n <= 0 || n > 1000 {
    return 0
  }
  return n
}
