package normalization

import (
  "strings"
)

func ParseInputString(input string) string {
  normalized := strings.ToLower(strings.TrimSpace(input))
  return normalized
}

func ParseInputStringPtr(input *string) *string {
  if input == nil {
    return nil
  }
  normalized := strings.ToLower(strings.TrimSpace(*input))
  return &normalized
}

// CollapseWhitespace folds runs of whitespace (including newlines left over
// from scraped HTML) into single spaces.
func CollapseWhitespace(input string) string {
  return strings.Join(strings.Fields(input), " ")
}
