package shopping

import (
	"regexp"
	"strconv"
	"strings"
)

// decorationPattern matches emoji and pictographic symbols users paste in
// front of ingredient names ("🍅 Tomatoes").
var decorationPattern = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{1F000}-\x{1F0FF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE00}-\x{FE0F}\x{200D}]`)

// CleanName strips decorative symbols, trims and lowercases an ingredient
// name for matching purposes.
func CleanName(raw string) string {
	name := decorationPattern.ReplaceAllString(raw, "")
	return strings.ToLower(strings.TrimSpace(name))
}

// CleanUnit normalizes a unit with trim + lowercase only.
func CleanUnit(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Singularize folds naive English plural suffixes: a trailing "oes" drops
// two characters ("tomatoes" -> "tomato"), a trailing "s" that is not "ss"
// drops one. This is a heuristic, not a stemmer; "hummus" -> "hummu" is a
// known accepted quirk.
func Singularize(name string) string {
	if strings.HasSuffix(name, "oes") {
		return name[:len(name)-2]
	}
	if strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") {
		return name[:len(name)-1]
	}
	return name
}

// DishKey derives the merge key for a dish-sourced ingredient row. Only
// this path applies the plural fold, so a dish "tomatoes" and a manual
// "tomatoes" land in different buckets on purpose.
func DishKey(name, unit string) string {
	return Singularize(CleanName(name)) + "-" + CleanUnit(unit)
}

// ManualKey derives the merge key for a manually-entered ingredient row.
func ManualKey(name, unit string) string {
	return CleanName(name) + "-" + CleanUnit(unit)
}

// ParseAmount parses a free-text amount into a number. Comma decimal
// separators are accepted; anything unparsable contributes zero.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
