package category

import (
	"strings"

	"budgeteer/internal/core"
)

// fallbackRule groups keywords that all resolve to one built-in category.
type fallbackRule struct {
	keywords []string
	category core.Category
}

// fallbackRules is evaluated top to bottom after the personal rules, so a
// description matching both "food" and "gas" lands in FOOD_AND_DRINK.
var fallbackRules = []fallbackRule{
	{[]string{"grocery", "supermarket", "food"}, core.FoodAndDrink},
	{[]string{"gas", "fuel", "uber", "lyft"}, core.Transportation},
	{[]string{"amazon", "target", "walmart"}, core.GeneralMerchandise},
	{[]string{"netflix", "spotify", "movie", "theater"}, core.Entertainment},
	{[]string{"gym", "fitness", "salon"}, core.PersonalCare},
	{[]string{"hotel", "airline", "airbnb"}, core.Travel},
	{[]string{"utility", "electric", "water", "internet"}, core.Utilities},
	{[]string{"rent", "mortgage"}, core.Housing},
}

// Categorize maps a free-text description to exactly one category. It is a
// pure function: the same description and rule set always yield the same
// result, and it never fails — unmatched descriptions are UNCATEGORIZED.
func Categorize(description string, rules RuleSet) core.Category {
	desc := strings.ToLower(description)

	for _, rule := range rules.Rules {
		if strings.Contains(desc, rule.Keyword) {
			return core.Category(rule.Category)
		}
	}

	for _, fb := range fallbackRules {
		for _, kw := range fb.keywords {
			if strings.Contains(desc, kw) {
				return fb.category
			}
		}
	}

	return core.Uncategorized
}
