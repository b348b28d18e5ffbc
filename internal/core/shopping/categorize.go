package shopping

import (
	"sort"
	"strings"

	"meal-planner/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Category is one of the eight fixed shopping-list sections.
type Category string

const (
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryMeat       Category = "meat"
	CategoryDairy      Category = "dairy"
	CategoryBakery     Category = "bakery"
	CategoryPantry     Category = "pantry"
	CategorySpices     Category = "spices"
	CategoryOther      Category = "other"
)

// CategoryOrder is the declared check order. First matching category wins;
// "other" is the universal fallback and is never checked by keyword.
var CategoryOrder = []Category{
	CategoryVegetables,
	CategoryFruits,
	CategoryMeat,
	CategoryDairy,
	CategoryBakery,
	CategoryPantry,
	CategorySpices,
	CategoryOther,
}

// categoryKeywords maps each category to its bilingual keyword list.
// Matching is substring-based, not whole-word: "рис" inside a longer word
// still sends the row to pantry. That looseness is relied on downstream.
var categoryKeywords = map[Category][]string{
	CategoryVegetables: {
		"овощ", "картоф", "картошк", "помидор", "томат", "огурец", "огурц",
		"капуст", "морков", "лук", "чеснок", "перец", "кабач", "баклажан",
		"свекл", "тыкв", "зелень", "салат", "шпинат", "брокколи", "редис",
		"vegetable", "potato", "tomato", "cucumber", "cabbage", "carrot",
		"onion", "garlic", "pepper", "zucchini", "eggplant", "beet",
		"pumpkin", "lettuce", "spinach", "broccoli", "radish", "celery",
	},
	CategoryFruits: {
		"фрукт", "яблок", "банан", "апельсин", "лимон", "лайм", "груш",
		"виноград", "клубник", "малин", "черник", "персик", "абрикос",
		"слив", "гранат", "киви", "манго", "ананас", "ягод", "арбуз", "дын",
		"fruit", "apple", "banana", "orange", "lemon", "lime", "pear",
		"grape", "strawberr", "raspberr", "blueberr", "peach", "apricot",
		"plum", "pomegranate", "kiwi", "mango", "pineapple", "berr",
		"watermelon", "melon",
	},
	CategoryMeat: {
		"мясо", "говядин", "свинин", "курин", "куриц", "индейк", "фарш",
		"колбас", "сосиск", "ветчин", "бекон", "рыб", "лосос", "тунец",
		"кревет", "печень", "котлет",
		"meat", "beef", "pork", "chicken", "turkey", "mince", "sausage",
		"ham", "bacon", "fish", "salmon", "tuna", "shrimp", "liver", "steak",
	},
	CategoryDairy: {
		"молок", "молоч", "кефир", "йогурт", "творог", "сметан", "сливк",
		"сыр", "масло сливочное", "ряженк", "яйц", "яйца",
		"milk", "dairy", "kefir", "yogurt", "yoghurt", "cottage", "curd",
		"sour cream", "cream", "cheese", "butter", "egg",
	},
	CategoryBakery: {
		"хлеб", "батон", "булк", "булоч", "лаваш", "багет", "выпечк",
		"пирог", "печень", "круассан", "тортиль",
		"bread", "loaf", "bun", "baguette", "pita", "bakery", "pastry",
		"pie", "croissant", "tortilla",
	},
	CategoryPantry: {
		"рис", "греч", "макарон", "спагетти", "паст", "мук", "сахар",
		"крупа", "овсян", "фасол", "чечевиц", "горох", "масло", "уксус",
		"консерв", "томатная паста", "соус", "мед", "мёд", "орех", "изюм",
		"rice", "buckwheat", "pasta", "spaghetti", "noodle", "flour",
		"sugar", "oat", "bean", "lentil", "pea", "oil", "vinegar", "canned",
		"sauce", "honey", "nut", "raisin", "cereal",
	},
	CategorySpices: {
		"соль", "специ", "припра", "перец черный", "перец чёрный", "паприк",
		"куркум", "корица", "ваниль", "базилик", "орегано", "тимьян",
		"розмарин", "укроп", "петрушк", "кориандр", "зира", "имбир",
		"salt", "spice", "seasoning", "black pepper", "paprika", "turmeric",
		"cinnamon", "vanilla", "basil", "oregano", "thyme", "rosemary",
		"dill", "parsley", "coriander", "cumin", "ginger",
	},
}

// Categorize assigns exactly one category to an ingredient name via
// case-insensitive substring matching in declared category order.
func Categorize(name string) Category {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, cat := range CategoryOrder {
		if cat == CategoryOther {
			continue
		}
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lowered, kw) {
				return cat
			}
		}
	}
	return CategoryOther
}

// CategorizedList buckets aggregated rows into the closed category set,
// each bucket sorted alphabetically by display name under the group's
// language collation.
func CategorizedList(items []AggregatedItem, lang string) map[Category][]AggregatedItem {
	out := make(map[Category][]AggregatedItem, len(CategoryOrder))
	for _, cat := range CategoryOrder {
		out[cat] = []AggregatedItem{}
	}

	for _, item := range items {
		cat := Categorize(item.Name)
		out[cat] = append(out[cat], item)
	}

	tag := language.English
	if lang == models.LangRU {
		tag = language.Russian
	}
	col := collate.New(tag, collate.IgnoreCase)
	for _, cat := range CategoryOrder {
		rows := out[cat]
		sort.SliceStable(rows, func(i, j int) bool {
			return col.CompareString(rows[i].Name, rows[j].Name) < 0
		})
	}

	return out
}
