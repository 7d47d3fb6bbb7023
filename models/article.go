package models

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Article is the closet's unit of record. IDs are assigned once at extraction
// time, records are never updated in place.
type Article struct {
	ID                 string   `json:"id" dynamodbav:"id"`
	MainCategory       string   `json:"main_category" dynamodbav:"main_category"`
	SubCategory        string   `json:"sub_category" dynamodbav:"sub_category"`
	Pattern            string   `json:"pattern" dynamodbav:"pattern"`
	Gender             string   `json:"gender" dynamodbav:"gender"`
	AgeGroup           string   `json:"age_group" dynamodbav:"age_group"`
	Occasion           string   `json:"occasion" dynamodbav:"occasion"`
	WeatherSuitability string   `json:"weather_suitability" dynamodbav:"weather_suitability"`
	PrimaryColor       string   `json:"primary_color" dynamodbav:"primary_color"`
	SecondaryColor     string   `json:"secondary_color" dynamodbav:"secondary_color"`
	OtherColors        []string `json:"other_colors" dynamodbav:"other_colors"`
	Description        string   `json:"description" dynamodbav:"description"`
	StyleDescription   string   `json:"style_description" dynamodbav:"style_description"`
	WaysToWear         []string `json:"ways_to_wear" dynamodbav:"ways_to_wear"`
}

type FieldKind int

const (
	FieldEnum FieldKind = iota
	FieldText
	FieldTextList
	FieldHexColor
	FieldHexColorList
)

// FieldSpec describes one article field for validation and for the JSON
// schema text embedded into extraction prompts.
type FieldSpec struct {
	Name    string
	Kind    FieldKind
	Allowed []string
}

var MainCategories = []string{"Topwear", "Bottomwear", "Footwear", "Outerwear", "Dress", "Innerwear", "Accessory"}
var SubCategories = []string{
	"T-Shirt", "Shirt", "Blouse", "Sweater", "Hoodie", "Jacket", "Coat", "Blazer",
	"Jeans", "Trousers", "Shorts", "Skirt", "Leggings",
	"Sneakers", "Boots", "Sandals", "Heels", "Flats",
	"Hat", "Scarf", "Belt", "Bag", "Gloves", "Socks", "Swimwear",
}
var Patterns = []string{"Solid", "Striped", "Checked", "Plaid", "Floral", "Graphic", "Polka Dot", "Animal Print", "Camouflage", "Colorblock", "Tie-Dye"}
var Genders = []string{"Men", "Women", "Unisex"}
var AgeGroups = []string{"Adult", "Teen", "Kids"}
var Occasions = []string{"Casual", "Formal", "Business", "Party", "Sports", "Travel", "Lounge", "Beach"}
var WeatherSuitabilities = []string{"Hot", "Warm", "Mild", "Cool", "Cold", "Rainy", "All-Season"}

// ArticleSchema is the structural contract of an article, in prompt order.
var ArticleSchema = []FieldSpec{
	{Name: "main_category", Kind: FieldEnum, Allowed: MainCategories},
	{Name: "sub_category", Kind: FieldEnum, Allowed: SubCategories},
	{Name: "pattern", Kind: FieldEnum, Allowed: Patterns},
	{Name: "gender", Kind: FieldEnum, Allowed: Genders},
	{Name: "age_group", Kind: FieldEnum, Allowed: AgeGroups},
	{Name: "occasion", Kind: FieldEnum, Allowed: Occasions},
	{Name: "weather_suitability", Kind: FieldEnum, Allowed: WeatherSuitabilities},
	{Name: "primary_color", Kind: FieldHexColor},
	{Name: "secondary_color", Kind: FieldHexColor},
	{Name: "other_colors", Kind: FieldHexColorList},
	{Name: "description", Kind: FieldText},
	{Name: "style_description", Kind: FieldText},
	{Name: "ways_to_wear", Kind: FieldTextList},
}

var hexColorRule = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// FieldError names the first offending field, its value and the legal set.
type FieldError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *FieldError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid value %q for field %q", e.Value, e.Field)
	}
	return fmt.Sprintf("invalid value %q for field %q, must be one of [%s]", e.Value, e.Field, strings.Join(e.Allowed, ", "))
}

func articleField(a *Article, name string) (string, []string) {
	switch name {
	case "main_category":
		return a.MainCategory, nil
	case "sub_category":
		return a.SubCategory, nil
	case "pattern":
		return a.Pattern, nil
	case "gender":
		return a.Gender, nil
	case "age_group":
		return a.AgeGroup, nil
	case "occasion":
		return a.Occasion, nil
	case "weather_suitability":
		return a.WeatherSuitability, nil
	case "primary_color":
		return a.PrimaryColor, nil
	case "secondary_color":
		return a.SecondaryColor, nil
	case "other_colors":
		return "", a.OtherColors
	case "ways_to_wear":
		return "", a.WaysToWear
	}
	return "", nil
}

// ValidateArticle checks every schema field and fails fast on the first
// violation. Free-text fields are accepted as-is, enumerated fields must sit
// inside their declared set, color fields must be #rrggbb hex strings.
func ValidateArticle(a *Article) error {
	for _, spec := range ArticleSchema {
		value, list := articleField(a, spec.Name)
		switch spec.Kind {
		case FieldEnum:
			if !slices.Contains(spec.Allowed, value) {
				return &FieldError{Field: spec.Name, Value: value, Allowed: spec.Allowed}
			}
		case FieldHexColor:
			if !hexColorRule.MatchString(value) {
				return &FieldError{Field: spec.Name, Value: value}
			}
		case FieldHexColorList:
			for _, color := range list {
				if !hexColorRule.MatchString(color) {
					return &FieldError{Field: spec.Name, Value: color}
				}
			}
		}
	}
	return nil
}

// PromptSchema renders the article schema as the JSON description that gets
// embedded textually into inference prompts. The service has no enforced
// structured-output contract, so the same schema is re-validated locally on
// every response.
func PromptSchema() string {
	var b strings.Builder
	b.WriteString("{")
	for i, spec := range ArticleSchema {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: ", spec.Name)
		switch spec.Kind {
		case FieldEnum:
			fmt.Fprintf(&b, "one of [%q", spec.Allowed[0])
			for _, v := range spec.Allowed[1:] {
				fmt.Fprintf(&b, ", %q", v)
			}
			b.WriteString("]")
		case FieldText:
			b.WriteString("string")
		case FieldTextList:
			b.WriteString("array of strings")
		case FieldHexColor:
			b.WriteString(`hex color string like "#a1b2c3"`)
		case FieldHexColorList:
			b.WriteString(`array of hex color strings like "#a1b2c3"`)
		}
	}
	b.WriteString("}")
	return b.String()
}
