package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArticle() Article {
	return Article{
		MainCategory:       "Topwear",
		SubCategory:        "T-Shirt",
		Pattern:            "Solid",
		Gender:             "Men",
		AgeGroup:           "Adult",
		Occasion:           "Casual",
		WeatherSuitability: "Warm",
		PrimaryColor:       "#ff0000",
		SecondaryColor:     "#ffffff",
		OtherColors:        []string{"#000000"},
		Description:        "A bright red cotton t-shirt with a white collar",
		StyleDescription:   "Relaxed streetwear staple",
		WaysToWear:         []string{"With jeans", "Under an open shirt"},
	}
}

func TestValidateArticleOk(t *testing.T) {
	article := validArticle()
	require.NoError(t, ValidateArticle(&article))
}

func TestValidateArticleUnknownEnumValue(t *testing.T) {
	article := validArticle()
	article.MainCategory = "Spacesuit"

	err := ValidateArticle(&article)
	require.Error(t, err)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "main_category", fieldErr.Field)
	assert.Equal(t, "Spacesuit", fieldErr.Value)
	assert.Contains(t, fieldErr.Allowed, "Topwear")
	assert.Contains(t, err.Error(), "main_category")
}

func TestValidateArticleEmptyEnumValue(t *testing.T) {
	article := validArticle()
	article.Pattern = ""

	var fieldErr *FieldError
	require.ErrorAs(t, ValidateArticle(&article), &fieldErr)
	assert.Equal(t, "pattern", fieldErr.Field)
}

func TestValidateArticleBadHexColor(t *testing.T) {
	article := validArticle()
	article.PrimaryColor = "red"

	var fieldErr *FieldError
	require.ErrorAs(t, ValidateArticle(&article), &fieldErr)
	assert.Equal(t, "primary_color", fieldErr.Field)
	assert.Equal(t, "red", fieldErr.Value)
}

func TestValidateArticleShortHexRejected(t *testing.T) {
	article := validArticle()
	article.SecondaryColor = "#fff"

	var fieldErr *FieldError
	require.ErrorAs(t, ValidateArticle(&article), &fieldErr)
	assert.Equal(t, "secondary_color", fieldErr.Field)
}

func TestValidateArticleBadHexInList(t *testing.T) {
	article := validArticle()
	article.OtherColors = []string{"#a1b2c3", "navy"}

	var fieldErr *FieldError
	require.ErrorAs(t, ValidateArticle(&article), &fieldErr)
	assert.Equal(t, "other_colors", fieldErr.Field)
	assert.Equal(t, "navy", fieldErr.Value)
}

func TestValidateArticleFreeTextUnconstrained(t *testing.T) {
	article := validArticle()
	article.Description = ""
	article.WaysToWear = nil
	require.NoError(t, ValidateArticle(&article))
}

func TestPromptSchemaCoversEveryField(t *testing.T) {
	schema := PromptSchema()
	for _, spec := range ArticleSchema {
		assert.Contains(t, schema, `"`+spec.Name+`"`)
	}
	assert.Contains(t, schema, `"Topwear"`)
	assert.Contains(t, schema, "#a1b2c3")
}
