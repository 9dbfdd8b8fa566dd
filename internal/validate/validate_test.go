package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tourism-api/internal/validate"
)

func TestCheck_Required(t *testing.T) {
	assert.Nil(t, validate.Check("hello", "required"))
	assert.Equal(t, []string{"This field may not be blank."}, validate.Check("", "required"))
}

func TestCheck_Email(t *testing.T) {
	assert.Nil(t, validate.Check("user@example.com", "required,email"))
	assert.Contains(t, validate.Check("not-an-email", "required,email"), "Enter a valid email address.")
}

func TestCheck_Slug(t *testing.T) {
	assert.Nil(t, validate.Check("mount-kilimanjaro", "required,slug"))
	assert.Nil(t, validate.Check("stone_town_2", "required,slug"))

	msgs := validate.Check("has spaces", "required,slug")
	assert.Contains(t, msgs, "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
}

func TestCheck_MinLength(t *testing.T) {
	assert.Nil(t, validate.Check("longenough", "min=8"))
	assert.Equal(t, []string{"Ensure this field has at least 8 characters."}, validate.Check("short", "min=8"))
}

func TestCheck_Range(t *testing.T) {
	assert.Nil(t, validate.Check(45.0, "gte=-90,lte=90"))
	assert.Equal(t, []string{"Ensure this value is less than or equal to 90."}, validate.Check(91.0, "gte=-90,lte=90"))
	assert.Equal(t, []string{"Ensure this value is greater than or equal to -90."}, validate.Check(-91.0, "gte=-90,lte=90"))
}
