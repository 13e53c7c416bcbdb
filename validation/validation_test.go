package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Name  string `form:"name" validate:"required,max=5"`
	Email string `form:"email" validate:"required,email"`
	Note  string `validate:"omitempty,max=3"`
}

func TestStruct(t *testing.T) {
	v := Struct(sampleForm{Name: "Ok", Email: "a@b.co"})
	assert.True(t, v.Empty())

	v = Struct(sampleForm{Name: "Too long", Email: "nope", Note: "long"})
	assert.Equal(t, Violations{"name": "max", "email": "email", "Note": "max"}, v)

	v = Struct(sampleForm{})
	assert.Equal(t, "required", v["name"])
	assert.Equal(t, "required", v["email"])
}

func TestRequiredKeepsFirstViolation(t *testing.T) {
	v := make(Violations)
	v.Add("email", "email")
	Required("email", " ", v)
	Required("name", "", v)
	assert.Equal(t, Violations{"email": "email", "name": "required"}, v)
}

func TestDate(t *testing.T) {
	v := make(Violations)
	assert.Nil(t, Date("due_date", "", v))
	got := Date("date", "2024-02-29", v)
	require.NotNil(t, got)
	assert.Equal(t, 29, got.Day())
	assert.Nil(t, Date("due_date", "29/02/2024", v))
	assert.Equal(t, Violations{"due_date": "invalid_date"}, v)
}

func TestOneOf(t *testing.T) {
	v := make(Violations)
	OneOf("country", "", []string{"Canada"}, v)
	OneOf("country", "Canada", []string{"Canada"}, v)
	assert.True(t, v.Empty())
	OneOf("country", "Atlantis", []string{"Canada"}, v)
	assert.Equal(t, "unknown_choice", v["country"])
}

func TestNormalizePostalCode(t *testing.T) {
	tests := []struct {
		country, in, want string
	}{
		{"United States", "12345", "12345"},
		{"United States", "123456789", "12345-6789"},
		{"United States", "12345-6789", "12345-6789"},
		{"United States", "1234", "1234"},
		{"United Kingdom", "sw1a1aa", "SW1A 1AA"},
		{"United Kingdom", "M1 1AE", "M1 1AE"},
		{"United Kingdom", "nonsense", "nonsense"},
		{"Canada", "k1a0b1", "K1A 0B1"},
		{"Canada", "K1A 0B1", "K1A 0B1"},
		{"Canada", "12345", "12345"},
		{"Australia", " 2000 ", "2000"},
		{"", "abc", "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePostalCode(tt.country, tt.in), "%s %q", tt.country, tt.in)
	}
}

func TestPostalHint(t *testing.T) {
	assert.Equal(t, "Format: A1A 1A1", PostalHint("Canada"))
	assert.Empty(t, PostalHint("Australia"))
}
