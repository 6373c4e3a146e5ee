package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "too short", password: "Ab1!", want: false},
		{name: "all classes", password: "Abcdefg1!", want: true},
		{name: "exactly eight", password: "Abcdef1-", want: true},
		{name: "missing uppercase", password: "abcdefg1!", want: false},
		{name: "missing lowercase", password: "ABCDEFG1!", want: false},
		{name: "missing digit", password: "Abcdefgh!", want: false},
		{name: "missing special", password: "Abcdefgh1", want: false},
		{name: "special outside set", password: "Abcdefg1_", want: false},
		{name: "empty", password: "", want: false},
		{name: "seven characters eight bytes", password: "Aé1!xyz", want: false},
		{name: "eight characters with multibyte", password: "Aé1!xyzw", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.password))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"owner@shop.com", true},
		{"first.last+tag@mail.example.org", true},
		{"a_b%c-d@sub-domain.io", true},
		{"not-an-email", false},
		{"missing@tld", false},
		{"short@tld.c", false},
		{"@shop.com", false},
		{"owner@shop.c0m", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "", Sanitize(""))
	assert.Equal(t, "scriptalert(1)/script", Sanitize("<script>alert(1)</script>"))
	assert.Equal(t, "Joes Shop", Sanitize(`Joe's Shop;`))
	assert.Equal(t, "plain text", Sanitize("plain text"))
	assert.Equal(t, "quoted", Sanitize(`"quoted"`))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "a", Clean(" <<a> "))
	assert.Equal(t, "Tea", Clean(" <Te>a "))
	assert.Equal(t, "", Clean("<;>"))
}
