package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"Latin", "Anna", true},
		{"Cyrillic", "Анна", true},
		{"MixedCase", "dmitriy", true},
		{"Empty", "", false},
		{"Digits", "Anna1", false},
		{"Space", "Anna Maria", false},
		{"Hyphen", "Anna-Maria", false},
		{"Punctuation", "Anna.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.input))
		})
	}
}

func TestEmail(t *testing.T) {
	t.Run("NormalizesDomainCase", func(t *testing.T) {
		got, err := Email("Anna@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, "Anna@example.com", got)
	})

	t.Run("TrimsSurroundingSpace", func(t *testing.T) {
		got, err := Email("  anna@example.com  ")
		require.NoError(t, err)
		assert.Equal(t, "anna@example.com", got)
	})

	t.Run("RejectsWithReason", func(t *testing.T) {
		for _, raw := range []string{"", "not-an-email", "missing@domain@twice", "@example.com"} {
			got, err := Email(raw)
			assert.Error(t, err, "input %q", raw)
			assert.NotEmpty(t, err.Error())
			assert.Empty(t, got)
		}
	})
}

func TestPhoneCanonicalForm(t *testing.T) {
	// Syntactically distinct spellings of one number must reduce to the
	// identical canonical string; the phones table's unique constraint
	// depends on it.
	variants := []string{
		"+7 958 394 85 93",
		"+7(958)394-85-93",
		"+79583948593",
		"+7-958-394-85-93",
	}
	canonical, err := Phone(variants[0])
	require.NoError(t, err)
	assert.Contains(t, canonical, "+7")
	for _, v := range variants[1:] {
		got, err := Phone(v)
		require.NoError(t, err, "input %q", v)
		assert.Equal(t, canonical, got, "input %q", v)
	}
}

func TestPhoneRejections(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"NoCountryCode", "375940"},
		{"Garbage", "not-a-phone"},
		{"Empty", ""},
		{"TooShort", "+7 123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Phone(tt.input)
			assert.Error(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"anna", "Anna"},
		{"aNNA", "Anna"},
		{"Anna", "Anna"},
		{"анна", "Анна"},
		{"МАСС", "Масс"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Capitalize(tt.input), "input %q", tt.input)
	}
}
