package form

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	nonDigit        = regexp.MustCompile(`\D`)
	digitsOnly      = regexp.MustCompile(`^\d+$`)
)

// notBlank rejects values that are empty once surrounding whitespace is removed.
var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("This field is required.")
	}
	return nil
})

// tagLabels rejects comma separated labels that could not appear as a single
// URL path segment.
var tagLabels = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	for _, name := range ParseTags(s) {
		if strings.ContainsAny(name, `/\?#%`) {
			return fmt.Errorf("Tag %q may not contain /, \\, ?, # or %%.", name)
		}
	}
	return nil
})

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("This field is required."),
		validation.Length(8, 128).Error("Password must be between 8 and 128 characters."),
		validation.Match(nonDigit).Error("This password is entirely numeric."),
	}
}

func matches(other string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s != other {
			return errors.New("The two password fields didn't match.")
		}
		return nil
	})
}
