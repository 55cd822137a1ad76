// Package validation checks registration submissions and converts their raw
// form values into a typed models.RegisteredUser.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/symptoms/internal/common"
	"github.com/dmitrijs2005/symptoms/internal/server/models"
)

// Policy selects how field presence is enforced.
type Policy string

const (
	// PolicyLenient accepts a submission when at least one field is set.
	PolicyLenient Policy = "lenient"
	// PolicyStrict requires every field to be set.
	PolicyStrict Policy = "strict"
)

// ParsePolicy maps a config value onto a Policy. Empty means lenient.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLenient:
		return PolicyLenient, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown validation policy %q", s)
	}
}

// ErrAllFieldsRequired is returned when the presence check fails.
var ErrAllFieldsRequired = &common.ValidationError{Reason: "all fields required"}

// Validate applies the presence policy to s. It never looks at field
// contents beyond emptiness; see blank.
func Validate(p Policy, s models.Submission) error {
	fields := s.Fields()

	if p == PolicyStrict {
		for _, f := range fields {
			if blank(f.Value) {
				return ErrAllFieldsRequired
			}
		}
		return nil
	}

	for _, f := range fields {
		if !blank(f.Value) {
			return nil
		}
	}
	return ErrAllFieldsRequired
}

// blank reports whether a form value counts as not submitted: the empty
// string and a lone "0". Whitespace counts as submitted.
func blank(v string) bool {
	return v == "" || v == "0"
}

// Parse converts the numeric form values of s. Empty values become nil;
// anything that is not a number yields a *common.ValidationError naming the
// form field.
func Parse(s models.Submission) (*models.RegisteredUser, error) {
	u := &models.RegisteredUser{
		Username: s.Username,
		Gender:   s.Gender,
		Email:    s.Email,
	}

	var err error
	if u.Age, err = parseInt("Age", s.Age); err != nil {
		return nil, err
	}
	if u.Weight, err = parseFloat("weight", s.Weight); err != nil {
		return nil, err
	}
	if u.Height, err = parseFloat("height", s.Height); err != nil {
		return nil, err
	}
	if u.PulseRate, err = parseInt("pulse_rate", s.PulseRate); err != nil {
		return nil, err
	}
	if u.Temperature, err = parseFloat("Temperature", s.Temperature); err != nil {
		return nil, err
	}

	return u, nil
}

func parseInt(field, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &common.ValidationError{Field: field, Reason: "not an integer"}
	}
	return &v, nil
}

func parseFloat(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &common.ValidationError{Field: field, Reason: "not a number"}
	}
	return &v, nil
}
