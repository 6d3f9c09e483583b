package forms

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the textual form of a due date.
const DateLayout = "2006-01-02"

func Required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

func MaxLen(n int) func(string) error {
	return func(s string) error {
		if utf8.RuneCountInString(s) > n {
			return fmt.Errorf("must be %d characters or less", n)
		}
		return nil
	}
}

// All chains checks, stopping at the first failure.
func All(checks ...func(string) error) func(string) error {
	return func(s string) error {
		for _, c := range checks {
			if err := c(s); err != nil {
				return err
			}
		}
		return nil
	}
}

// Optional skips check for empty input.
func Optional(check func(string) error) func(string) error {
	return func(s string) error {
		if s == "" {
			return nil
		}
		return check(s)
	}
}

func Email(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return errors.New("must be a valid email address")
	}
	return nil
}

// URL accepts absolute http and https URLs.
func URL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be a valid http(s) URL")
	}
	return nil
}

func OneOf(values ...string) func(string) error {
	return func(s string) error {
		for _, v := range values {
			if s == v {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(values, ", "))
	}
}

// Date accepts DateLayout values no earlier than min. A zero min disables
// the lower bound.
func Date(min time.Time) func(string) error {
	return func(s string) error {
		d, err := time.ParseInLocation(DateLayout, s, min.Location())
		if err != nil {
			return errors.New("must be a date like 2006-01-02")
		}
		if !min.IsZero() && d.Before(dateOnly(min)) {
			return fmt.Errorf("must be on or after %s", min.Format(DateLayout))
		}
		return nil
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
