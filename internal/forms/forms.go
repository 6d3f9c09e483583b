// Package forms holds the typed input structs behind every editor in the
// app. Each form declares its field rules as a table; the same checks back
// the TUI inputs and the JSON API, so a value rejected in one is rejected in
// the other.
package forms

import (
	"fmt"
	"strings"
)

// Rule binds a check to one named field of a form.
type Rule struct {
	Field string
	Value string
	Check func(string) error
}

// Errors collects field messages in rule order.
type Errors struct {
	fields []string
	msgs   map[string]string
}

func (e *Errors) add(field, msg string) {
	if e.msgs == nil {
		e.msgs = make(map[string]string)
	}
	if _, ok := e.msgs[field]; ok {
		return
	}
	e.fields = append(e.fields, field)
	e.msgs[field] = msg
}

func (e *Errors) Error() string {
	parts := make([]string, len(e.fields))
	for i, f := range e.fields {
		parts[i] = fmt.Sprintf("%s: %s", f, e.msgs[f])
	}
	return strings.Join(parts, "; ")
}

// Get returns the message for field, or "" if the field passed.
func (e *Errors) Get(field string) string {
	if e == nil {
		return ""
	}
	return e.msgs[field]
}

func (e *Errors) Fields() []string {
	return append([]string(nil), e.fields...)
}

// Map returns a copy of the field messages, suitable for a JSON body.
func (e *Errors) Map() map[string]string {
	out := make(map[string]string, len(e.msgs))
	for k, v := range e.msgs {
		out[k] = v
	}
	return out
}

// check runs every rule and returns nil when all pass. The first failing
// check per field wins.
func check(rules []Rule) *Errors {
	var errs Errors
	for _, r := range rules {
		if err := r.Check(r.Value); err != nil {
			errs.add(r.Field, err.Error())
		}
	}
	if len(errs.fields) == 0 {
		return nil
	}
	return &errs
}

// SplitTags splits a comma-separated tag string, trimming each tag and
// dropping empties.
func SplitTags(s string) []string {
	var out []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
