package web

import (
	"fmt"
	"net/mail"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"notehub/internal/notes"
)

// Request validation lives here, in front of the store and the note
// engine: once a request reaches a handler body the parameters are
// known to be well formed.

type problems []string

func (p *problems) add(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return validationFailed(p)
}

func (p *problems) requireMinLen(value, field string, min int) string {
	value = strings.TrimSpace(value)
	if len(value) < min {
		p.add("%s should be at least %d characters.", field, min)
	}
	return value
}

func (p *problems) requireObjectID(value, field string) bson.ObjectID {
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(value))
	if err != nil {
		p.add("%s is not a valid id.", field)
	}
	return id
}

func (p *problems) requireObjectIDs(values []string, field string) []bson.ObjectID {
	ids := make([]bson.ObjectID, 0, len(values))
	for _, value := range values {
		ids = append(ids, p.requireObjectID(value, field))
	}
	return ids
}

func (p *problems) requireEmail(value string) string {
	value = strings.TrimSpace(value)
	if _, err := mail.ParseAddress(value); err != nil {
		p.add("Please enter a valid email.")
	}
	return strings.ToLower(value)
}

func (p *problems) requirePage(page, perPage int) {
	if page < 1 {
		p.add("page should be a positive integer.")
	}
	if perPage < 1 {
		p.add("perPage should be a positive integer.")
	}
}

var sortFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"category":  true,
	"title":     true,
}

func (p *problems) requireSort(sort notes.SortSpec) {
	if !sortFields[sort.Name] || (sort.Order != 1 && sort.Order != -1) {
		p.add("Sort parameters are incorrect.")
	}
}

func isAlphanumeric(value string) bool {
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
