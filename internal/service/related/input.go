package related

import (
	"strings"

	"github.com/heartmarshall/relatedwords/internal/domain"
)

// FindInput holds the parameters for finding records.
type FindInput struct {
	Label1           *string
	RelationshipType *string
	Gram             *string
	Limit            int
}

// Validate checks all fields and collects all errors.
func (i *FindInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must not be negative"})
	}
	if i.Limit > MaxFindLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "too large (max 1000)"})
	}
	for _, f := range []struct {
		name  string
		value *string
	}{
		{domain.KeyLabel1, i.Label1},
		{domain.KeyRelationshipType, i.RelationshipType},
		{domain.KeyGram, i.Gram},
	} {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			errs = append(errs, domain.FieldError{Field: f.name, Message: "must not be blank"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i *FindInput) filter() domain.RelatedFilter {
	limit := i.Limit
	if limit == 0 {
		limit = DefaultFindLimit
	}
	return domain.RelatedFilter{
		Label1:           i.Label1,
		RelationshipType: i.RelationshipType,
		Gram:             i.Gram,
		Limit:            limit,
	}
}
