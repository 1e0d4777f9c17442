package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/charmpack/charmpack/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestConflictError(t *testing.T) {
	err := &domain.ConflictError{Conflicts: []*domain.Conflict{
		{Kind: domain.ConflictIntegrationRedefined, Name: "logging", Detail: "interface differs"},
		{Kind: domain.ConflictEnvironment, Name: "APP_PORT", Detail: "2 bindings", Sources: []string{`option "a"`, `option "b"`}},
	}}

	assert.Equal(t, []string{"logging", "APP_PORT"}, err.Names())
	assert.Contains(t, err.Error(), "2 conflict(s)")
	assert.Contains(t, err.Error(), `[option "a", option "b"]`)

	var c *domain.Conflict
	assert.True(t, errors.As(err, &c))
	assert.Equal(t, "logging", c.Name)
}

func TestProblems(t *testing.T) {
	conflicts := &domain.ConflictError{Conflicts: []*domain.Conflict{{Name: "a"}, {Name: "b"}}}
	secret := &domain.InvalidSecretReferenceError{Option: "key", Value: "nope"}

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, domain.Problems(nil))
	})

	t.Run("single error", func(t *testing.T) {
		assert.Len(t, domain.Problems(secret), 1)
	})

	t.Run("joined and nested", func(t *testing.T) {
		assert.Len(t, domain.Problems(errors.Join(secret, conflicts)), 3)
	})

	t.Run("wrapped aggregate", func(t *testing.T) {
		wrapped := fmt.Errorf("expanding charm: %w", conflicts)
		assert.Len(t, domain.Problems(wrapped), 2)
	})

	t.Run("wrapped single keeps context", func(t *testing.T) {
		wrapped := fmt.Errorf("expanding charm: %w", secret)
		problems := domain.Problems(wrapped)
		assert.Equal(t, []error{wrapped}, problems)
	})
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "invalid descriptor: requires.db: interface is required",
		(&domain.SchemaError{Field: "requires.db", Reason: "interface is required"}).Error())
	assert.Equal(t, `unknown extension "rails" (available: flask-framework, go-framework)`,
		(&domain.UnknownProfileError{Tag: "rails", Known: []string{"flask-framework", "go-framework"}}).Error())
	assert.Equal(t, "descriptor too large: 10000 options exceeds limit of 1000",
		(&domain.OversizeError{What: "options", Limit: 1000, Actual: 10000}).Error())
}
