package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentra-app/mentra-cli/internal/apperror"
)

type sample struct {
	Email  string `validate:"required,email"`
	Reason string `validate:"required,min=1,max=500"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sample{Email: "hoca@mentra.app", Reason: "öğrenci hastaydı"})
	assert.NoError(t, err)
}

func TestStruct_CollectsAllFieldErrors(t *testing.T) {
	err := Struct(sample{Email: "not-an-email", Reason: ""})

	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, err.Error(), "Email")
	assert.Contains(t, err.Error(), "Reason")
}
