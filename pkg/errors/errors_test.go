package errors

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	cloned := Clone(ErrInvalidTransition, "application already decided")
	assert.Equal(t, "application already decided", cloned.Message)
	assert.Equal(t, http.StatusConflict, cloned.Status)
	assert.True(t, errors.Is(cloned, ErrInvalidTransition))
	assert.False(t, errors.Is(cloned, ErrConflict))
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, sql.ErrConnDone)

	assert.Nil(t, FromError(nil))
	assert.Same(t, ErrForbidden, FromError(ErrForbidden))
}
