package codes

import (
	"errors"
	"fmt"
	"net/http"
	"openrate/core"
	"testing"

	"github.com/fox-one/pkg/store/db"
	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
	}{
		{core.ErrBidNotFound, http.StatusNotFound, 6012},
		{core.ErrBidInactive, http.StatusPreconditionFailed, 6000},
		{core.ErrInvalidAmount, http.StatusBadRequest, 6010},
		{core.ErrUnauthorizedLender, http.StatusForbidden, 6009},
		{core.ErrDuplicateMarket, http.StatusConflict, 6008},
		{fmt.Errorf("borrow: %w", core.ErrAlreadyRepaid), http.StatusPreconditionFailed, 6006},
		{db.ErrOptimisticLock, http.StatusConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError, http.StatusInternalServerError},
	}

	for _, c := range cases {
		status, code := Get(c.err)
		assert.Equal(t, c.status, status, c.err.Error())
		assert.Equal(t, c.code, code, c.err.Error())
	}
}
