package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrProductNotFound, KindNotFound},
		{ErrTransferNotFound, KindNotFound},
		{ErrInvalidQuantity, KindInvalidInput},
		{ErrSameSite, KindInvalidInput},
		{ErrInsufficientStock, KindInsufficientStock},
		{ErrInsufficientStockForReversal, KindInsufficientStockForReversal},
		{ErrAlreadyVoided, KindAlreadyVoided},
		{ErrInvalidTransition, KindInvalidTransition},
		{ErrForbidden, KindForbidden},
		{ErrConcurrencyConflict, KindConcurrencyConflict},
		{ErrLedgerInconsistency, KindLedgerInconsistency},
		{fmt.Errorf("update stock: %w", ErrInsufficientStock), KindInsufficientStock},
		{errors.New("conexión rechazada"), KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err), "%v", tt.err)
	}
}

func TestSpecificErrorsKeepCategory(t *testing.T) {
	assert.ErrorIs(t, ErrSiteNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrMovementNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrInvalidQuantity, ErrInvalidInput)
	assert.ErrorIs(t, ErrAlreadyVoided, ErrInvalidTransition)
	assert.NotErrorIs(t, ErrInsufficientStockForReversal, ErrInsufficientStock)
}
