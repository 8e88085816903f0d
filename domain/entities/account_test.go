package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccount_CanCover(t *testing.T) {
	account := &Account{Balance: 1000}

	assert.True(t, account.CanCover(999))
	assert.True(t, account.CanCover(1000))
	assert.False(t, account.CanCover(1001))
}

func TestAccount_ValidateStake(t *testing.T) {
	account := &Account{Balance: 1000}

	assert.NoError(t, account.ValidateStake(1000))
	assert.ErrorIs(t, account.ValidateStake(0), ErrInvalidAmount)
	assert.ErrorIs(t, account.ValidateStake(-1), ErrInvalidAmount)
	assert.ErrorIs(t, account.ValidateStake(1001), ErrInsufficientFunds)
}
