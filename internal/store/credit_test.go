package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditStore_GrantAndBalance(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	balance, err := store.Credit().Balance("alice")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	require.NoError(t, store.Credit().Grant("alice", 3))
	require.NoError(t, store.Credit().Grant("alice", 2))

	balance, err = store.Credit().Balance("alice")
	require.NoError(t, err)
	assert.Equal(t, 5, balance)
}

func TestCreditStore_HasCredit(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	has, err := store.Credit().HasCredit("nobody")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.Credit().Grant("bob", 1))

	has, err = store.Credit().HasCredit("bob")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCreditStore_ConsumeCredit(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	require.NoError(t, store.Credit().Grant("carol", 2))

	consumed, err := store.Credit().ConsumeCredit("carol")
	require.NoError(t, err)
	assert.True(t, consumed)

	consumed, err = store.Credit().ConsumeCredit("carol")
	require.NoError(t, err)
	assert.True(t, consumed)

	// Balance exhausted, the conditional decrement must refuse
	consumed, err = store.Credit().ConsumeCredit("carol")
	require.NoError(t, err)
	assert.False(t, consumed)

	balance, err := store.Credit().Balance("carol")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestCreditStore_ConsumeCredit_UnknownOwner(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	consumed, err := store.Credit().ConsumeCredit("ghost")
	require.NoError(t, err)
	assert.False(t, consumed)
}
