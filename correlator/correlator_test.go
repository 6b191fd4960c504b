package correlator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocksense/procurebot/correlator"
)

const testUserID int64 = 77

func TestBeginAndResolve(t *testing.T) {
	broker := correlator.NewInMemoryBroker()

	handle, err := broker.Begin(testUserID)
	require.NoError(t, err)
	require.NotEmpty(t, handle)

	userID, err := broker.Resolve(handle)
	require.NoError(t, err)
	require.Equal(t, testUserID, userID)
}

func TestResolveIsDestructive(t *testing.T) {
	broker := correlator.NewInMemoryBroker()

	handle, err := broker.Begin(testUserID)
	require.NoError(t, err)

	_, err = broker.Resolve(handle)
	require.NoError(t, err)

	_, err = broker.Resolve(handle)
	require.ErrorIs(t, err, correlator.ErrUnknownHandle)
}

func TestBeginInvalidatesPreviousHandle(t *testing.T) {
	broker := correlator.NewInMemoryBroker()

	first, err := broker.Begin(testUserID)
	require.NoError(t, err)
	second, err := broker.Begin(testUserID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = broker.Resolve(first)
	require.ErrorIs(t, err, correlator.ErrUnknownHandle)

	userID, err := broker.Resolve(second)
	require.NoError(t, err)
	require.Equal(t, testUserID, userID)
}

func TestResolveUnknownHandle(t *testing.T) {
	broker := correlator.NewInMemoryBroker()

	_, err := broker.Resolve("never-issued")
	require.ErrorIs(t, err, correlator.ErrUnknownHandle)

	_, err = broker.Resolve("")
	require.ErrorIs(t, err, correlator.ErrUnknownHandle)
}

func TestHandlesAreUnguessablePerUser(t *testing.T) {
	broker := correlator.NewInMemoryBroker()

	a, err := broker.Begin(1)
	require.NoError(t, err)
	b, err := broker.Begin(2)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	userID, err := broker.Resolve(b)
	require.NoError(t, err)
	require.Equal(t, int64(2), userID)

	userID, err = broker.Resolve(a)
	require.NoError(t, err)
	require.Equal(t, int64(1), userID)
}
