package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	passstore "github.com/bnema/check-efy/internal/adapters/secrets/pass"
	"github.com/bnema/check-efy/internal/ports"
	portmocks "github.com/bnema/check-efy/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const accountIDKey = "check-efy/twilio/account-id"

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, accountIDKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), accountIDKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, accountIDKey).Return("", passstore.ErrUnavailable).Once()
	fallback.EXPECT().Get(mock.Anything, accountIDKey).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), accountIDKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetReturnsCombinedErrorWhenBothBackendsFail(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, accountIDKey).Return("", errors.New("pass failed")).Once()
	fallback.EXPECT().Get(mock.Anything, accountIDKey).Return("", errors.New("file failed")).Once()

	_, err := store.Get(context.Background(), accountIDKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrSecretNotFound)
	assert.ErrorContains(t, err, "primary backend")
	assert.ErrorContains(t, err, "fallback backend")
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorContains(t, err, "file failed")
}

func TestStoreGetReportsNotFoundWhenNoBackendHasTheKey(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		primaryErr error
	}{
		{name: "pass entry missing", primaryErr: fmt.Errorf("pass get: %w", ports.ErrSecretNotFound)},
		{name: "pass not installed", primaryErr: passstore.ErrUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			primary := portmocks.NewMockSecretStore(t)
			fallback := portmocks.NewMockSecretStore(t)
			store := NewStore(primary, fallback)

			primary.EXPECT().Get(mock.Anything, accountIDKey).Return("", tc.primaryErr).Once()
			fallback.EXPECT().Get(mock.Anything, accountIDKey).Return("", fmt.Errorf("file: %w", ports.ErrSecretNotFound)).Once()

			_, err := store.Get(context.Background(), accountIDKey)
			assert.ErrorIs(t, err, ports.ErrSecretNotFound)
		})
	}
}

func TestStorePutFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, accountIDKey, "AC123").Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Put(mock.Anything, accountIDKey, "AC123").Return(nil).Once()

	err := store.Put(context.Background(), accountIDKey, "AC123")
	require.NoError(t, err)
}

func TestStorePutDoesNotCallFallbackWhenPrimarySucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, accountIDKey, "AC123").Return(nil).Once()

	err := store.Put(context.Background(), accountIDKey, "AC123")
	require.NoError(t, err)
}

func TestStoreGetDoesNotFallbackOnCanceledContextError(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, accountIDKey).Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), accountIDKey)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewStoreCheckedRejectsNilBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStoreChecked(nil, portmocks.NewMockSecretStore(t))
	assert.ErrorIs(t, err, errNilPrimaryStore)

	_, err = NewStoreChecked(portmocks.NewMockSecretStore(t), nil)
	assert.ErrorIs(t, err, errNilFallbackStore)
}
