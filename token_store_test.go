package finmind_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finmind/finmind-go"
)

func TestMemoryTokenStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := finmind.NewMemoryTokenStore()

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "empty store reports the absence marker")

	require.NoError(t, store.Save(ctx, "jwt-token"))

	token, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)

	require.NoError(t, store.Clear(ctx))

	token, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestMemoryTokenStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := finmind.NewMemoryTokenStore()

	require.NoError(t, store.Save(ctx, "first"))
	require.NoError(t, store.Save(ctx, "second"))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

// MockCredentialOps implements finmind.CredentialOps
type MockCredentialOps struct {
	mock.Mock
}

func (m *MockCredentialOps) GetByKey(ctx context.Context, key string) (*finmind.Credential, error) {
	args := m.Called(ctx, key)
	record, _ := args.Get(0).(*finmind.Credential)
	return record, args.Error(1)
}

func (m *MockCredentialOps) Put(ctx context.Context, key, value string) (*finmind.Credential, error) {
	args := m.Called(ctx, key, value)
	record, _ := args.Get(0).(*finmind.Credential)
	return record, args.Error(1)
}

func (m *MockCredentialOps) Purge(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestCredentialTokenStoreSave(t *testing.T) {
	ctx := context.Background()
	repo := &MockCredentialOps{}
	repo.On("Put", ctx, "token", "jwt-token").Return(&finmind.Credential{Value: "jwt-token"}, nil)

	store := finmind.NewCredentialTokenStore(repo)

	require.NoError(t, store.Save(ctx, "jwt-token"))
	repo.AssertExpectations(t)
}

func TestCredentialTokenStoreSaveEmptyClears(t *testing.T) {
	ctx := context.Background()
	repo := &MockCredentialOps{}
	repo.On("Purge", ctx, "token").Return(nil)

	store := finmind.NewCredentialTokenStore(repo)

	require.NoError(t, store.Save(ctx, ""))
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestCredentialTokenStoreGetMissingIsAbsence(t *testing.T) {
	ctx := context.Background()
	repo := &MockCredentialOps{}
	repo.On("GetByKey", ctx, "token").Return(nil, finmind.ErrCredentialNotFound)

	store := finmind.NewCredentialTokenStore(repo)

	token, err := store.Get(ctx)
	require.NoError(t, err, "a missing row is absence, not an error")
	assert.Empty(t, token)
}

func TestCredentialTokenStoreGetPropagatesBackendError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db locked")

	repo := &MockCredentialOps{}
	repo.On("GetByKey", ctx, "token").Return(nil, boom)

	store := finmind.NewCredentialTokenStore(repo)

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestCredentialTokenStoreCustomKey(t *testing.T) {
	ctx := context.Background()
	repo := &MockCredentialOps{}
	repo.On("GetByKey", ctx, "session_token").Return(&finmind.Credential{Value: "jwt"}, nil)

	store := finmind.NewCredentialTokenStore(repo, finmind.WithCredentialKey("session_token"))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)
	repo.AssertExpectations(t)
}
