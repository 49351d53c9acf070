// Package mocks provides testify mocks for the secret use case interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/allisson/secretstore/internal/secrets/domain"
)

// MockSecretRepository is a mock implementation of SecretRepository.
type MockSecretRepository struct {
	mock.Mock
}

// NewMockSecretRepository creates a MockSecretRepository whose expectations are asserted
// when the test ends.
func NewMockSecretRepository(t *testing.T) *MockSecretRepository {
	m := &MockSecretRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create mocks the Create method of SecretRepository.
func (m *MockSecretRepository) Create(ctx context.Context, row *secretsDomain.SecretRow) (int64, error) {
	args := m.Called(ctx, row)
	return args.Get(0).(int64), args.Error(1)
}

// GetByIDAndVersion mocks the GetByIDAndVersion method of SecretRepository.
func (m *MockSecretRepository) GetByIDAndVersion(
	ctx context.Context,
	id int64,
	version secretsDomain.Version,
) (*secretsDomain.SecretRow, error) {
	args := m.Called(ctx, id, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.SecretRow), args.Error(1)
}

// GetByNameAndVersion mocks the GetByNameAndVersion method of SecretRepository.
func (m *MockSecretRepository) GetByNameAndVersion(
	ctx context.Context,
	name string,
	version secretsDomain.Version,
) (*secretsDomain.SecretRow, error) {
	args := m.Called(ctx, name, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.SecretRow), args.Error(1)
}

// ListByName mocks the ListByName method of SecretRepository.
func (m *MockSecretRepository) ListByName(ctx context.Context, name string) ([]*secretsDomain.SecretRow, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.SecretRow), args.Error(1)
}

// MockSecretUseCase is a mock implementation of SecretUseCase.
type MockSecretUseCase struct {
	mock.Mock
}

// NewMockSecretUseCase creates a MockSecretUseCase whose expectations are asserted when
// the test ends.
func NewMockSecretUseCase(t *testing.T) *MockSecretUseCase {
	m := &MockSecretUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create mocks the Create method of SecretUseCase.
func (m *MockSecretUseCase) Create(
	ctx context.Context,
	input *secretsDomain.CreateSecretInput,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// CreateUnversioned mocks the CreateUnversioned method of SecretUseCase.
func (m *MockSecretUseCase) CreateUnversioned(
	ctx context.Context,
	name string,
	content []byte,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, name, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// GetByIDAndVersion mocks the GetByIDAndVersion method of SecretUseCase.
func (m *MockSecretUseCase) GetByIDAndVersion(
	ctx context.Context,
	id int64,
	version secretsDomain.Version,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, id, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// GetByNameAndVersion mocks the GetByNameAndVersion method of SecretUseCase.
func (m *MockSecretUseCase) GetByNameAndVersion(
	ctx context.Context,
	name string,
	version secretsDomain.Version,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, name, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// ListVersions mocks the ListVersions method of SecretUseCase.
func (m *MockSecretUseCase) ListVersions(ctx context.Context, name string) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}
