package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestSessionService_IsSubscribed(t *testing.T) {
	const email = "test@example.com"

	tests := []struct {
		name          string
		email         string
		mockSetup     func(*MockAccountRepository)
		expected      bool
		expectedError bool
	}{
		{
			name:  "subscribed account",
			email: email,
			mockSetup: func(accounts *MockAccountRepository) {
				accounts.On("FindFirstByEmail", mock.Anything, email).Return(linkedAccount("cus_123", true), nil)
			},
			expected: true,
		},
		{
			name:  "unsubscribed account",
			email: email,
			mockSetup: func(accounts *MockAccountRepository) {
				accounts.On("FindFirstByEmail", mock.Anything, email).Return(linkedAccount("cus_123", false), nil)
			},
		},
		{
			name:  "flag without customer is not trusted",
			email: email,
			mockSetup: func(accounts *MockAccountRepository) {
				accounts.On("FindFirstByEmail", mock.Anything, email).Return(linkedAccount("", true), nil)
			},
		},
		{
			name:  "no account",
			email: email,
			mockSetup: func(accounts *MockAccountRepository) {
				accounts.On("FindFirstByEmail", mock.Anything, email).Return(nil, nil)
			},
		},
		{
			name:      "no email",
			mockSetup: func(*MockAccountRepository) {},
		},
		{
			name:  "store failure",
			email: email,
			mockSetup: func(accounts *MockAccountRepository) {
				accounts.On("FindFirstByEmail", mock.Anything, email).Return(nil, errors.New("db down"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(MockAccountRepository)
			tt.mockSetup(accounts)

			service := NewSessionService(accounts, zap.NewNop())

			subscribed, err := service.IsSubscribed(context.Background(), tt.email)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, subscribed)
			accounts.AssertExpectations(t)
		})
	}
}
