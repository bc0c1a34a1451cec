// Package mocks provides mock implementations for testing the console services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockUsers := mocks.NewMockUserAPI(ctrl)
//	mockUsers.EXPECT().GetUsers(gomock.Any(), "token").Return(users, nil)
package mocks

// Generate mock for UserAPI interface from internal/ports package.
// This creates MockUserAPI with methods for all UserAPI interface methods:
// GetMe, UpdateMe, GetUsers, UpdateUser, CreateUser, PasswordRecovery, ResetPassword
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_api_mock.go github.com/target/appconsole/internal/ports UserAPI

// Generate mock for AuthAPI interface from internal/ports package.
// This creates MockAuthAPI with methods for all AuthAPI interface methods:
// LogInGetToken
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/target/appconsole/internal/ports AuthAPI
