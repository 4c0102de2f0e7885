// Package mocks provides mock implementations for testing the poliza job system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	surface := mocks.NewMockCallSurface(ctrl)
//	surface.EXPECT().Open(gomock.Any()).Return(nil)
package mocks

// Generate mock for the accounting SDK call surface from internal/backend.
// This creates MockCallSurface with methods for all CallSurface interface methods:
// Open, Close, CreateEntry, AddMovement
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=call_surface_mock.go github.com/contaflow/poliza-api/internal/backend CallSurface
