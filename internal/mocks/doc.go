// Package mocks provides centralized mock implementations for testing.
//
// This package contains testify/mock implementations of the store and
// delivery-channel interfaces, so individual test packages share one set of
// mock behaviors instead of redefining inline fakes.
package mocks
