// Package store defines the persistence interfaces the services depend on.
// Keeping the interfaces here, separate from the postgres implementations,
// lets the business logic stay ignorant of the storage technology and makes
// the stores trivially mockable in tests.
package store
