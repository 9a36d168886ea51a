// Package service implements the orchestration layer invoked by the task
// mutation endpoints: recurrence lifecycle (create, update, disable) and
// status transitions with their history ledger.
package service
