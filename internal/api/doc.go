// Package api provides the operational HTTP surface: liveness and readiness
// endpoints for process supervisors and load balancers. The user-facing task
// API is served by a separate frontend service.
package api
