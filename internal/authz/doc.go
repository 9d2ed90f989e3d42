// Package authz evaluates declared permission and role requirements
// against the tenant carrier in the context.
//
// Requirements are declarative: a protected operation states what it needs
// ({permissions, ALL|ANY} or a minimum role) and enforces it at entry via
// Require, RequireRole or the RunWith* wrappers. Checks are pure functions
// over the permission set already attached to the carrier; they issue no
// lookups and are safe under arbitrary concurrency.
//
// For operations producing a deferred result, ExecuteGuarded evaluates the
// check against the context captured by the continuation, never against
// the state of whichever worker happens to run it.
package authz
