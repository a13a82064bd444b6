// Package api implements the registry's npm HTTP protocol surface.
//
// # Overview
//
// Server wraps a *policy.Policy behind a gorilla/mux router. Each route
// matches one entry of the protocol's external interface: packument and
// tarball reads (served through the policy's package-storage slot),
// publish (diffed and applied via pkg/publish, then persisted through the
// same slot), and the OAuth login/whoami/user-lookup routes (served
// through the authenticator, token-authorizer, and user-storage slots).
//
// # Errors
//
// Every handler funnels failures through writeError, which maps an
// apierrors.Kind to an HTTP status and writes {"message": <reason>} —
// the only error shape this surface ever returns.
//
// # Related Packages
//
//   - pkg/policy: the capability composer Server delegates to
//   - pkg/publish: the diff/apply logic behind the publish handlers
//   - pkg/packageid, pkg/packument: the wire types handlers decode/encode
package api
