// Package policy composes the registry's five capability slots
// (PackageStorage, Authenticator, TokenAuthorizer, UserStorage,
// Configurator) behind a single object the HTTP layer holds.
//
// Construction is additive:
//
//	p := policy.New().
//		WithPackageStorage(composer).
//		WithAuthenticator(authenticator).
//		WithTokenAuthorizer(tokenAuthorizer).
//		WithUserStorage(userStore).
//		WithConfigurator(cfg)
//
// A slot left unfilled answers every call with an apierrors NotImplemented
// error rather than a nil-pointer panic (the Configurator slot, whose
// methods return no error, answers with an empty FQDN and a nil cookie
// secret), so a partially-configured policy
// (e.g. one built for a test that only exercises package storage) is
// still safe to call through its full method set.
package policy
