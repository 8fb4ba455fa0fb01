// Package identity persists login credentials and verifies submitted secrets.
//
// There is exactly one credential record per known identifier. Records are
// created out-of-band (the insert-hash subcommand or the bootstrap env pair),
// never by a client-facing endpoint; the only mutation is hash rotation
// through the same administrative path.
package identity
