// Package password hashes and verifies login secrets with Argon2id.
//
// Hashes are encoded as PHC-like strings:
//
//	$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>
//
// Encoded hashes are treated as untrusted input during Verify: they are
// strictly decoded and rejected when their cost parameters exceed reasonable
// bounds, so an attacker-supplied hash string cannot drive pathological
// resource usage.
package password
