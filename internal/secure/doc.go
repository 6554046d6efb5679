// Package secure keeps credential material out of ordinary Go memory for as
// long as possible.
//
// Credentials arrive as JSON strings inside a configuration document. The
// package offers two tools for them:
//
//   - Bytes, a JSON string decoded into a mutable buffer that can be wiped once
//     the value has been handed on.
//   - SecureBuffer, a memguard enclave that keeps the value encrypted
//     (XSalsa20Poly1305) in memory and only exposes plaintext inside a locked,
//     guard-paged buffer for the duration of a single use.
//
// # Usage
//
//	buf := secure.Seal(cfg.SecretAccessKey) // wipes the source
//	defer buf.Destroy()
//
//	locked, err := buf.Open()
//	if err != nil {
//	    return err
//	}
//	defer locked.Destroy()
//	use(locked.Bytes())
//
// # Platform Behavior
//
// On Linux memguard needs RLIMIT_MEMLOCK headroom to mlock its pages. When mlock
// is unavailable it falls back to ordinary memory; the enclave contents stay
// encrypted either way.
//
// # Limits
//
// Go strings are immutable, so any value converted to a string (for example to
// satisfy an SDK signature) lives until the garbage collector reclaims it. The
// package shortens that window; it cannot close it.
package secure
