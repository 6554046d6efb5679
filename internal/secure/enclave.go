package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned by Open after Destroy.
var ErrDestroyed = errors.New("secure buffer destroyed")

// SecureBuffer holds one secret encrypted in a memguard enclave.
//
// A zero-length secret is represented without an enclave; Open then returns an
// empty locked buffer.
type SecureBuffer struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	destroyed bool
}

// Seal moves src into a new SecureBuffer. src is wiped before Seal returns.
func Seal(src []byte) *SecureBuffer {
	defer memguard.WipeBytes(src)

	if len(src) == 0 {
		return &SecureBuffer{}
	}
	return &SecureBuffer{enclave: memguard.NewEnclave(src)}
}

// Open decrypts the secret into a locked buffer. The caller must Destroy the
// returned buffer as soon as the plaintext is no longer needed.
func (s *SecureBuffer) Open() (*memguard.LockedBuffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed {
		return nil, ErrDestroyed
	}
	if s.enclave == nil {
		return memguard.NewBuffer(0), nil
	}
	return s.enclave.Open()
}

// Destroy drops the enclave. Idempotent.
//
// The ciphertext is left for the garbage collector; it is unreadable without
// the session key, which memguard.Purge destroys at process exit.
func (s *SecureBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enclave = nil
	s.destroyed = true
}

// Wipe overwrites b with zeroes.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
