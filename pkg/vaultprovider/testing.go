package vaultprovider

import (
	"context"
	"errors"
	"testing"
)

// FactoryContract describes a backend under test for RunFactoryContractTests.
type FactoryContract struct {
	// Factory is the implementation under test.
	Factory Factory

	// ValidConfig returns a configuration Create accepts. It is called once per
	// use because factories may wipe the buffer they are given.
	ValidConfig func() []byte

	// ExistingSecret names a secret the backend holds, with ExpectedValue as its value.
	ExistingSecret string
	ExpectedValue  string

	// MissingSecret names a secret the backend reports as absent.
	MissingSecret string

	// SkipCancellation skips the cancelled-context check for backends that
	// cannot observe cancellation.
	SkipCancellation bool
}

// RunFactoryContractTests runs the behaviour every host relies on against a
// backend's Factory and the providers it creates.
func RunFactoryContractTests(t *testing.T, contract FactoryContract) {
	t.Run("Contract", func(t *testing.T) {
		t.Run("RejectsMalformedConfig", func(t *testing.T) {
			testRejectsMalformedConfig(t, contract)
		})

		t.Run("CreateAndGet", func(t *testing.T) {
			testCreateAndGet(t, contract)
		})

		t.Run("NotFound", func(t *testing.T) {
			testNotFound(t, contract)
		})

		if !contract.SkipCancellation {
			t.Run("ContextCancellation", func(t *testing.T) {
				testContextCancellation(t, contract)
			})
		}
	})
}

func testRejectsMalformedConfig(t *testing.T, contract FactoryContract) {
	ctx := context.Background()

	for _, raw := range []string{"", "{", "[]", `{"region":`} {
		if err := contract.Factory.Validate(ctx, []byte(raw)); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Validate(%q) error = %v, want ErrInvalidConfiguration", raw, err)
		}

		p, err := contract.Factory.Create(ctx, []byte(raw))
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Create(%q) error = %v, want ErrInvalidConfiguration", raw, err)
		}
		if p != nil {
			t.Errorf("Create(%q) returned a provider alongside an error", raw)
		}
	}
}

func testCreateAndGet(t *testing.T, contract FactoryContract) {
	p := mustCreate(t, contract)

	if p.Name() == "" {
		t.Error("Provider.Name() returned empty string")
	}

	secret, err := p.GetSecret(context.Background(), contract.ExistingSecret)
	if err != nil {
		t.Fatalf("GetSecret(%q) error = %v", contract.ExistingSecret, err)
	}
	if secret.Value != contract.ExpectedValue {
		t.Errorf("GetSecret(%q) returned an unexpected value", contract.ExistingSecret)
	}
}

func testNotFound(t *testing.T, contract FactoryContract) {
	p := mustCreate(t, contract)

	_, err := p.GetSecret(context.Background(), contract.MissingSecret)
	if !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("GetSecret(%q) error = %v, want ErrSecretNotFound", contract.MissingSecret, err)
	}

	var notFound *SecretNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("GetSecret(%q) error %T is not *SecretNotFoundError", contract.MissingSecret, err)
	}
	if notFound.Name != contract.MissingSecret {
		t.Errorf("SecretNotFoundError.Name = %q, want %q", notFound.Name, contract.MissingSecret)
	}
}

func testContextCancellation(t *testing.T, contract FactoryContract) {
	p := mustCreate(t, contract)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.GetSecret(ctx, contract.ExistingSecret); err == nil {
		t.Error("GetSecret with cancelled context should fail")
	}
}

func mustCreate(t *testing.T, contract FactoryContract) Provider {
	t.Helper()

	p, err := contract.Factory.Create(context.Background(), contract.ValidConfig())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p == nil {
		t.Fatal("Create() returned nil provider")
	}
	return p
}
