// Package config parses the AWS Secrets Manager provider configuration.
//
// The document is small:
//
//	{
//	  "region": "eu-west-1",
//	  "auth": {
//	    "type": "AccessKey",
//	    "access_key_id": "AKIA...",
//	    "secret_access_key": "...",
//	    "session_token": "..."
//	  }
//	}
//
// auth is a union tagged by its type field. AccessKey is the only method today;
// new methods get their own tag and their own field on AWSAuth so existing
// documents keep parsing.
package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/systmms/vaultprovider-aws/internal/secure"
	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
)

// AuthType tags the authentication method in the auth object.
type AuthType string

// AuthTypeAccessKey selects static access-key credentials.
const AuthTypeAccessKey AuthType = "AccessKey"

// AWSConfig is a parsed provider configuration.
type AWSConfig struct {
	Region string
	Auth   AWSAuth
}

// AWSAuth holds the authentication method selected by Type. Exactly the field
// matching Type is set.
type AWSAuth struct {
	Type      AuthType
	AccessKey *AccessKeyAuth
}

// AccessKeyAuth is a static IAM access key pair with an optional session token.
type AccessKeyAuth struct {
	AccessKeyID     secure.Bytes
	SecretAccessKey secure.Bytes
	SessionToken    secure.Bytes
}

// Wipe zeroes the credential buffers.
func (a *AccessKeyAuth) Wipe() {
	if a == nil {
		return
	}
	a.AccessKeyID.Wipe()
	a.SecretAccessKey.Wipe()
	a.SessionToken.Wipe()
}

// Wipe zeroes every credential held by the configuration. Idempotent.
func (c *AWSConfig) Wipe() {
	if c == nil {
		return
	}
	c.Auth.AccessKey.Wipe()
}

// ParseAWS parses and validates a configuration document. data is not
// modified; callers that own it should wipe it afterwards.
//
// Keys are matched exactly. A key that differs from a known one only in case
// is rejected rather than bound to it.
//
// Every failure is a *vaultprovider.InvalidConfigurationError.
func ParseAWS(data []byte) (*AWSConfig, error) {
	if err := checkKeyCase(data); err != nil {
		return nil, err
	}

	var doc awsDocument
	defer doc.wipe()

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, vaultprovider.NewInvalidConfigurationError(decodeMessage(err), err)
	}

	if err := validateAWSShape(doc.shape()); err != nil {
		return nil, err
	}

	return doc.take(), nil
}

// awsDocument mirrors the wire format. A nil Region or credential and an
// absent auth distinguish missing fields from empty ones for schema validation.
type awsDocument struct {
	Region *string      `json:"region"`
	Auth   authDocument `json:"auth"`
}

type authDocument struct {
	present bool
	authFields
}

type authFields struct {
	Type            *string      `json:"type"`
	AccessKeyID     secure.Bytes `json:"access_key_id"`
	SecretAccessKey secure.Bytes `json:"secret_access_key"`
	SessionToken    secure.Bytes `json:"session_token"`
}

// UnmarshalJSON decodes into the existing value so a repeated auth key wipes
// the credentials it replaces.
func (a *authDocument) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.wipe()
		*a = authDocument{}
		return nil
	}
	a.present = true
	if err := json.Unmarshal(data, &a.authFields); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

func (a *authDocument) wipe() {
	a.AccessKeyID.Wipe()
	a.SecretAccessKey.Wipe()
	a.SessionToken.Wipe()
}

// shape returns the document with credential values masked, for schema checks.
func (d *awsDocument) shape() map[string]interface{} {
	shape := map[string]interface{}{}
	if d.Region != nil {
		shape["region"] = *d.Region
	}
	if d.Auth.present {
		auth := map[string]interface{}{}
		if d.Auth.Type != nil {
			auth["type"] = *d.Auth.Type
		}
		putMasked(auth, "access_key_id", d.Auth.AccessKeyID)
		putMasked(auth, "secret_access_key", d.Auth.SecretAccessKey)
		putMasked(auth, "session_token", d.Auth.SessionToken)
		shape["auth"] = auth
	}
	return shape
}

func putMasked(m map[string]interface{}, key string, b secure.Bytes) {
	if b != nil {
		m[key] = b.Mask()
	}
}

// take moves the validated document into an AWSConfig. The document no longer
// references the credential buffers afterwards.
func (d *awsDocument) take() *AWSConfig {
	cfg := &AWSConfig{
		Region: *d.Region,
		Auth:   AWSAuth{Type: AuthType(*d.Auth.Type)},
	}

	switch cfg.Auth.Type {
	case AuthTypeAccessKey:
		cfg.Auth.AccessKey = &AccessKeyAuth{
			AccessKeyID:     d.Auth.AccessKeyID,
			SecretAccessKey: d.Auth.SecretAccessKey,
			SessionToken:    d.Auth.SessionToken,
		}
		d.Auth.AccessKeyID = nil
		d.Auth.SecretAccessKey = nil
		d.Auth.SessionToken = nil
	}

	return cfg
}

func (d *awsDocument) wipe() {
	d.Auth.wipe()
}

func decodeMessage(err error) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("malformed JSON at offset %d: %v", syntaxErr.Offset, syntaxErr)
	}
	return err.Error()
}
