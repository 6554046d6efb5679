package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
)

var (
	documentKeyNames = []string{"region", "auth"}
	authKeyNames     = []string{"type", "access_key_id", "secret_access_key", "session_token"}
)

// skipValue discards a JSON value without copying it.
type skipValue struct{}

func (*skipValue) UnmarshalJSON([]byte) error { return nil }

// objectKeys collects the member names of a JSON object. Any other value
// leaves it nil; the typed decode reports those.
type objectKeys map[string]skipValue

func (k *objectKeys) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var names map[string]skipValue
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*k = names
	return nil
}

// documentKeys collects the top-level member names and, for object members,
// their names one level down.
type documentKeys map[string]objectKeys

func (k *documentKeys) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var names map[string]objectKeys
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*k = names
	return nil
}

// checkKeyCase rejects members whose names equal a known key except for case.
// encoding/json matches field names case-insensitively, so without this check
// "REGION" would satisfy a missing "region" and "Region" could override it.
func checkKeyCase(data []byte) error {
	var doc documentKeys
	if err := json.Unmarshal(data, &doc); err != nil {
		return vaultprovider.NewInvalidConfigurationError(decodeMessage(err), err)
	}

	problems := miscased("", doc.names(), documentKeyNames)
	if auth, ok := doc["auth"]; ok {
		problems = append(problems, miscased("auth.", auth.names(), authKeyNames)...)
	}
	if len(problems) == 0 {
		return nil
	}
	return vaultprovider.NewInvalidConfigurationError(strings.Join(problems, "; "), nil)
}

func (k documentKeys) names() []string {
	names := make([]string, 0, len(k))
	for name := range k {
		names = append(names, name)
	}
	return names
}

func (k objectKeys) names() []string {
	names := make([]string, 0, len(k))
	for name := range k {
		names = append(names, name)
	}
	return names
}

func miscased(prefix string, names, known []string) []string {
	sort.Strings(names)

	var problems []string
	for _, name := range names {
		for _, want := range known {
			if name != want && strings.EqualFold(name, want) {
				problems = append(problems, fmt.Sprintf("%s%s: unknown key, keys are case-sensitive (did you mean %q?)", prefix, name, want))
				break
			}
		}
	}
	return problems
}
