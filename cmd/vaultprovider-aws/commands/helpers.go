package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	dserrors "github.com/systmms/vaultprovider-aws/internal/errors"
	"github.com/systmms/vaultprovider-aws/internal/secure"
	"gopkg.in/yaml.v3"
)

// readConfig loads the provider configuration named by --config and returns
// it as a JSON document. YAML files are converted. The caller owns the
// returned buffer and should wipe it.
func readConfig(opts *Options) ([]byte, error) {
	path := opts.ConfigPath
	if path == "" {
		return nil, dserrors.UserError{
			Message:    "Provider configuration is required",
			Suggestion: "Use --config <file> or --config - to read it from stdin",
		}
	}

	var (
		raw []byte
		err error
	)
	if path == "-" {
		if opts.Stdin == nil {
			return nil, dserrors.UserError{Message: "No stdin available for --config -"}
		}
		raw, err = io.ReadAll(opts.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, dserrors.SimplifyError(fmt.Errorf("read config %s: %w", path, err))
	}

	if !isYAML(path, raw) {
		return raw, nil
	}

	defer secure.Wipe(raw)
	return yamlToJSON(raw)
}

// isYAML reports whether the config should be treated as YAML: by file
// extension, or for stdin when the document does not start like JSON.
func isYAML(path string, raw []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	case ".json":
		return false
	}
	if path != "-" {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != '['
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
			Err:        err,
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, dserrors.ConfigError{
			Message:    "YAML document cannot be represented as JSON",
			Suggestion: "Use string keys and scalar values only",
			Err:        err,
		}
	}
	return out, nil
}
