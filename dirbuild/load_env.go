package dirbuild

import (
	"fmt"
	"os"

	"github.com/signadot/xmlpatch/debug"

	"github.com/goccy/go-yaml"
)

const (
	EnvEnv = "XPATCH_ENV"
)

// LoadEnv decodes the YAML (or JSON) mapping held in $XPATCH_ENV. It
// returns nil when the variable is unset.
func LoadEnv() (map[string]any, error) {
	envEnv := os.Getenv(EnvEnv)
	if envEnv == "" {
		return nil, nil
	}
	return decodeEnv([]byte(envEnv), "$"+EnvEnv)
}

func decodeEnv(d []byte, from string) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal(d, &v); err != nil {
		return nil, fmt.Errorf("error decoding env %s: %w", from, err)
	}
	if v == nil {
		return map[string]any{}, nil
	}
	env, ok := toStringMap(v)
	if !ok {
		return nil, fmt.Errorf("error decoding env %s: wrong type %T", from, v)
	}
	if debug.LoadEnv() {
		debug.Logf("\nloaded env from %s: %s\n", from, env)
	}
	return env, nil
}

// toStringMap converts the generic mappings produced by the YAML decoder
// into map[string]any, recursively.
func toStringMap(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeYAML(e)
		}
		return x, true
	case map[any]any:
		res := make(map[string]any, len(x))
		for k, e := range x {
			res[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return res, true
	default:
		return nil, false
	}
}

func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any, map[any]any:
		m, _ := toStringMap(x)
		return m
	case []any:
		for i, e := range x {
			x[i] = normalizeYAML(e)
		}
		return x
	case uint64:
		return int(x)
	case int64:
		return int(x)
	default:
		return v
	}
}
