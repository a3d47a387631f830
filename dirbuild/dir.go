// Package dirbuild interprets an xmlpatch build directory.
//
// A build directory holds a build.yaml (or build.yml) file:
//
//	build:
//	  root: Defs
//	  destDir: out
//	  sources:
//	  - dir: defs
//	  - exec: ./gen-defs $[mode]
//	  patches:
//	  - dir: patches
//	  - file: release.xml
//	    if: mode == "release"
//	  env:
//	    mode: debug
//
// The element children of every source document are gathered under one
// document whose root element is named by root. The patch files are then
// decoded and run through an xmlpatch.Pipeline against that document.
package dirbuild

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/eval"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/goccy/go-yaml"
)

const (
	DefaultSuffix = ".xml"
	DefaultRoot   = "Defs"
)

// Dir is a build directory. With Split set, each element under the root is
// written to a file of its own.
type Dir struct {
	Root    string         `yaml:"-"`
	Name    string         `yaml:"root,omitempty"`
	Suffix  string         `yaml:"suffix,omitempty"`
	DestDir string         `yaml:"destDir,omitempty"`
	Split   bool           `yaml:"split,omitempty"`
	Sources []DirSource    `yaml:"sources"`
	Patches []DirPatch     `yaml:"patches,omitempty"`
	Env     map[string]any `yaml:"env,omitempty"`

	Log *slog.Logger `yaml:"-"`

	nameCache map[string]int
}

type buildFile struct {
	Build *Dir `yaml:"build"`
}

// OpenDir reads the build file of the directory at path. Values in env
// override those of the build file's env as a JSON merge patch.
func OpenDir(path string, env map[string]any) (*Dir, error) {
	if debug.LoadEnv() {
		debug.Logf("OpenDir input env:\n%s\n", map[string]any(env))
	}
	var (
		ymlPath string
		d       []byte
		found   bool
	)
	for _, ext := range []string{".yaml", ".yml"} {
		candidatePath := filepath.Join(path, "build"+ext)
		var err error
		d, err = os.ReadFile(candidatePath)
		if err == nil {
			ymlPath = candidatePath
			found = true
			break
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("could not read %q: %w", candidatePath, err)
		}
	}
	if !found {
		return nil, fmt.Errorf("could not find build.{yaml,yml} in %q", path)
	}
	bf := &buildFile{}
	if err := yaml.UnmarshalWithOptions(d, bf, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", ymlPath, err)
	}
	if bf.Build == nil {
		return nil, fmt.Errorf("no build in %s", ymlPath)
	}
	return initDir(bf.Build, path, env)
}

func initDir(dir *Dir, path string, env map[string]any) (*Dir, error) {
	dir.Root = path
	if dir.Name == "" {
		dir.Name = DefaultRoot
	}
	if dir.Suffix == "" {
		dir.Suffix = DefaultSuffix
	}
	if dir.Log == nil {
		dir.Log = slog.Default()
	}
	if dir.Env != nil {
		dir.Env, _ = toStringMap(dir.Env)
	}
	merged, err := mergeEnv(dir.Env, env)
	if err != nil {
		return nil, err
	}
	dir.Env = merged
	if debug.LoadEnv() {
		debug.Logf("loaded env\n%s\n", map[string]any(dir.Env))
	}
	if err := dir.filterPatches(); err != nil {
		return nil, err
	}
	dir.nameCache = map[string]int{}
	return dir, nil
}

func (dir *Dir) filterPatches() error {
	j := 0
	for i := range dir.Patches {
		dp := &dir.Patches[i]
		ok, err := eval.Cond(dp.If, dir.evalEnv(), nil)
		if err != nil {
			return fmt.Errorf("error evaluating if of patch %d: %w", i, err)
		}
		if !ok {
			continue
		}
		dir.Patches[j] = *dp
		j++
	}
	dir.Patches = dir.Patches[:j]
	return nil
}

func (dir *Dir) evalEnv() eval.Env {
	return eval.Env(dir.Env)
}

// path locates p relative to the build directory.
func (dir *Dir) path(p string) string {
	return rooted(dir.Root, p)
}

// mergeEnv applies patch to base as an RFC 7386 merge patch: keys of patch
// replace those of base, objects merge recursively and null deletes.
func mergeEnv(base, patch map[string]any) (map[string]any, error) {
	if len(patch) == 0 {
		if base == nil {
			return map[string]any{}, nil
		}
		return base, nil
	}
	if base == nil {
		base = map[string]any{}
	}
	dBase, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("error encoding env: %w", err)
	}
	dPatch, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("error encoding env patch: %w", err)
	}
	dRes, err := jsonpatch.MergePatch(dBase, dPatch)
	if err != nil {
		return nil, fmt.Errorf("error merging env: %w", err)
	}
	res := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(dRes))
	dec.UseNumber()
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("error decoding merged env: %w", err)
	}
	return normalizeNumbers(res).(map[string]any), nil
}

// normalizeNumbers turns json.Number values back into int or float64 so
// that expressions compare them as numbers.
func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
		return x
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		f, _ := x.Float64()
		return f
	default:
		return v
	}
}
