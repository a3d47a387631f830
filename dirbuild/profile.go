package dirbuild

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/xmlpatch/debug"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/goccy/go-yaml"
)

const profileSuffix = ".yaml"

// Profiles lists the names of the profiles under profiles/.
func (d *Dir) Profiles() ([]string, error) {
	dirEnts, err := os.ReadDir(filepath.Join(d.Root, "profiles"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	res := []string{}
	for _, dirEnt := range dirEnts {
		if dirEnt.IsDir() {
			continue
		}
		fName := dirEnt.Name()
		if !strings.HasSuffix(fName, profileSuffix) {
			continue
		}
		res = append(res, fName[:len(fName)-len(profileSuffix)])
	}
	return res, nil
}

type profileFile struct {
	Env map[string]any `yaml:"env"`
}

// LoadProfile reopens d with the env of a profile applied as a merge patch
// to the build env, and env applied on top of that. profile is a file path
// or the name of a file under profiles/.
func (d *Dir) LoadProfile(profile string, env map[string]any) error {
	if debug.LoadEnv() {
		debug.Logf("LoadProfile with env\n%s\n", env)
	}
	profilePath, err := d.profilePath(profile)
	if err != nil {
		return err
	}
	dd, err := os.ReadFile(profilePath)
	if err != nil {
		return err
	}
	pf := &profileFile{}
	if err := yaml.Unmarshal(dd, pf); err != nil {
		return fmt.Errorf("could not decode %s: %w", profilePath, err)
	}
	if pf.Env == nil {
		return fmt.Errorf("no env in profile at %s", profilePath)
	}
	pEnv, _ := toStringMap(pf.Env)
	merged, err := composeEnv(pEnv, env)
	if err != nil {
		return err
	}
	reDir, err := OpenDir(d.Root, merged)
	if err != nil {
		return err
	}
	reDir.Log = d.Log
	reDir.DestDir = d.DestDir
	reDir.Split = d.Split
	*d = *reDir
	return nil
}

// composeEnv returns the merge patch equivalent to applying a then b.
func composeEnv(a, b map[string]any) (map[string]any, error) {
	if len(b) == 0 {
		return a, nil
	}
	da, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	db, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	dc, err := jsonpatch.MergeMergePatches(da, db)
	if err != nil {
		return nil, fmt.Errorf("error composing env patches: %w", err)
	}
	res := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(dc))
	dec.UseNumber()
	if err := dec.Decode(&res); err != nil {
		return nil, err
	}
	return normalizeNumbers(res).(map[string]any), nil
}

func (d *Dir) profilePath(profile string) (string, error) {
	st, err := os.Stat(profile)
	if err == nil && !st.IsDir() {
		return profile, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	path := filepath.Join(d.Root, "profiles", profile+profileSuffix)
	st, err = os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no profile %q in %s", profile, filepath.Join(d.Root, "profiles"))
		}
		return "", err
	}
	if st.IsDir() {
		return "", fmt.Errorf("profile %s is a directory", path)
	}
	return path, nil
}
