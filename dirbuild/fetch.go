package dirbuild

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/signadot/xmlpatch/eval"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/parse"

	"github.com/goccy/go-yaml"
)

const (
	fetchTimeout = 10 * time.Second
	ignoreFile   = ".buildignore"
)

// fetch returns the source documents in source order.
func (d *Dir) fetch(ctx context.Context) ([]*ir.Node, error) {
	res := []*ir.Node{}
	for i := range d.Sources {
		src := &d.Sources[i]
		docs, err := src.Fetch(ctx, d.Root, d.evalEnv())
		if err != nil {
			return nil, fmt.Errorf("error fetching from source %s: %w", src, err)
		}
		res = append(res, docs...)
	}
	return res, nil
}

// DirSource names where source documents come from. Exactly one field is
// set; each may hold $[...] expressions over the build env.
type DirSource struct {
	Dir  *string `yaml:"dir,omitempty"`
	File *string `yaml:"file,omitempty"`
	Exec *string `yaml:"exec,omitempty"`
	URL  *string `yaml:"url,omitempty"`
}

func (s *DirSource) String() string {
	switch {
	case s.Dir != nil:
		return "dir " + *s.Dir
	case s.File != nil:
		return "file " + *s.File
	case s.Exec != nil:
		return "exec " + *s.Exec
	case s.URL != nil:
		return "url " + *s.URL
	default:
		return "<empty>"
	}
}

// Fetch reads the documents of s. Relative paths are taken from root.
func (s *DirSource) Fetch(ctx context.Context, root string, env eval.Env) ([]*ir.Node, error) {
	switch {
	case s.Dir != nil:
		path, err := eval.ExpandString(*s.Dir, env)
		if err != nil {
			return nil, fmt.Errorf("error expanding path %q: %w", *s.Dir, err)
		}
		walker := newSourceWalker()
		if err := filepath.WalkDir(rooted(root, path), walker.walk); err != nil {
			return nil, err
		}
		return walker.docs, nil
	case s.File != nil:
		path, err := eval.ExpandString(*s.File, env)
		if err != nil {
			return nil, fmt.Errorf("error expanding path %q: %w", *s.File, err)
		}
		doc, err := readDoc(rooted(root, path))
		if err != nil {
			return nil, err
		}
		return []*ir.Node{doc}, nil
	case s.URL != nil:
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		url, err := eval.ExpandString(*s.URL, env)
		if err != nil {
			return nil, fmt.Errorf("error expanding url %q: %w", *s.URL, err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("url %s gave %d/%s", url, resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return fromReader(resp.Body, url)
	case s.Exec != nil:
		cmdStr, err := eval.ExpandString(*s.Exec, env)
		if err != nil {
			return nil, fmt.Errorf("error expanding command %q: %w", *s.Exec, err)
		}
		cmdArgV := strings.Fields(cmdStr)
		if len(cmdArgV) == 0 {
			return nil, fmt.Errorf("invalid command %q (after env %q)", cmdStr, *s.Exec)
		}
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		cmd := exec.CommandContext(ctx, cmdArgV[0], cmdArgV[1:]...)
		cmd.Dir = root
		out := bytes.NewBuffer(nil)
		cmd.Stdout = out
		if err := cmd.Run(); err != nil {
			return nil, err
		}
		return fromReader(out, cmdStr)
	default:
		return nil, nil
	}
}

func rooted(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func readDoc(path string) (*ir.Node, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := parse.Parse(d)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return doc, nil
}

func fromReader(r io.Reader, from string) ([]*ir.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc, err := parse.Parse(d)
	if err != nil {
		return nil, fmt.Errorf("error parsing output of %s: %w", from, err)
	}
	return []*ir.Node{doc}, nil
}

type sourceWalker struct {
	ignore map[string]bool
	docs   []*ir.Node
}

func newSourceWalker() *sourceWalker {
	return &sourceWalker{
		ignore: map[string]bool{},
	}
}

func (w *sourceWalker) walk(path string, info fs.DirEntry, err error) error {
	if err != nil {
		return err
	}
	if w.ignore[path] {
		if info.IsDir() {
			return fs.SkipDir
		}
		return nil
	}
	for ignore := range w.ignore {
		m, _ := filepath.Match(ignore, path)
		if m {
			if info.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
	}
	if info.IsDir() {
		ignorePath := filepath.Join(path, ignoreFile)
		_, err := os.Stat(ignorePath)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
		return w.readIgnore(path, ignorePath)
	}
	if !strings.HasSuffix(path, ".xml") {
		return nil
	}
	doc, err := readDoc(path)
	if err != nil {
		return err
	}
	w.docs = append(w.docs, doc)
	return nil
}

// readIgnore reads a YAML list of glob patterns relative to path.
func (w *sourceWalker) readIgnore(path, ignorePath string) error {
	d, err := os.ReadFile(ignorePath)
	if err != nil {
		return err
	}
	ignores := []string{}
	if err := yaml.Unmarshal(d, &ignores); err != nil {
		return fmt.Errorf("error decoding %s: %w", ignorePath, err)
	}
	for _, ignore := range ignores {
		pat := filepath.Join(path, ignore)
		_, err := filepath.Match(pat, "")
		if err != nil {
			return fmt.Errorf("illegal ignore pattern %q in %s: %w", ignore, ignorePath, err)
		}
		w.ignore[pat] = true
	}
	return nil
}
