package polyglint

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// defaultSkipDirs mirrors the teacher's walk-mode exclusion list
// (engine.go's skipDirs in mvp-joe-canopy): directories whose contents are
// vendored, generated, or otherwise not source the caller authored.
var defaultSkipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	".git":         true,
}

// discoverFiles collects target files by walking configured paths (§4.5
// step 1): a path may be a single file or a directory to walk recursively.
// Hidden directories, known build-output/vendor directories, and
// caller-specified glob exclusions are skipped.
func discoverFiles(paths []string, excludeGlobs []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] && !matchesAnyGlob(clean, excludeGlobs) {
			seen[clean] = true
			out = append(out, clean)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover files: stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		found, err := gitListFiles(root)
		if err != nil {
			found, err = walkListFiles(root, excludeGlobs)
			if err != nil {
				return nil, err
			}
		}
		for _, f := range found {
			skip := false
			if rel, relErr := filepath.Rel(root, f); relErr == nil {
				for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/") {
					if part != "." && part != ".." && (strings.HasPrefix(part, ".") || defaultSkipDirs[part]) {
						skip = true
						break
					}
				}
			}
			if !skip {
				add(f)
			}
		}
	}
	return out, nil
}

func matchesAnyGlob(path string, globs []string) bool {
	base := filepath.Base(path)
	for _, g := range globs {
		if ok, _ := filepath.Match(g, path); ok {
			return true
		}
		if ok, _ := filepath.Match(g, base); ok {
			return true
		}
	}
	return false
}

// gitListFiles uses git ls-files to discover tracked and untracked (but not
// ignored) files under root, the same approach the teacher's
// Engine.gitListFiles takes so .gitignore is respected without polyglint
// reimplementing gitignore matching.
func gitListFiles(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paths = append(paths, filepath.Join(root, line))
	}
	return paths, nil
}

// walkListFiles is the fallback used when root is not inside a git
// repository: a plain filesystem walk skipping hidden and vendored
// directories.
func walkListFiles(root string, excludeGlobs []string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if (strings.HasPrefix(name, ".") && p != root) || defaultSkipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAnyGlob(p, excludeGlobs) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}
