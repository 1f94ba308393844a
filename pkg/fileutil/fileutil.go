// Package fileutil collects the directory-walking helpers shared by
// the FLIM tools: suffix-filtered file listing and input expansion.
package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// matchesSuffix reports whether name ends with any of the suffixes.
// An empty suffix list matches everything.
func matchesSuffix(name string, suffixes []string) bool {
	if len(suffixes) == 0 {
		return true
	}
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// FilesRecursively returns the paths of all files under root whose
// names end with one of the suffixes, in walk order.
func FilesRecursively(root string, suffixes ...string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && matchesSuffix(d.Name(), suffixes) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fileutil: walking %s: %w", root, err)
	}
	return out, nil
}

// FilesNonRecursively returns the matching files directly inside dir,
// without descending into subdirectories.
func FilesNonRecursively(dir string, suffixes ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("fileutil: listing %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && matchesSuffix(e.Name(), suffixes) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

// ResolveInputs expands a mixed list of directories, glob patterns and
// plain files into a de-duplicated list of file paths, preserving the
// order of first appearance. Suffix filtering applies only to files
// found inside directories; explicitly named files are always kept.
func ResolveInputs(inputs []string, suffixes []string, recursive bool) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(paths ...string) {
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}

	for _, inp := range inputs {
		info, err := os.Stat(inp)
		if err == nil && info.IsDir() {
			var files []string
			if recursive {
				files, err = FilesRecursively(inp, suffixes...)
			} else {
				files, err = FilesNonRecursively(inp, suffixes...)
			}
			if err != nil {
				return nil, err
			}
			add(files...)
			continue
		}

		matches, err := filepath.Glob(inp)
		if err != nil {
			return nil, fmt.Errorf("fileutil: bad pattern %q: %w", inp, err)
		}
		if len(matches) > 0 {
			add(matches...)
			continue
		}
		if _, err := os.Stat(inp); err == nil {
			add(inp)
		}
	}
	return out, nil
}
