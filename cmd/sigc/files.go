package main

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Ext is the extension of component sources.
const Ext = ".sig"

// source is a component file and the directory its output path is
// relative to.
type source struct {
	Path string
	Root string
}

// sources expands args into component files. Directories are walked and
// filtered with the include and exclude patterns; files are taken as is.
// Without args the working directory is walked.
func sources(args, include, exclude []string) ([]source, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []source
	seen := map[string]bool{}
	add := func(p, root string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, source{Path: p, Root: root})
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg, filepath.Dir(arg))
			continue
		}

		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, _ := filepath.Rel(arg, p)
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if rel != "." && matchAny(exclude, rel+"/") {
					return filepath.SkipDir
				}
				return nil
			}
			if matchAny(include, rel) && !matchAny(exclude, rel) {
				add(p, arg)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if match(p, name) {
			return true
		}
	}
	return false
}

// match reports whether the slash separated name matches pattern, where a
// "**" segment matches any number of directories and a trailing "/**"
// matches everything below a directory.
func match(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(strings.TrimSuffix(name, "/"), "/"))
}

func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if matchSegments(pattern[1:], name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], name[0]); !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}

// output returns the path of the module compiled from src.
func output(outDir, root, src string) string {
	rel, err := filepath.Rel(root, src)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(src)
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".js")
}
