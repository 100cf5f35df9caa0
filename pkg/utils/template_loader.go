package utils

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
)

// LoadTemplates parses every *.html file in dir of fsys. base.html, when
// present, is parsed first so pages can rely on its definitions.
func LoadTemplates(fsys fs.FS, dir string, funcMap template.FuncMap) (*template.Template, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found in %s", dir)
	}

	sort.Strings(files)

	ordered := make([]string, 0, len(files))
	for _, file := range files {
		if path.Base(file) == "base.html" {
			ordered = append(ordered, file)
		}
	}
	for _, file := range files {
		if path.Base(file) != "base.html" {
			ordered = append(ordered, file)
		}
	}

	root := template.New(path.Base(ordered[0])).Funcs(funcMap)

	if _, err := root.ParseFS(fsys, ordered...); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return root, nil
}
