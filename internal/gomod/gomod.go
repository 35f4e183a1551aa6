// Package gomod reads module information from go.mod files.
package gomod

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// Module describes the go.mod that owns a directory
type Module struct {
	Path string // module path
	Dir  string // directory holding go.mod
}

// ParseModulePath extracts the module path from a go.mod file
func ParseModulePath(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.ParseLax(cleanPath, content, nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse go.mod file: %w", err)
	}
	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration found in %s", cleanPath)
	}
	return modFile.Module.Mod.Path, nil
}

// Find searches for go.mod starting from startDir and walking up
func Find(startDir string) (*Module, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			modPath, err := ParseModulePath(goModPath)
			if err != nil {
				return nil, err
			}
			return &Module{Path: modPath, Dir: currentDir}, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}
	return nil, fmt.Errorf("go.mod file not found above %s", startDir)
}

// Shorten trims the module path off a qualified type name, so
// "example.com/app/internal/svc.Logger" becomes "internal/svc.Logger".
// Names outside the module are returned unchanged.
func (m *Module) Shorten(name string) string {
	if m == nil || m.Path == "" {
		return name
	}
	prefix := m.Path + "/"
	if strings.HasPrefix(name, prefix) {
		return strings.TrimPrefix(name, prefix)
	}
	// a type declared in the module root package
	if strings.HasPrefix(name, m.Path+".") {
		return path.Base(m.Path) + strings.TrimPrefix(name, m.Path)
	}
	return name
}
