package profileconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ParseConfigDir validates a config directory path and returns the cleaned
// path if valid. It returns an error if the path is empty, not absolute,
// contains parent-directory traversal, or points at something that is not
// a directory (a nonexistent directory is allowed: Save creates it).
func ParseConfigDir(path string) (string, error) {
	if path == "" {
		return "", errors.New("config directory cannot be empty")
	}
	if !filepath.IsAbs(path) {
		return "", errors.New("config directory must be absolute")
	}
	if strings.Contains(path, "..") {
		return "", errors.New("config directory contains invalid traversal")
	}

	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", err
	}
	if !info.IsDir() {
		return "", errors.New("config path exists and is not a directory")
	}
	return path, nil
}
