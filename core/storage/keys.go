package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CleanKey validates a logical key and returns its normalized "a/b/c" form.
// Empty segments are dropped. A ".." segment, or one containing a NUL byte or
// the OS path separator, is rejected with ErrInvalidKey.
func CleanKey(key string) (string, error) {
	segments := make([]string, 0, strings.Count(key, "/")+1)
	for _, seg := range strings.Split(key, "/") {
		switch {
		case seg == "" || seg == ".":
			continue
		case seg == "..":
			return "", fmt.Errorf("%w: %q traverses above the root", ErrInvalidKey, key)
		case strings.ContainsRune(seg, 0), strings.ContainsRune(seg, os.PathSeparator):
			return "", fmt.Errorf("%w: %q contains an illegal segment", ErrInvalidKey, key)
		}
		segments = append(segments, seg)
	}
	return strings.Join(segments, "/"), nil
}

// Resolve maps a logical key to an absolute path under root.
// The same key always yields the same path, and the result never escapes root.
// An empty key resolves to root itself.
func Resolve(root, key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: resolve root %q: %w", ErrInvalidKey, root, err)
	}
	if clean == "" {
		return base, nil
	}
	return filepath.Join(base, filepath.FromSlash(clean)), nil
}
