// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrNotRegular = errors.New("not a regular file")
	ErrStage      = errors.New("staging output file failed")
	ErrCommit     = errors.New("committing output file failed")
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsWithin returns true if path equals dir or is located under it.
// Both paths are cleaned; no symlinks are resolved.
func IsWithin(path, dir string) bool {
	cleanPath := filepath.Clean(path)
	cleanDir := filepath.Clean(dir)

	// Ensure dir ends with separator for correct prefix matching
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// CopyPreserve copies src to dst, keeping the permission bits and the
// modification time of src. dst is replaced if it exists.
func CopyPreserve(src, dst string) (err error) {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegular, src)
	}

	in, err := os.Open(src) // #nosec G304 -- path comes from the walked input tree
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) // #nosec G304 -- mirrored output path
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	// OpenFile only applies perm on creation, and umask may narrow it.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// Pending is a file waiting to be written by WriteAll.
type Pending struct {
	Path string
	Data []byte
}

// WriteAll writes every file or none of them.
//
// Each file is first written to a temporary sibling. Once all temporaries
// exist they are renamed into place. A failure while staging removes the
// temporaries; a failure while renaming also removes the files already
// renamed by this call.
func WriteAll(files []Pending, perm os.FileMode) error {
	staged := make([]string, 0, len(files))
	cleanup := func(paths []string) {
		for _, p := range paths {
			_ = os.Remove(p)
		}
	}

	for _, f := range files {
		tmp, err := stage(f, perm)
		if err != nil {
			cleanup(staged)
			return fmt.Errorf("%w: %s: %v", ErrStage, f.Path, err)
		}
		staged = append(staged, tmp)
	}

	for i, tmp := range staged {
		if err := os.Rename(tmp, files[i].Path); err != nil {
			cleanup(staged[i:])
			for _, f := range files[:i] {
				_ = os.Remove(f.Path)
			}
			return fmt.Errorf("%w: %s: %v", ErrCommit, files[i].Path, err)
		}
	}

	return nil
}

// stage writes f to a temporary file next to its final path.
func stage(f Pending, perm os.FileMode) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return "", err
	}
	name := tmp.Name()

	if _, err := tmp.Write(f.Data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	if err := os.Chmod(name, perm); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
