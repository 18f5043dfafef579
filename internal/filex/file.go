// Package filex provides small filesystem helpers shared by the adapters:
// directory creation, durable moves, and batch deletion.
package filex

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// Touch creates the file if it does not exist. Existing content is never
// truncated.
func Touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o660)
	if err != nil {
		return fmt.Errorf("touch %s: %w", path, err)
	}
	return f.Close()
}

// Move renames src to dst, falling back to copy-and-remove when the rename
// crosses filesystems. Parent directories of dst must already exist.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return fmt.Errorf("move %s -> %s: %w", src, dst, err)
	}

	if copyErr := copyFile(src, dst); copyErr != nil {
		return fmt.Errorf("move %s -> %s: %w", src, dst, copyErr)
	}
	if rmErr := os.Remove(src); rmErr != nil {
		return fmt.Errorf("move %s -> %s: remove source: %w", src, dst, rmErr)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// DeleteFiles removes every path in the list. Paths that are already gone are
// skipped; other failures are collected and returned joined.
func DeleteFiles(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("delete %s: %w", filepath.Base(p), err))
		}
	}
	return errors.Join(errs...)
}
