// Package buildid reads and rewrites the BUILD_ID constant of the web
// client, e.g. `export const BUILD_ID = '21';`.
package buildid

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// ErrNotFound is returned when a file has no BUILD_ID declaration.
var ErrNotFound = errors.New("no BUILD_ID declaration found (expected something like: const BUILD_ID = '1';)")

var buildRe = regexp.MustCompile(`(const\s+BUILD_ID\s*=\s*)(['"])(\d+)(['"]\s*;)`)

// Parse returns the build number declared in src.
func Parse(src []byte) (int, error) {
	m := find(src)
	if m == nil {
		return 0, ErrNotFound
	}
	return strconv.Atoi(string(src[m[6]:m[7]]))
}

// Replace returns src with the first build number set to n.
func Replace(src []byte, n int) ([]byte, error) {
	m := find(src)
	if m == nil {
		return nil, ErrNotFound
	}
	out := make([]byte, 0, len(src)+4)
	out = append(out, src[:m[6]]...)
	out = strconv.AppendInt(out, int64(n), 10)
	out = append(out, src[m[7]:]...)
	return out, nil
}

// find locates the first declaration whose quotes match.
func find(src []byte) []int {
	for _, m := range buildRe.FindAllSubmatchIndex(src, -1) {
		if src[m[4]] == src[m[8]] {
			return m
		}
	}
	return nil
}

// Read returns the build number declared in the file at path.
func Read(path string) (int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n, err := Parse(src)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Bump increments the build number in place and returns the new value.
func Bump(path string) (int, error) {
	n, err := Read(path)
	if err != nil {
		return 0, err
	}
	return Set(path, n+1)
}

// Set writes n as the build number. The file is only rewritten when the
// value changes.
func Set(path string, n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("build number must not be negative, got %d", n)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	out, err := Replace(src, n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if string(out) == string(src) {
		return n, nil
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
