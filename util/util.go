package util

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/exp/constraints"
)

// Quantise snaps a non-negative value to the nearest multiple of grid.
// Exact halves go to the even multiple, the same tie-break as
// math.RoundToEven.
func Quantise[A constraints.Integer](value A, grid A) A {
	if grid <= 0 {
		panic(fmt.Sprintf("quantise: grid must be positive, got %v", grid))
	}
	q, r := value/grid, value%grid
	switch {
	case r > grid-r:
		q++
	case r == grid-r && q%2 == 1:
		q++
	}
	return q * grid
}

func IsMidiPath(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".mid" || ext == ".midi"
}

// GatherMidiPaths expands each argument into midi file paths. An argument may
// be a file, a directory (walked recursively) or a doublestar glob.
// Results are sorted and deduplicated.
func GatherMidiPaths(args []string, maxNum int) ([]string, error) {
	seen := make(map[string]bool)
	var res []string
	add := func(s string) {
		if seen[s] || (maxNum != 0 && len(res) >= maxNum) {
			return
		}
		seen[s] = true
		res = append(res, s)
	}

	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			walk := func(s string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && IsMidiPath(s) {
					add(s)
				}
				return nil
			}
			if err := filepath.WalkDir(arg, walk); err != nil {
				return nil, fmt.Errorf("walking %v: %w", arg, err)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		for _, m := range matches {
			if IsMidiPath(m) {
				add(m)
			}
		}
	}

	sort.Strings(res)
	return res, nil
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Integer](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}
