package tracks

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultPattern selects chromosome group directories such as "ChrI".
const DefaultPattern = "Chr"

// Suffixes of files written next to the samples by the report writer.
// Discover skips them so that reruns do not treat outputs as inputs.
const (
	SuffixCircle  = " circle"
	SuffixSummary = " circle summary"
	SuffixStats   = " area stats"
	SuffixPlot    = " circle dots and lines"
)

// Group is a directory of sample track files.
type Group struct {
	Name    string   `json:"name"`
	Dir     string   `json:"dir"`
	Samples []string `json:"samples"`
}

// Discover returns the groups under root: every immediate subdirectory whose
// name contains pattern, with its track files sorted by name. An empty
// pattern uses DefaultPattern.
func Discover(root, pattern string) ([]Group, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root: %w", err)
	}

	var groups []Group
	for _, e := range entries {
		if !e.IsDir() || !strings.Contains(e.Name(), pattern) {
			continue
		}
		dir := filepath.Join(root, e.Name())
		samples, err := Samples(dir)
		if err != nil {
			return nil, err
		}
		groups = append(groups, Group{Name: e.Name(), Dir: dir, Samples: samples})
	}
	slices.SortFunc(groups, func(a, b Group) int { return strings.Compare(a.Name, b.Name) })
	return groups, nil
}

// Samples lists the track files in dir, sorted by name.
func Samples(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read group: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if _, ok := FormatOf(name); !ok || IsOutput(name) {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	slices.Sort(out)
	return out, nil
}

// IsOutput reports whether a file name is one the report writer produces.
func IsOutput(name string) bool {
	stem := SampleName(name)
	for _, s := range []string{SuffixSummary, SuffixStats, SuffixPlot, SuffixCircle} {
		if strings.HasSuffix(stem, s) {
			return true
		}
	}
	return false
}
