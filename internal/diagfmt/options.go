package diagfmt

import "fmt"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short paths and shortens long absolute ones.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = map[PathMode]string{
	PathModeAuto:     "auto",
	PathModeAbsolute: "absolute",
	PathModeRelative: "relative",
	PathModeBasename: "basename",
}

func (m PathMode) String() string {
	if s, ok := pathModeNames[m]; ok {
		return s
	}
	return "auto"
}

// ParsePathMode maps a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, error) {
	for m, name := range pathModeNames {
		if name == s {
			return m, nil
		}
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (want auto|absolute|relative|basename)", s)
}

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color     bool
	Context   int // lines shown above the primary line
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}
