package source

import (
	"strings"

	"github.com/yaklabco/mlsense/pkg/dast"
)

// Path is a name path such as ["graph", "point"], written $graph.point.
type Path []string

// String joins the path with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// AddressableNamesAtOffset lists every name path usable in a macro at
// offset. Paths reachable from inner scopes come first; an outer scope adds
// a path only when none of its prefixes is already taken by an inner one.
func (o *Object) AddressableNamesAtOffset(offset int) []Path {
	el := o.ElementAtOffset(offset)
	if el == nil {
		el = o.Root()
	}

	names := o.MacroAddressableChildrenAtElement(el)
	for cur := o.Parent(el); cur != nil; cur = o.Parent(cur) {
		names = MergeLeftUniquePrefixes(names, o.MacroAddressableChildrenAtElement(cur))
	}
	return names
}

// MacroAddressableChildrenAtElement lists the name paths addressable from
// el. A name counts only when exactly one descendant of el carries it; the
// paths under each such descendant are appended after it.
func (o *Object) MacroAddressableChildrenAtElement(el *dast.Node) []Path {
	access := o.Access(el)

	counts := make(map[string]int, len(access))
	for _, ne := range access {
		counts[ne.Name]++
	}

	var paths []Path
	for _, ne := range access {
		if counts[ne.Name] != 1 {
			continue
		}
		paths = append(paths, Path{ne.Name})
		for _, sub := range o.MacroAddressableChildrenAtElement(ne.Element) {
			path := make(Path, 0, len(sub)+1)
			path = append(path, ne.Name)
			path = append(path, sub...)
			paths = append(paths, path)
		}
	}
	return paths
}

// MergeLeftUniquePrefixes appends to left every path of right none of whose
// prefixes (itself included) is a prefix of a path in left.
func MergeLeftUniquePrefixes(left, right []Path) []Path {
	taken := make(map[string]struct{})
	for _, path := range left {
		for i := 1; i <= len(path); i++ {
			taken[prefixKey(path[:i])] = struct{}{}
		}
	}

	merged := make([]Path, len(left), len(left)+len(right))
	copy(merged, left)

outer:
	for _, path := range right {
		for i := 1; i <= len(path); i++ {
			if _, ok := taken[prefixKey(path[:i])]; ok {
				continue outer
			}
		}
		merged = append(merged, path)
	}
	return merged
}

func prefixKey(parts []string) string {
	return strings.Join(parts, "\x00")
}
