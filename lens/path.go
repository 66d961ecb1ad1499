package lens

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePath parses a dotted path with bracketed indices, such as
// "foo.bar[2].baz", into a Path. The empty string is the empty path.
func ParsePath(s string) (Path, error) {
	path := Path{}
	if s == "" {
		return path, nil
	}

	for _, segment := range strings.Split(s, ".") {
		name, rest, indexed := strings.Cut(segment, "[")
		switch {
		case indexed && rest == "":
			return nil, fmt.Errorf("%w: unclosed index in %q", ErrInvalidPath, s)
		case name != "":
			path = append(path, name)
		case !indexed:
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, s)
		}

		for rest != "" {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok {
				return nil, fmt.Errorf("%w: unclosed index in %q", ErrInvalidPath, s)
			}
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrInvalidPath, idx, s)
			}
			path = append(path, n)

			if tail == "" {
				break
			}
			if !strings.HasPrefix(tail, "[") {
				return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidPath, tail, s)
			}
			rest = tail[1:]
		}
	}
	return path, nil
}

// MustParsePath is like ParsePath but panics on a malformed path.
func MustParsePath(s string) Path {
	path, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return path
}
