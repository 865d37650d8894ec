package dyn

import (
	"fmt"
	"regexp"
	"strings"
)

// Regex is a pattern value: source text plus a flag string. Construction
// never compiles; Compile resolves the pattern on first use and caches it.
type Regex struct {
	source string
	flags  string
	rx     *regexp.Regexp
}

func (r *Regex) Source() string { return r.source }
func (r *Regex) Flags() string  { return r.flags }

// Compile translates the flag set into inline options and compiles the
// source. Supported flags are i, m, s, and U.
func (r *Regex) Compile() (*regexp.Regexp, error) {
	if r.rx != nil {
		return r.rx, nil
	}
	var opts strings.Builder
	for _, f := range r.flags {
		switch f {
		case 'i', 'm', 's', 'U':
			opts.WriteRune(f)
		default:
			return nil, fmt.Errorf("unsupported regex flag %q", string(f))
		}
	}
	pattern := r.source
	if opts.Len() > 0 {
		pattern = "(?" + opts.String() + ")" + pattern
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	r.rx = rx
	return rx, nil
}

// Match reports whether the pattern matches s, compiling on demand.
func (r *Regex) Match(s string) (bool, error) {
	rx, err := r.Compile()
	if err != nil {
		return false, err
	}
	return rx.MatchString(s), nil
}
