// Package strutil has the small string helpers shared by error and meta
// rendering.
package strutil

import (
	"fmt"
	"strings"
	"unicode"
)

// AppendDot terminates sentence with a dot unless it already ends with
// '.', '!' or '?'. Blank input is returned unchanged.
func AppendDot(sentence string) string {
	trimmed := strings.TrimSpace(sentence)
	if trimmed == "" {
		return sentence
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return sentence
	}
	return sentence + "."
}

// Title upper-cases the first letter of every letter run and lower-cases
// the rest, so "full_path" becomes "Full_Path".
func Title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// Joiner concatenates a sequence of strings with a delimiter.
type Joiner struct {
	Delimiter string
}

func NewJoiner(delimiter string) Joiner {
	return Joiner{Delimiter: delimiter}
}

func (j Joiner) Process(in []string) string {
	return strings.Join(in, j.Delimiter)
}

// DictConverter turns "key<delim>value" strings into a map, trimming both
// sides.
type DictConverter struct {
	Delimiter string
}

func NewDictConverter(delimiter string) DictConverter {
	return DictConverter{Delimiter: delimiter}
}

func (d DictConverter) Process(in []string) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for _, item := range in {
		k, v, ok := strings.Cut(item, d.Delimiter)
		if !ok {
			return nil, fmt.Errorf("strutil: %q has no %q delimiter", item, d.Delimiter)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}
