// Package extract isolates the brittle patterns used to scrape values out of
// server-rendered pages. Every pattern is named so that a missing match says
// which part of the remote markup changed.
package extract

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by ExtractOne when the pattern does not match at all.
var ErrNotFound = errors.New("pattern not found")

// Pattern is a named, declared pattern with positional capture groups.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

func Compile(name, expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("compile pattern %s: %w", name, err)
	}
	if re.NumSubexp() == 0 {
		return Pattern{}, fmt.Errorf("compile pattern %s: no capture groups", name)
	}
	return Pattern{Name: name, re: re}, nil
}

func MustCompile(name, expr string) Pattern {
	p, err := Compile(name, expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Groups is the number of capture groups a match of the pattern yields.
func (p Pattern) Groups() int {
	return p.re.NumSubexp()
}

func (p Pattern) String() string {
	return fmt.Sprintf("%s(%s)", p.Name, p.re.String())
}

// Extractor pulls capture groups out of a text blob. Group 0 (the whole match)
// is never part of the result.
type Extractor interface {
	// Extract returns every match in order of appearance, it returns an empty
	// slice when nothing matched.
	Extract(text string, pattern Pattern) [][]string
	// ExtractOne returns the first match or an error wrapping ErrNotFound.
	ExtractOne(text string, pattern Pattern) ([]string, error)
}

// RegexpExtractor is the standard Extractor backed by the regexp package.
type RegexpExtractor struct{}

func NewRegexpExtractor() RegexpExtractor {
	return RegexpExtractor{}
}

func (RegexpExtractor) Extract(text string, pattern Pattern) [][]string {
	matches := pattern.re.FindAllStringSubmatch(text, -1)
	out := make([][]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1:])
	}
	return out
}

func (RegexpExtractor) ExtractOne(text string, pattern Pattern) ([]string, error) {
	m := pattern.re.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("%s: %w", pattern.Name, ErrNotFound)
	}
	return m[1:], nil
}

// First is ExtractOne narrowed to the first capture group.
func First(e Extractor, text string, pattern Pattern) (string, error) {
	groups, err := e.ExtractOne(text, pattern)
	if err != nil {
		return "", err
	}
	return groups[0], nil
}
