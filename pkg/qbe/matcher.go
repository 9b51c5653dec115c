package qbe

import (
	"fmt"
	"sort"
	"strings"
)

// StringMatcher selects how string probe values are compared with column values.
type StringMatcher int

const (
	// Default behaves like Exact.
	Default StringMatcher = iota
	Exact
	Starting
	Ending
	Containing
)

// String returns the name of the matcher.
func (s StringMatcher) String() string {
	switch s {
	case Exact:
		return "EXACT"
	case Starting:
		return "STARTING"
	case Ending:
		return "ENDING"
	case Containing:
		return "CONTAINING"
	default:
		return "DEFAULT"
	}
}

// NullHandler decides what a zero-valued probe field means.
type NullHandler int

const (
	// Ignore skips zero-valued probe fields.
	Ignore NullHandler = iota
	// Include turns a zero-valued probe field into an IS NULL predicate.
	Include
)

// String returns the name of the handler.
func (n NullHandler) String() string {
	if n == Include {
		return "INCLUDE"
	}
	return "IGNORE"
}

// MatchMode combines predicates with AND (All) or OR (Any).
type MatchMode int

const (
	All MatchMode = iota
	Any
)

// String returns the name of the mode.
func (m MatchMode) String() string {
	if m == Any {
		return "ANY"
	}
	return "ALL"
}

// PropertySpecifier overrides matching for a single property path.
type PropertySpecifier struct {
	Path          string
	StringMatcher StringMatcher
	IgnoreCase    *bool
}

// GenericPropertyMatcher is passed to WithMatcher callbacks to configure one property.
type GenericPropertyMatcher struct {
	stringMatcher StringMatcher
	ignoreCase    *bool
}

func (g GenericPropertyMatcher) Exact() GenericPropertyMatcher {
	g.stringMatcher = Exact
	return g
}

func (g GenericPropertyMatcher) StartsWith() GenericPropertyMatcher {
	g.stringMatcher = Starting
	return g
}

func (g GenericPropertyMatcher) EndsWith() GenericPropertyMatcher {
	g.stringMatcher = Ending
	return g
}

func (g GenericPropertyMatcher) Contains() GenericPropertyMatcher {
	g.stringMatcher = Containing
	return g
}

func (g GenericPropertyMatcher) IgnoreCase() GenericPropertyMatcher {
	v := true
	g.ignoreCase = &v
	return g
}

func (g GenericPropertyMatcher) CaseSensitive() GenericPropertyMatcher {
	v := false
	g.ignoreCase = &v
	return g
}

// Matcher holds the matching configuration applied to a probe.
// All With* methods return a modified copy; a Matcher is never mutated in place.
type Matcher struct {
	mode          MatchMode
	stringMatcher StringMatcher
	nullHandler   NullHandler
	ignoreCase    bool
	ignoredPaths  map[string]struct{}
	specifiers    map[string]PropertySpecifier
	// case-insensitive paths registered via WithIgnoreCase(paths...)
	ignoreCasePaths map[string]struct{}
}

// Matching returns the default matcher: all predicates must hold, strings
// compared exactly and case-sensitively, zero values ignored.
func Matching() Matcher {
	return MatchingAll()
}

// MatchingAll is Matching.
func MatchingAll() Matcher {
	return Matcher{mode: All}
}

// MatchingAny returns a matcher whose predicates are OR-ed together.
func MatchingAny() Matcher {
	return Matcher{mode: Any}
}

func (m Matcher) clone() Matcher {
	c := m
	c.ignoredPaths = copySet(m.ignoredPaths)
	c.ignoreCasePaths = copySet(m.ignoreCasePaths)
	if m.specifiers != nil {
		c.specifiers = make(map[string]PropertySpecifier, len(m.specifiers))
		for k, v := range m.specifiers {
			c.specifiers[k] = v
		}
	}
	return c
}

func copySet(in map[string]struct{}) map[string]struct{} {
	if in == nil {
		return nil
	}
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

// normalizePath folds property paths so that firstName, FirstName and
// first_name address the same property.
func normalizePath(path string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(path), "_", ""))
}

// WithIgnoreCase enables case-insensitive matching. Without arguments it
// applies to every string property, otherwise only to the given paths.
func (m Matcher) WithIgnoreCase(paths ...string) Matcher {
	c := m.clone()
	if len(paths) == 0 {
		c.ignoreCase = true
		return c
	}
	if c.ignoreCasePaths == nil {
		c.ignoreCasePaths = make(map[string]struct{}, len(paths))
	}
	for _, p := range paths {
		c.ignoreCasePaths[normalizePath(p)] = struct{}{}
	}
	return c
}

// WithStringMatcher sets the default string matcher.
func (m Matcher) WithStringMatcher(sm StringMatcher) Matcher {
	c := m.clone()
	c.stringMatcher = sm
	return c
}

// WithIgnoreNullValues skips zero-valued probe fields.
func (m Matcher) WithIgnoreNullValues() Matcher {
	c := m.clone()
	c.nullHandler = Ignore
	return c
}

// WithIncludeNullValues turns zero-valued probe fields into IS NULL predicates.
func (m Matcher) WithIncludeNullValues() Matcher {
	c := m.clone()
	c.nullHandler = Include
	return c
}

// WithIgnorePaths excludes properties from matching entirely.
func (m Matcher) WithIgnorePaths(paths ...string) Matcher {
	c := m.clone()
	if c.ignoredPaths == nil {
		c.ignoredPaths = make(map[string]struct{}, len(paths))
	}
	for _, p := range paths {
		c.ignoredPaths[normalizePath(p)] = struct{}{}
	}
	return c
}

// WithMatcher configures a single property.
//
//	qbe.Matching().WithMatcher("firstName", func(g qbe.GenericPropertyMatcher) qbe.GenericPropertyMatcher {
//		return g.Exact().IgnoreCase()
//	})
func (m Matcher) WithMatcher(path string, configure func(GenericPropertyMatcher) GenericPropertyMatcher) Matcher {
	c := m.clone()
	g := configure(GenericPropertyMatcher{})
	if c.specifiers == nil {
		c.specifiers = make(map[string]PropertySpecifier, 1)
	}
	c.specifiers[normalizePath(path)] = PropertySpecifier{
		Path:          path,
		StringMatcher: g.stringMatcher,
		IgnoreCase:    g.ignoreCase,
	}
	return c
}

// IsIgnoreCaseEnabled reports whether case-insensitive matching is on for all properties.
func (m Matcher) IsIgnoreCaseEnabled() bool { return m.ignoreCase }

// NullHandler returns the configured null handler.
func (m Matcher) NullHandler() NullHandler { return m.nullHandler }

// DefaultStringMatcher returns the string matcher used when no property override exists.
func (m Matcher) DefaultStringMatcher() StringMatcher { return m.stringMatcher }

// MatchMode returns how predicates are combined.
func (m Matcher) MatchMode() MatchMode { return m.mode }

// IsIgnoredPath reports whether the property is excluded from matching.
func (m Matcher) IsIgnoredPath(path string) bool {
	_, ok := m.ignoredPaths[normalizePath(path)]
	return ok
}

// PropertySpecifier returns the override registered for path, if any.
func (m Matcher) PropertySpecifier(path string) (PropertySpecifier, bool) {
	s, ok := m.specifiers[normalizePath(path)]
	return s, ok
}

// stringMatcherFor resolves the effective string matcher for a property.
func (m Matcher) stringMatcherFor(path string) StringMatcher {
	if s, ok := m.PropertySpecifier(path); ok && s.StringMatcher != Default {
		return s.StringMatcher
	}
	return m.stringMatcher
}

// ignoreCaseFor resolves the effective case sensitivity for a property.
func (m Matcher) ignoreCaseFor(path string) bool {
	if s, ok := m.PropertySpecifier(path); ok && s.IgnoreCase != nil {
		return *s.IgnoreCase
	}
	if _, ok := m.ignoreCasePaths[normalizePath(path)]; ok {
		return true
	}
	return m.ignoreCase
}

// Fingerprint renders the matcher as a stable string, suitable as part of a cache key.
func (m Matcher) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mode=%s;sm=%s;null=%s;ic=%t", m.mode, m.stringMatcher, m.nullHandler, m.ignoreCase)

	b.WriteString(";icp=")
	b.WriteString(strings.Join(sortedKeys(m.ignoreCasePaths), ","))

	b.WriteString(";ign=")
	b.WriteString(strings.Join(sortedKeys(m.ignoredPaths), ","))

	specKeys := make([]string, 0, len(m.specifiers))
	for k := range m.specifiers {
		specKeys = append(specKeys, k)
	}
	sort.Strings(specKeys)
	b.WriteString(";spec=")
	for _, k := range specKeys {
		s := m.specifiers[k]
		ic := "-"
		if s.IgnoreCase != nil {
			ic = fmt.Sprintf("%t", *s.IgnoreCase)
		}
		fmt.Fprintf(&b, "%s:%s:%s,", k, s.StringMatcher, ic)
	}
	return b.String()
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
