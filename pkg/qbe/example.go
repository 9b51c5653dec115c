// Package qbe implements Query By Example on top of GORM: a partially filled
// struct (the probe) and a Matcher are translated into a WHERE clause.
package qbe

import "errors"

// ErrNonUniqueResult is returned by single-result lookups that match more than one row.
var ErrNonUniqueResult = errors.New("query by example returned more than one result")

// Example pairs a probe with the matcher used to compare it against stored rows.
type Example[T any] struct {
	probe   T
	matcher Matcher
}

// Of creates an Example that uses the default matcher.
func Of[T any](probe T) Example[T] {
	return Example[T]{probe: probe, matcher: Matching()}
}

// OfMatcher creates an Example with a custom matcher.
func OfMatcher[T any](probe T, matcher Matcher) Example[T] {
	return Example[T]{probe: probe, matcher: matcher}
}

// Probe returns the probe value.
func (e Example[T]) Probe() T { return e.probe }

// Matcher returns the matcher.
func (e Example[T]) Matcher() Matcher { return e.matcher }
