package cache

import "strings"

// Scope selects which keys of a namespace an invalidation affects.
// The zero value with All set drops everything; otherwise the structured
// filters narrow the match.
type Scope struct {
	// All drops every entry in the namespace.
	All bool

	// Category drops post listings of one category.
	Category string

	// Ethnic drops image listings of one ethnic group.
	Ethnic string
}

// ScopeAll is the whole-namespace scope.
var ScopeAll = Scope{All: true}

// Matcher returns the key predicate for the scope within a namespace.
//
// Keys are opaque strings built from normalized fields with a fixed
// delimiter, so scope matching is prefix/substring matching. The key
// vocabulary (ethnic codes, category slugs) is controlled, which keeps the
// simplification from over-matching in practice.
func (s Scope) Matcher(ns Namespace) func(key string) bool {
	if s.All {
		return func(string) bool { return true }
	}

	switch ns {
	case NamespacePosts:
		if s.Category != "" {
			needle := "postsByCategory_" + s.Category + "_"
			return func(key string) bool { return strings.Contains(key, needle) }
		}
	case NamespaceImages:
		if s.Ethnic != "" {
			prefix := "images_" + s.Ethnic + "_"
			return func(key string) bool { return strings.HasPrefix(key, prefix) }
		}
	}

	// No structured filter applies in this namespace: treat as match-all,
	// the safe direction for a cache.
	return func(string) bool { return true }
}
