package cache

import (
	"fmt"
	"strings"
	"time"
)

// Namespace identifies an isolated cache partition for one content kind.
type Namespace string

const (
	// NamespacePosts holds paginated post listings (plain and by category).
	NamespacePosts Namespace = "posts"

	// NamespaceImages holds paginated image listings per ethnic group.
	NamespaceImages Namespace = "images"

	// NamespaceVideos holds paginated video listings.
	NamespaceVideos Namespace = "videos"

	// NamespaceSVG holds the country map SVG asset, which only changes on
	// deploy and therefore never expires.
	NamespaceSVG Namespace = "svg"
)

// Default TTLs per namespace. Zero means no expiration.
const (
	PostsTTL  = 5 * time.Minute
	ImagesTTL = 10 * time.Minute
	VideosTTL = 10 * time.Minute
	SVGTTL    = time.Duration(0)
)

// Default page sizes. Posts render as article cards, everything else as
// denser grids.
const (
	PostsPageSize   = 5
	DefaultPageSize = 10
)

// DefaultPageSize returns the page size used when a query has none set.
func (n Namespace) DefaultPageSize() int {
	if n == NamespacePosts {
		return PostsPageSize
	}
	return DefaultPageSize
}

// DefaultTTL returns the namespace's default entry lifetime.
func (n Namespace) DefaultTTL() time.Duration {
	switch n {
	case NamespacePosts:
		return PostsTTL
	case NamespaceImages:
		return ImagesTTL
	case NamespaceVideos:
		return VideosTTL
	case NamespaceSVG:
		return SVGTTL
	default:
		return PostsTTL
	}
}

const (
	// DefaultLanguage is the site's default content language.
	DefaultLanguage = "vi"

	// MinSearchLength is the minimum number of runes for a search filter to
	// count. Shorter searches normalize to "no filter" so noisy prefix
	// queries do not thrash the cache or the backend.
	MinSearchLength = 3

	// ethnicAll is the sentinel for "no ethnic filter" in image keys.
	ethnicAll = "ALL"
)

// Query is the structured set of parameters a view resolves data for.
// Two Queries that are equal after normalization always derive the same key.
type Query struct {
	// Category filters posts by category; empty means no category filter.
	Category string

	// Ethnic filters images by ethnic group code (EDE, JRAI, MNONG);
	// empty means all groups.
	Ethnic string

	// Search is the free-text filter. Leading/trailing whitespace is
	// insignificant; fewer than MinSearchLength runes counts as empty.
	Search string

	// Language is the content language; empty means DefaultLanguage.
	Language string

	// Page is the zero-based page number.
	Page int

	// Size is the page size.
	Size int
}

// NormalizedSearch returns the search text as key derivation sees it:
// trimmed, and empty when below the minimum length.
func (q Query) NormalizedSearch() string {
	s := strings.TrimSpace(q.Search)
	if len([]rune(s)) < MinSearchLength {
		return ""
	}
	return s
}

// Normalize returns the query with all normalization rules applied:
// search trimmed or dropped, defaults filled in, negative paging clamped.
func (q Query) Normalize() Query {
	q.Search = q.NormalizedSearch()
	if q.Language == "" {
		q.Language = DefaultLanguage
	}
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size < 0 {
		q.Size = 0
	}
	return q
}

// Key derives the deterministic cache key for a query in a namespace.
//
// Key shapes follow the stored-key vocabulary the invalidation scopes match
// against:
//
//	posts_{page}_{size}_{search}_{lang}
//	postsByCategory_{category}_{page}_{size}_{lang}
//	images_{ethnic|ALL}_{page}_{size}_{lang}
//	videos_{page}_{size}
//
// Components come from a small controlled vocabulary (category slugs, ethnic
// codes, page numbers), so prefix matching over these keys is unambiguous
// with the underscore delimiter.
func Key(ns Namespace, q Query) string {
	q = q.Normalize()
	if q.Size == 0 {
		q.Size = ns.DefaultPageSize()
	}

	switch ns {
	case NamespacePosts:
		if q.Category != "" {
			return fmt.Sprintf("postsByCategory_%s_%d_%d_%s", q.Category, q.Page, q.Size, q.Language)
		}
		return fmt.Sprintf("posts_%d_%d_%s_%s", q.Page, q.Size, q.Search, q.Language)
	case NamespaceImages:
		ethnic := q.Ethnic
		if ethnic == "" {
			ethnic = ethnicAll
		}
		return fmt.Sprintf("images_%s_%d_%d_%s", ethnic, q.Page, q.Size, q.Language)
	case NamespaceVideos:
		return fmt.Sprintf("videos_%d_%d", q.Page, q.Size)
	case NamespaceSVG:
		return "svg_map"
	default:
		return fmt.Sprintf("%s_%d_%d_%s_%s", ns, q.Page, q.Size, q.Search, q.Language)
	}
}

// AssetKey derives the cache key for a named static asset in the SVG
// namespace, e.g. "/vietnam_map_detailed.svg".
func AssetKey(path string) string {
	return "asset_" + strings.Trim(path, "/")
}
