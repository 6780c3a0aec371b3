package hotel

import "strings"

// CatalogSort defines a supported ordering for the public catalog.
type CatalogSort string

const (
	SortByPriceAsc  CatalogSort = "price_asc"
	SortByPriceDesc CatalogSort = "price_desc"
	SortByRating    CatalogSort = "rating_desc"
	SortByNewest    CatalogSort = "newest"

	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

// SearchParams describe catalog filters and paging options.
type SearchParams struct {
	Query        string
	City         string
	Country      string
	Amenities    []string
	MinCapacity  int
	PriceMin     int64
	PriceMax     int64
	Sort         CatalogSort
	Limit        int
	Offset       int
	OnlyApproved bool
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	n := p
	n.Query = strings.TrimSpace(strings.ToLower(n.Query))
	n.City = strings.TrimSpace(strings.ToLower(n.City))
	n.Country = strings.TrimSpace(strings.ToLower(n.Country))
	n.Amenities = normalizeTokens(n.Amenities)
	if n.MinCapacity < 0 {
		n.MinCapacity = 0
	}
	if n.PriceMin < 0 {
		n.PriceMin = 0
	}
	if n.PriceMax > 0 && n.PriceMax < n.PriceMin {
		n.PriceMax = 0
	}
	if n.Limit <= 0 {
		n.Limit = defaultSearchLimit
	}
	if n.Limit > maxSearchLimit {
		n.Limit = maxSearchLimit
	}
	if n.Offset < 0 {
		n.Offset = 0
	}
	switch n.Sort {
	case SortByPriceAsc, SortByPriceDesc, SortByRating, SortByNewest:
	default:
		n.Sort = SortByNewest
	}
	return n
}

func normalizeTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(strings.ToLower(token))
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// SearchResult wraps search hits with paging meta.
type SearchResult struct {
	Items []*Hotel
	Total int
}
