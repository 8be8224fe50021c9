package catalog

import "seratus-studio/internal/domain/paging"

type ProductQuery struct {
	Search          string
	Categories      []string
	Tags            []string
	MinPrice        *int64
	MaxPrice        *int64
	Sort            string
	Desc            bool
	IncludeInactive bool
	Page            paging.Page
}

type ArtworkQuery struct {
	Search   string
	Tags     []string
	Featured *bool
	// Empty Sort means featured first, then newest first.
	Sort string
	Desc bool
	Page paging.Page
}

type ProductFacets struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	MinPrice   int64    `json:"min_price"`
	MaxPrice   int64    `json:"max_price"`
}

type ArtworkFacets struct {
	Tags []string `json:"tags"`
}
