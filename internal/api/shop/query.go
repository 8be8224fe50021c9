package shop

import (
	"strconv"
	"strings"

	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/catalog"
	"seratus-studio/internal/domain/paging"

	"github.com/gin-gonic/gin"
)

// listParam accepts repeated keys and comma separated values alike.
func listParam(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func int64Param(c *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation("%s must be a whole number", key)
	}
	return &n, nil
}

func descending(c *gin.Context) bool {
	return strings.EqualFold(c.Query("order"), "desc")
}

func productQuery(c *gin.Context) (catalog.ProductQuery, error) {
	q := catalog.ProductQuery{
		Search:          strings.TrimSpace(c.Query("search")),
		Categories:      listParam(c, "category"),
		Tags:            listParam(c, "tags"),
		Sort:            c.Query("sort"),
		Desc:            descending(c),
		IncludeInactive: c.Query("include_inactive") == "true",
		Page:            paging.Parse(c.Query("page"), c.Query("limit"), paging.DefaultLimit),
	}
	if c.Query("order") == "" && q.Sort == "" {
		q.Desc = true
	}
	var err error
	if q.MinPrice, err = int64Param(c, "min_price"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = int64Param(c, "max_price"); err != nil {
		return q, err
	}
	return q, nil
}

func artworkQuery(c *gin.Context) (catalog.ArtworkQuery, error) {
	q := catalog.ArtworkQuery{
		Search: strings.TrimSpace(c.Query("search")),
		Tags:   listParam(c, "tags"),
		Sort:   c.Query("sort"),
		Desc:   descending(c),
		Page:   paging.Parse(c.Query("page"), c.Query("limit"), paging.DefaultLimit),
	}
	if raw := c.Query("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, apperr.Validation("featured must be true or false")
		}
		q.Featured = &b
	}
	return q, nil
}
