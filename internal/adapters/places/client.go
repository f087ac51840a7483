package places

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"babystay/internal/adapters/httpclient"
	"babystay/internal/domain"
)

// Category group codes the platform cares about.
const (
	CategoryHospital = "HP8"
	CategoryPharmacy = "PM9"
)

const (
	maxRadiusMeters = 20000
	maxPageSize     = 15
	defaultRadius   = 3000
)

var ErrNotConfigured = errors.New("places: API key is not configured")

// Client proxies the local-places search API: parameterized GET with an
// API-key header, paged item lists passed through with minimal reshaping.
type Client struct {
	base string
	key  string
	hc   *httpclient.Client
}

func New(base, key string, rps int) *Client {
	return &Client{
		base: base,
		key:  key,
		hc:   httpclient.New("places", rps, map[string]string{"Authorization": "KakaoAK " + key}),
	}
}

type envelope struct {
	Meta struct {
		TotalCount    int  `json:"total_count"`
		PageableCount int  `json:"pageable_count"`
		IsEnd         bool `json:"is_end"`
	} `json:"meta"`
	Documents []domain.Place `json:"documents"`
}

// SearchByCategory finds places of one category around a coordinate,
// nearest first. Radius and page size are capped to the upstream limits.
func (c *Client) SearchByCategory(ctx context.Context, q domain.CategorySearch) (domain.PlacesResult, error) {
	if c.key == "" {
		return domain.PlacesResult{}, ErrNotConfigured
	}

	radius := q.RadiusMeters
	if radius <= 0 {
		radius = defaultRadius
	}
	if radius > maxRadiusMeters {
		radius = maxRadiusMeters
	}
	size := q.Size
	if size <= 0 || size > maxPageSize {
		size = maxPageSize
	}

	params := url.Values{}
	params.Set("category_group_code", q.CategoryCode)
	params.Set("x", strconv.FormatFloat(q.X, 'f', -1, 64))
	params.Set("y", strconv.FormatFloat(q.Y, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("size", strconv.Itoa(size))
	params.Set("sort", "distance")

	var env envelope
	u := fmt.Sprintf("%s/v2/local/search/category.json?%s", c.base, params.Encode())
	if err := c.hc.GetJSON(ctx, "local/search/category", u, &env); err != nil {
		return domain.PlacesResult{}, err
	}

	items := env.Documents
	if items == nil {
		items = []domain.Place{}
	}
	return domain.PlacesResult{
		Success:    true,
		TotalCount: env.Meta.TotalCount,
		IsEnd:      env.Meta.IsEnd,
		Items:      items,
	}, nil
}

// Failure renders an upstream error as the structured failure document:
// a places outage must never break an accommodation page render.
func Failure(err error) domain.PlacesResult {
	return domain.PlacesResult{
		Success: false,
		IsEnd:   true,
		Items:   []domain.Place{},
		Error:   err.Error(),
	}
}
