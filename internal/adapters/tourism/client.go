package tourism

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"babystay/internal/adapters/httpclient"
	"babystay/internal/domain"
)

// Content type ids in the upstream tourism catalog.
const (
	ContentTypeStay       = "32"
	ContentTypeAttraction = "12"
	ContentTypeCulture    = "14"
	ContentTypeRestaurant = "39"
)

var ErrNotConfigured = errors.New("tourism: API key is not configured")

// Client proxies the national tourism content API. All endpoints share
// the same service-key query parameter and JSON envelope.
type Client struct {
	base string
	key  string
	hc   *httpclient.Client
}

func New(base, key string, rps int) *Client {
	return &Client{base: base, key: key, hc: httpclient.New("tourism", rps, nil)}
}

func (c *Client) common() url.Values {
	params := url.Values{}
	params.Set("serviceKey", c.key)
	params.Set("MobileOS", "ETC")
	params.Set("MobileApp", "babystay")
	params.Set("_type", "json")
	return params
}

// SearchStays searches lodging content, title-ordered.
func (c *Client) SearchStays(ctx context.Context, q domain.StaySearch) (domain.TourismResult, error) {
	if c.key == "" {
		return domain.TourismResult{}, ErrNotConfigured
	}
	params := c.common()
	params.Set("contentTypeId", ContentTypeStay)
	params.Set("listYN", "Y")
	params.Set("arrange", "A")
	params.Set("pageNo", strconv.Itoa(orDefault(q.PageNo, 1)))
	params.Set("numOfRows", strconv.Itoa(orDefault(q.NumOfRows, 10)))
	if q.AreaCode != "" {
		params.Set("areaCode", q.AreaCode)
	}
	if q.SigunguCode != "" {
		params.Set("sigunguCode", q.SigunguCode)
	}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	return c.get(ctx, "searchStay1", params)
}

// SearchNearby lists tourism content around a coordinate, nearest first.
func (c *Client) SearchNearby(ctx context.Context, q domain.NearbySearch) (domain.TourismResult, error) {
	if c.key == "" {
		return domain.TourismResult{}, ErrNotConfigured
	}
	params := c.common()
	params.Set("mapX", strconv.FormatFloat(q.MapX, 'f', -1, 64))
	params.Set("mapY", strconv.FormatFloat(q.MapY, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(orDefault(q.RadiusMeters, 5000)))
	params.Set("listYN", "Y")
	params.Set("arrange", "E")
	params.Set("pageNo", strconv.Itoa(orDefault(q.PageNo, 1)))
	params.Set("numOfRows", strconv.Itoa(orDefault(q.NumOfRows, 10)))
	if q.ContentTypeID != "" {
		params.Set("contentTypeId", q.ContentTypeID)
	}
	return c.get(ctx, "locationBasedList1", params)
}

// Detail fetches the full record for one content id.
func (c *Client) Detail(ctx context.Context, contentID, contentTypeID string) (domain.TourismResult, error) {
	if c.key == "" {
		return domain.TourismResult{}, ErrNotConfigured
	}
	params := c.common()
	params.Set("contentId", contentID)
	params.Set("contentTypeId", contentTypeID)
	params.Set("defaultYN", "Y")
	params.Set("firstImageYN", "Y")
	params.Set("addrinfoYN", "Y")
	params.Set("mapinfoYN", "Y")
	params.Set("overviewYN", "Y")
	return c.get(ctx, "detailCommon1", params)
}

// AreaCodes lists area codes, optionally under one parent code.
func (c *Client) AreaCodes(ctx context.Context, areaCode string) (domain.TourismResult, error) {
	if c.key == "" {
		return domain.TourismResult{}, ErrNotConfigured
	}
	params := c.common()
	params.Set("pageNo", "1")
	params.Set("numOfRows", "100")
	if areaCode != "" {
		params.Set("areaCode", areaCode)
	}
	return c.get(ctx, "areaCode1", params)
}

// envelope is the upstream response frame. The items field degrades to
// an empty string when there are no results, so it stays raw until the
// result code says there is something to decode.
type envelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			TotalCount int             `json:"totalCount"`
			PageNo     int             `json:"pageNo"`
			NumOfRows  int             `json:"numOfRows"`
			Items      json.RawMessage `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (domain.TourismResult, error) {
	var env envelope
	u := fmt.Sprintf("%s/B551011/KorService1/%s?%s", c.base, endpoint, params.Encode())
	if err := c.hc.GetJSON(ctx, endpoint, u, &env); err != nil {
		return domain.TourismResult{}, err
	}

	if env.Response.Header.ResultCode != "0000" {
		msg := env.Response.Header.ResultMsg
		if msg == "" {
			msg = "unknown error"
		}
		return domain.TourismResult{Success: false, Items: []map[string]any{}, Error: msg}, nil
	}

	body := env.Response.Body
	return domain.TourismResult{
		Success:    true,
		TotalCount: body.TotalCount,
		PageNo:     orDefault(body.PageNo, 1),
		NumOfRows:  body.NumOfRows,
		Items:      decodeItems(body.Items),
	}, nil
}

func decodeItems(raw json.RawMessage) []map[string]any {
	var wrap struct {
		Item []map[string]any `json:"item"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &wrap)
	}
	if wrap.Item == nil {
		return []map[string]any{}
	}
	return wrap.Item
}

// Failure renders an upstream error as the structured failure document;
// a tourism-data outage never breaks a page render.
func Failure(err error) domain.TourismResult {
	return domain.TourismResult{
		Success: false,
		Items:   []map[string]any{},
		Error:   err.Error(),
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
