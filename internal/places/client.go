package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const detailFields = "place_id,name,formatted_address,rating,user_ratings_total,opening_hours,price_level"

// DetailCache stores enriched places by place id.
type DetailCache interface {
	Get(ctx context.Context, placeID string) (models.Place, bool, error)
	Set(ctx context.Context, placeID string, place models.Place) error
}

type ClientConfig struct {
	BaseURL             string
	APIKey              string
	Timeout             time.Duration
	Concurrency         int
	MaxCandidates       int
	MaxIdleConns        int
	MaxIdleConnsPerHost int
}

// Client runs the two stage text-search then detail-fetch lookup against the
// places web service.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	concurrency   int
	maxCandidates int
	cache         DetailCache
	logger        *zerolog.Logger
}

func NewClient(cfg ClientConfig, cache DetailCache, logger *zerolog.Logger) *Client {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxIdleConnsPerHost == 0 {
		cfg.MaxIdleConnsPerHost = 10
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		concurrency:   cfg.Concurrency,
		maxCandidates: cfg.MaxCandidates,
		cache:         cache,
		logger:        logger,
	}
}

type placeResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level"`
	OpeningHours     *struct {
		WeekdayText []string `json:"weekday_text"`
	} `json:"opening_hours"`
}

type textSearchResponse struct {
	Results      []placeResult `json:"results"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}

type detailsResponse struct {
	Result       placeResult `json:"result"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
}

// Search returns the enriched places for a query. A failed text search fails
// the whole call; a failed detail fetch only drops that candidate unless every
// candidate fails, which is reported as a *models.LookupError.
func (c *Client) Search(ctx context.Context, query models.PlaceQuery) ([]models.Place, error) {
	candidates, err := c.textSearch(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		c.logger.Info().Str("query", query.Text).Msg("text search returned no candidates")
		return []models.Place{}, nil
	}

	if c.maxCandidates > 0 && len(candidates) > c.maxCandidates {
		candidates = candidates[:c.maxCandidates]
	}

	return c.enrich(ctx, candidates)
}

func (c *Client) textSearch(ctx context.Context, query models.PlaceQuery) ([]placeResult, error) {
	params := url.Values{}
	params.Set("query", query.Text)
	params.Set("key", c.apiKey)
	if query.HasLocationBias() {
		params.Set("location", query.Location.String())
		params.Set("radius", strconv.Itoa(query.RadiusMeters))
	}

	var response textSearchResponse
	if err := c.get(ctx, "/textsearch/json", params, &response); err != nil {
		return nil, err
	}

	if err := checkStatus(response.Status, response.ErrorMessage); err != nil {
		return nil, err
	}

	candidates := make([]placeResult, 0, len(response.Results))
	for _, result := range response.Results {
		if result.PlaceID == "" {
			continue
		}
		candidates = append(candidates, result)
	}

	c.logger.Debug().
		Str("query", query.Text).
		Int("candidates", len(candidates)).
		Msg("text search complete")

	return candidates, nil
}

func (c *Client) enrich(ctx context.Context, candidates []placeResult) ([]models.Place, error) {
	enriched := make([]*models.Place, len(candidates))
	failures := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, candidate := range candidates {
		g.Go(func() error {
			place, err := c.details(gctx, candidate)
			if err != nil {
				failures[i] = err
				c.logger.Warn().
					Err(err).
					Str("place_id", candidate.PlaceID).
					Msg("place detail fetch failed, dropping candidate")
				return nil
			}
			enriched[i] = &place
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, &models.LookupError{Err: err}
	}

	places := make([]models.Place, 0, len(enriched))
	for _, place := range enriched {
		if place != nil {
			places = append(places, *place)
		}
	}

	// Every detail fetch failing is an outage, not an empty result.
	if len(candidates) > 0 && len(places) == 0 {
		return nil, detailOutage(failures)
	}

	c.logger.Info().
		Int("candidates", len(candidates)).
		Int("enriched", len(places)).
		Msg("place enrichment complete")

	return places, nil
}

func detailOutage(failures []error) error {
	for _, err := range failures {
		if err == nil {
			continue
		}
		var lookupErr *models.LookupError
		if errors.As(err, &lookupErr) {
			return err
		}
		return &models.LookupError{Err: err}
	}
	return &models.LookupError{Err: errors.New("no place details fetched")}
}

func (c *Client) details(ctx context.Context, candidate placeResult) (models.Place, error) {
	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, candidate.PlaceID)
		if err != nil {
			c.logger.Warn().Err(err).Str("place_id", candidate.PlaceID).Msg("place cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("place_id", candidate.PlaceID)
	params.Set("fields", detailFields)
	params.Set("key", c.apiKey)

	var response detailsResponse
	if err := c.get(ctx, "/details/json", params, &response); err != nil {
		return models.Place{}, err
	}

	if err := checkStatus(response.Status, response.ErrorMessage); err != nil {
		return models.Place{}, err
	}

	place := toPlace(candidate.PlaceID, response.Result, candidate)

	if c.cache != nil {
		if err := c.cache.Set(ctx, candidate.PlaceID, place); err != nil {
			c.logger.Warn().Err(err).Str("place_id", candidate.PlaceID).Msg("place cache write failed")
		}
	}

	return place, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return &models.LookupError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.LookupError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.LookupError{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &models.LookupError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &models.LookupError{Status: resp.StatusCode, Body: string(body), Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

// checkStatus maps the provider status field. The service answers HTTP 200
// for denied or invalid requests.
func checkStatus(status string, message string) error {
	switch status {
	case "", "OK", "ZERO_RESULTS":
		return nil
	default:
		if message == "" {
			message = status
		}
		return &models.LookupError{Status: http.StatusOK, Body: message, Err: fmt.Errorf("provider status %s", status)}
	}
}

func toPlace(placeID string, detail placeResult, summary placeResult) models.Place {
	place := models.Place{
		ID:          placeID,
		Name:        detail.Name,
		Address:     detail.FormattedAddress,
		Rating:      detail.Rating,
		ReviewCount: detail.UserRatingsTotal,
		PriceLevel:  detail.PriceLevel,
	}

	if place.Name == "" {
		place.Name = summary.Name
	}
	if place.Address == "" {
		place.Address = summary.FormattedAddress
	}
	if place.Rating == nil {
		place.Rating = summary.Rating
	}
	if place.ReviewCount == nil {
		place.ReviewCount = summary.UserRatingsTotal
	}
	if place.PriceLevel == nil {
		place.PriceLevel = summary.PriceLevel
	}
	if detail.OpeningHours != nil && len(detail.OpeningHours.WeekdayText) > 0 {
		place.OpeningHours = append([]string(nil), detail.OpeningHours.WeekdayText...)
	}

	return place
}
