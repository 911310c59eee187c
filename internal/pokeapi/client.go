// Package pokeapi fetches species master data from PokeAPI
// (https://pokeapi.co). Every request waits on a shared rate limiter.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"pokedata/internal/logger"
	"pokedata/pkg/models"
)

const (
	// DefaultBaseURL is the public PokeAPI endpoint.
	DefaultBaseURL = "https://pokeapi.co/api/v2"

	// DefaultRate is the request rate in requests per second.
	DefaultRate = 5.0

	// DefaultListLimit covers every species with a numbered dex entry.
	DefaultListLimit = 1118

	defaultTimeout = 30 * time.Second
	maxSpriteBytes = 2 << 20
)

var (
	ErrNotFound         = errors.New("pokemon not found")
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// Client is a PokeAPI client.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client for baseURL allowing ratePerSec requests per
// second. A non-positive rate disables pacing.
func NewClient(baseURL string, ratePerSec float64, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(limit, 1),
		log:     logger.WithComponent("pokeapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns one page of the species index.
func (c *Client) List(ctx context.Context, limit, offset int) ([]NamedResource, error) {
	const op = "List"

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var resp listResponse
	if err := c.getJSON(ctx, c.baseURL+"/pokemon?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.log.Debug().
		Int("count", resp.Count).
		Int("results", len(resp.Results)).
		Msg("Fetched species index")

	return resp.Results, nil
}

// Pokemon fetches a species by name or dex number. The sprite is not
// downloaded; see Sprite.
func (c *Client) Pokemon(ctx context.Context, nameOrID string) (*models.Pokemon, error) {
	const op = "Pokemon"

	key := strings.ToLower(strings.TrimSpace(nameOrID))
	if key == "" {
		return nil, fmt.Errorf("%s: %w: empty name", op, ErrNotFound)
	}
	return c.PokemonByURL(ctx, c.baseURL+"/pokemon/"+url.PathEscape(key))
}

// PokemonByURL fetches a species from a detail URL as returned by List.
func (c *Client) PokemonByURL(ctx context.Context, detailURL string) (*models.Pokemon, error) {
	const op = "PokemonByURL"

	var resp pokemonResponse
	if err := c.getJSON(ctx, detailURL, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.toModel(), nil
}

// Sprite downloads the image at spriteURL. An empty URL yields no data.
func (c *Client) Sprite(ctx context.Context, spriteURL string) ([]byte, error) {
	const op = "Sprite"

	if spriteURL == "" {
		return nil, nil
	}

	body, err := c.get(ctx, spriteURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxSpriteBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sprite: %w", op, err)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", rawURL, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("url", rawURL).Msg("GET")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", rawURL, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, rawURL, resp.StatusCode)
	}
	return resp.Body, nil
}

func (r *pokemonResponse) toModel() *models.Pokemon {
	sort.SliceStable(r.Types, func(i, j int) bool { return r.Types[i].Slot < r.Types[j].Slot })
	sort.SliceStable(r.Abilities, func(i, j int) bool { return r.Abilities[i].Slot < r.Abilities[j].Slot })

	p := &models.Pokemon{
		ID:   r.ID,
		Name: r.Name,
	}
	for _, t := range r.Types {
		p.Types = append(p.Types, t.Type.Name)
	}
	for _, s := range r.Stats {
		p.Stats = append(p.Stats, models.Stat{Name: s.Stat.Name, Base: s.BaseStat})
	}
	for _, a := range r.Abilities {
		p.Abilities = append(p.Abilities, a.Ability.Name)
	}
	if r.Sprites.FrontDefault != nil {
		p.SpriteURL = *r.Sprites.FrontDefault
	}
	return p
}
