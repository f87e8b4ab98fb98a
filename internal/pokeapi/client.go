package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

const (
	// DefaultBaseURL is the public PokeAPI REST endpoint.
	DefaultBaseURL = "https://pokeapi.co/api/v2"

	defaultRateLimit = 20 // requests per second
	defaultUserAgent = "pokemon-catcher/1.0"
)

// Source supplies catalog, species and evolution data.
type Source interface {
	// ListPokemon returns one page of the catalog.
	ListPokemon(ctx context.Context, limit, offset int) ([]models.CatalogItem, error)

	// GetPokemon returns a Pokémon by name.
	GetPokemon(ctx context.Context, name string) (*Pokemon, error)

	// GetSpecies returns species metadata by Pokémon id.
	GetSpecies(ctx context.Context, id int) (*Species, error)

	// GetEvolutionChain returns the chain referenced by species metadata.
	GetEvolutionChain(ctx context.Context, url string) (*EvolutionChain, error)
}

// ClientOptions configures the REST client.
type ClientOptions struct {
	BaseURL   string        // API root, without trailing slash
	RateLimit float64       // Requests per second (0 = unlimited)
	Timeout   time.Duration // HTTP timeout (0 = no client timeout)
	UserAgent string
}

// DefaultClientOptions returns sensible default client options.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		BaseURL:   DefaultBaseURL,
		RateLimit: defaultRateLimit,
		UserAgent: defaultUserAgent,
	}
}

// Client is a PokeAPI REST client with rate limiting.
// Requests are one-shot: failures are returned, never retried.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

var _ Source = (*Client)(nil)

// NewClient creates a new PokeAPI client.
func NewClient(options ClientOptions) *Client {
	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}
	if options.UserAgent == "" {
		options.UserAgent = defaultUserAgent
	}

	limit := rate.Inf
	if options.RateLimit > 0 {
		limit = rate.Limit(options.RateLimit)
	}

	return &Client{
		baseURL: strings.TrimRight(options.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: options.Timeout,
		},
		rateLimiter: rate.NewLimiter(limit, 1),
		userAgent:   options.UserAgent,
	}
}

// ListPokemon retrieves one page of the catalog.
func (c *Client) ListPokemon(ctx context.Context, limit, offset int) ([]models.CatalogItem, error) {
	url := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", c.baseURL, limit, offset)

	var list PokemonList
	if err := c.doRequest(ctx, url, &list); err != nil {
		return nil, fmt.Errorf("failed to list pokemon (limit %d, offset %d): %w", limit, offset, err)
	}

	items := make([]models.CatalogItem, 0, len(list.Results))
	for _, r := range list.Results {
		id := IDFromURL(r.URL)
		if id == 0 {
			continue
		}
		items = append(items, models.CatalogItem{
			ID:         id,
			Name:       r.Name,
			Image:      models.SpriteURL(id),
			SpeciesURL: fmt.Sprintf("%s/pokemon-species/%d/", c.baseURL, id),
		})
	}
	return items, nil
}

// GetPokemon retrieves a Pokémon by name.
func (c *Client) GetPokemon(ctx context.Context, name string) (*Pokemon, error) {
	url := fmt.Sprintf("%s/pokemon/%s", c.baseURL, models.NameKey(name))

	var p Pokemon
	if err := c.doRequest(ctx, url, &p); err != nil {
		return nil, fmt.Errorf("failed to get pokemon %s: %w", name, err)
	}
	return &p, nil
}

// GetSpecies retrieves species metadata by Pokémon id.
func (c *Client) GetSpecies(ctx context.Context, id int) (*Species, error) {
	url := fmt.Sprintf("%s/pokemon-species/%d", c.baseURL, id)

	var s Species
	if err := c.doRequest(ctx, url, &s); err != nil {
		return nil, fmt.Errorf("failed to get species %d: %w", id, err)
	}
	return &s, nil
}

// GetEvolutionChain retrieves an evolution chain by its resource URL.
func (c *Client) GetEvolutionChain(ctx context.Context, url string) (*EvolutionChain, error) {
	var chain EvolutionChain
	if err := c.doRequest(ctx, url, &chain); err != nil {
		return nil, fmt.Errorf("failed to get evolution chain %s: %w", url, err)
	}
	return &chain, nil
}

// doRequest performs a single rate-limited GET and decodes the JSON body.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return nil

	case http.StatusNotFound:
		return &NotFoundError{URL: url}

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body)), URL: url}
	}
}
