package pokeapi_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedata/internal/pokeapi"
	"pokedata/pkg/models"
)

const pikachuJSON = `{
  "id": 25,
  "name": "pikachu",
  "types": [{"slot": 1, "type": {"name": "electric", "url": ""}}],
  "stats": [
    {"base_stat": 35, "effort": 0, "stat": {"name": "hp"}},
    {"base_stat": 55, "effort": 0, "stat": {"name": "attack"}},
    {"base_stat": 50, "effort": 2, "stat": {"name": "special-attack"}}
  ],
  "abilities": [
    {"slot": 3, "is_hidden": true, "ability": {"name": "lightning-rod"}},
    {"slot": 1, "is_hidden": false, "ability": {"name": "static"}}
  ],
  "sprites": {"front_default": "%s/sprites/25.png"}
}`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/pokemon", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "10", r.URL.Query().Get("offset"))
		fmt.Fprintf(w, `{"count": 1118, "results": [
			{"name": "caterpie", "url": "%[1]s/pokemon/10/"},
			{"name": "metapod", "url": "%[1]s/pokemon/11/"}]}`, srv.URL)
	})
	mux.HandleFunc("/pokemon/pikachu", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, pikachuJSON, srv.URL)
	})
	mux.HandleFunc("/pokemon/missingno", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/pokemon/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/sprites/25.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\x89PNG fake"))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_List(t *testing.T) {
	srv := newServer(t)
	client := pokeapi.NewClient(srv.URL, 0)

	results, err := client.List(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "caterpie", results[0].Name)
	assert.Equal(t, srv.URL+"/pokemon/10/", results[0].URL)
}

func TestClient_Pokemon(t *testing.T) {
	srv := newServer(t)
	client := pokeapi.NewClient(srv.URL+"/", 0)

	p, err := client.Pokemon(context.Background(), "  Pikachu ")
	require.NoError(t, err)
	assert.Equal(t, 25, p.ID)
	assert.Equal(t, "pikachu", p.Name)
	assert.Equal(t, []string{"electric"}, p.Types)
	assert.Equal(t, []models.Stat{
		{Name: "hp", Base: 35},
		{Name: "attack", Base: 55},
		{Name: "special-attack", Base: 50},
	}, p.Stats)
	assert.Equal(t, []string{"static", "lightning-rod"}, p.Abilities, "abilities are ordered by slot")
	assert.Equal(t, srv.URL+"/sprites/25.png", p.SpriteURL)
	assert.Nil(t, p.Sprite)

	sprite, err := client.Sprite(context.Background(), p.SpriteURL)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG fake"), sprite)
}

func TestClient_Errors(t *testing.T) {
	srv := newServer(t)
	client := pokeapi.NewClient(srv.URL, 0)

	_, err := client.Pokemon(context.Background(), "missingno")
	assert.ErrorIs(t, err, pokeapi.ErrNotFound)

	_, err = client.Pokemon(context.Background(), "broken")
	assert.ErrorIs(t, err, pokeapi.ErrUnexpectedStatus)

	_, err = client.Pokemon(context.Background(), "")
	assert.ErrorIs(t, err, pokeapi.ErrNotFound)

	data, err := client.Sprite(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestClient_CanceledContext(t *testing.T) {
	srv := newServer(t)
	client := pokeapi.NewClient(srv.URL, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Pokemon(ctx, "pikachu")
	assert.Error(t, err)
}
