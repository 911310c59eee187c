package pokeapi

// NamedResource is a name and the URL of its detail resource.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type listResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

type pokemonResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Types []struct {
		Slot int           `json:"slot"`
		Type NamedResource `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Effort   int           `json:"effort"`
		Stat     NamedResource `json:"stat"`
	} `json:"stats"`
	Abilities []struct {
		Slot     int           `json:"slot"`
		IsHidden bool          `json:"is_hidden"`
		Ability  NamedResource `json:"ability"`
	} `json:"abilities"`
	Sprites struct {
		FrontDefault *string `json:"front_default"`
	} `json:"sprites"`
}
