package models

// Pokemon is one species as served by PokeAPI and kept in the reference CSV.
type Pokemon struct {
	// Identity
	ID   int    // National dex number
	Name string // Lower-case API name, e.g. "mr-mime"

	// Battle data
	Types     []string // Type names in slot order
	Stats     []Stat   // Base stats in API order (hp, attack, defense, special-attack, special-defense, speed)
	Abilities []string // Ability names in slot order

	// Sprite
	SpriteURL string // front_default sprite URL; empty when the species has none
	Sprite    []byte // PNG bytes of the sprite; nil when not downloaded
}

// Stat is a single base stat.
type Stat struct {
	Name string // API stat name, e.g. "special-attack"
	Base int    // Base value
}
