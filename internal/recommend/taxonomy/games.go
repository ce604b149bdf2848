// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package taxonomy

// GameCategories is the built-in label set. Upstream names follow the IGDB
// genre and player_perspective vocabularies.
var GameCategories = []Category{
	{Label: "Adventure", Kind: KindGenre},
	{Label: "Arcade", Kind: KindGenre},
	{Label: "Card & Board Game", Kind: KindGenre, Aliases: []string{"card game", "board game"}},
	{Label: "Fighting", Kind: KindGenre},
	{Label: "Hack and Slash", Kind: KindGenre, Upstream: "Hack and slash/Beat 'em up", Aliases: []string{"beat em up", "beat 'em up"}},
	{Label: "Indie", Kind: KindGenre},
	{Label: "MOBA", Kind: KindGenre},
	{Label: "Music", Kind: KindGenre, Aliases: []string{"rhythm"}},
	{Label: "Pinball", Kind: KindGenre},
	{Label: "Platform", Kind: KindGenre, Aliases: []string{"platformer"}},
	{Label: "Point-and-Click", Kind: KindGenre, Upstream: "Point-and-click"},
	{Label: "Puzzle", Kind: KindGenre},
	{Label: "Quiz/Trivia", Kind: KindGenre, Aliases: []string{"quiz", "trivia"}},
	{Label: "Racing", Kind: KindGenre},
	{Label: "RPG", Kind: KindGenre, Upstream: "Role-playing (RPG)", Aliases: []string{"role playing", "role-playing game"}},
	{Label: "RTS", Kind: KindGenre, Upstream: "Real Time Strategy (RTS)", Aliases: []string{"real time strategy", "real-time strategy"}},
	{Label: "Shooter", Kind: KindGenre},
	{Label: "Simulator", Kind: KindGenre, Aliases: []string{"simulation"}},
	{Label: "Sport", Kind: KindGenre, Aliases: []string{"sports"}},
	{Label: "Strategy", Kind: KindGenre},
	{Label: "Tactical", Kind: KindGenre},
	{Label: "TBS", Kind: KindGenre, Upstream: "Turn-based strategy (TBS)", Aliases: []string{"turn based strategy", "turn-based strategy"}},
	{Label: "Visual Novel", Kind: KindGenre},

	{Label: "First-Person", Kind: KindPerspective, Upstream: "First person"},
	{Label: "Third-Person", Kind: KindPerspective, Upstream: "Third person"},
	{Label: "Isometric", Kind: KindPerspective, Upstream: "Bird view / Isometric", Aliases: []string{"bird view", "top down", "top-down"}},
	{Label: "Side-View", Kind: KindPerspective, Upstream: "Side view", Aliases: []string{"side scroller", "side-scrolling"}},
	{Label: "Text", Kind: KindPerspective},
	{Label: "Auditory", Kind: KindPerspective},
	{Label: "Virtual Reality", Kind: KindPerspective, Aliases: []string{"vr"}},
}

// Default returns a lenient taxonomy over GameCategories.
func Default() *Taxonomy {
	t, err := New(GameCategories, false)
	if err != nil {
		// GameCategories is static; a collision is a programming error.
		panic(err)
	}
	return t
}
