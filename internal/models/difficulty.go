package models

// Difficulty is a named settings preset
type Difficulty struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Settings    Settings `json:"settings"`
}

// Difficulties lists the presets from easiest to hardest
var Difficulties = []Difficulty{
	{
		Name:        "easy",
		Description: "Basic numbers (0-20)",
		Settings:    Settings{Min: 0, Max: 20, DecimalPlaces: 1},
	},
	{
		Name:        "medium",
		Description: "Standard practice (0-100)",
		Settings:    Settings{Min: 0, Max: 100, DecimalPlaces: 1},
	},
	{
		Name:        "hard",
		Description: "Advanced integers (0-1000)",
		Settings:    Settings{Min: 0, Max: 1000, DecimalPlaces: 1},
	},
	{
		Name:        "expert",
		Description: "Full range with decimals",
		Settings:    Settings{Min: 0, Max: 1000, AllowDecimal: true, DecimalPlaces: 2},
	},
}

// DifficultyByName looks up a preset by name
func DifficultyByName(name string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if d.Name == name {
			return d, true
		}
	}
	return Difficulty{}, false
}
