package corpus

// Recipe is one scraped recipe. The corpus is loaded once at startup and is
// immutable for the lifetime of the process.
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Image       string       `json:"image,omitempty"`
	Duration    string       `json:"duration,omitempty"`
	Servings    string       `json:"servings,omitempty"`
	Hashtags    []string     `json:"hashtags"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
}

// Ingredient is a raw ingredient line as scraped. Amount is free text and is
// never parsed into quantity and unit.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
}

// Step is one cooking step.
type Step struct {
	ID          int    `json:"id"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Tips        string `json:"tips,omitempty"`
}
