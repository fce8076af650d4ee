package corpus

// Recipe is one row of the corpus. All fields are populated; rows missing any
// field are dropped at load time. NormalizedIngredients is used only for
// similarity scoring and is never shown to the user.
type Recipe struct {
	Title                 string `json:"title"`
	Ingredients           string `json:"ingredients"`
	Instructions          string `json:"instructions"`
	NormalizedIngredients string `json:"-"`
}
