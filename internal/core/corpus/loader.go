package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"recipe-chat/internal/pkg/common"

	"go.uber.org/zap"
)

// Required corpus columns, in no particular order.
var requiredColumns = []string{"Title", "Ingredients", "Instructions", "Cleaned_Ingredients"}

// Service loads the recipe corpus once and caches it for the process lifetime.
// Reload discards the cached corpus, for tests and cache invalidation.
type Service struct {
	path string

	mu      sync.RWMutex
	loaded  bool
	recipes []Recipe
}

// NewService creates a corpus service for the given dataset path.
func NewService(path string) *Service {
	return &Service{path: path}
}

// Recipes returns the corpus, loading it on first use. A missing file falls
// back to the built-in sample set; a present file with missing columns returns
// a SchemaError together with an empty corpus so the caller stays operable.
func (s *Service) Recipes() ([]Recipe, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.recipes, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.recipes, nil
	}

	recipes, err := load(s.path)
	s.recipes = recipes
	s.loaded = true
	return recipes, err
}

// Reload discards the cached corpus so the next Recipes call loads it again.
func (s *Service) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.recipes = nil
}

func load(path string) ([]Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		common.LogWarn("Corpus file not found, using built-in sample recipes",
			zap.String("path", path),
		)
		return SampleRecipes(), nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		common.LogWarn("Corpus file is empty or unreadable, using built-in sample recipes",
			zap.String("path", path),
			zap.Error(err),
		)
		return SampleRecipes(), nil
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, common.NewSchemaError(name)
		}
	}

	var recipes []Recipe
	dropped := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus row: %w", err)
		}

		rec := Recipe{
			Title:                 field(row, cols["Title"]),
			Ingredients:           field(row, cols["Ingredients"]),
			Instructions:          field(row, cols["Instructions"]),
			NormalizedIngredients: field(row, cols["Cleaned_Ingredients"]),
		}
		if rec.Title == "" || rec.Ingredients == "" || rec.Instructions == "" || rec.NormalizedIngredients == "" {
			dropped++
			continue
		}
		recipes = append(recipes, rec)
	}

	common.LogInfo("Corpus loaded",
		zap.String("path", path),
		zap.Int("recipes", len(recipes)),
		zap.Int("dropped_rows", dropped),
	)

	return recipes, nil
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// SampleRecipes is the built-in fallback corpus used when no dataset file is
// available, so the service is demoable with zero external data.
func SampleRecipes() []Recipe {
	return []Recipe{
		{
			Title:                 "Chicken Stir-fry",
			Ingredients:           "Chicken, Bell Pepper, Onion, Tomato, Spices",
			Instructions:          "1. Stir-fry chicken, bell pepper and onion. 2. Add chopped tomato and spices. 3. Cook until chicken is done.",
			NormalizedIngredients: "chicken bell pepper onion tomato spices",
		},
		{
			Title:                 "Lentil Soup",
			Ingredients:           "Lentil, Onion, Carrot, Tomato Paste, Mint",
			Instructions:          "1. Boil lentils with chopped onion and carrot. 2. Add tomato paste and mint. 3. Simmer until tender.",
			NormalizedIngredients: "lentil onion carrot tomato paste mint",
		},
		{
			Title:                 "Pasta Salad",
			Ingredients:           "Pasta, Mayonnaise, Peas, Carrot",
			Instructions:          "1. Boil pasta. 2. Mix with mayonnaise, peas, and shredded carrot. 3. Chill and serve.",
			NormalizedIngredients: "pasta mayonnaise peas carrot",
		},
		{
			Title:                 "Spicy Shrimp Pasta",
			Ingredients:           "Shrimp, Pasta, Garlic, Chili, Olive Oil",
			Instructions:          "1. Cook pasta. 2. Saute shrimp with garlic and chili. 3. Combine with pasta and olive oil.",
			NormalizedIngredients: "shrimp pasta garlic chili olive oil",
		},
		{
			Title:                 "Vegetable Curry",
			Ingredients:           "Mixed Vegetables, Coconut Milk, Curry Powder",
			Instructions:          "1. Saute mixed vegetables. 2. Add coconut milk and curry powder. 3. Simmer until vegetables are tender.",
			NormalizedIngredients: "mixed vegetables coconut milk curry powder",
		},
	}
}
