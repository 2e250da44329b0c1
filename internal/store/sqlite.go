package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gvondra/StsfctryRecipes/internal/db"
	"github.com/gvondra/StsfctryRecipes/internal/migrations"
	"github.com/gvondra/StsfctryRecipes/internal/recipe"
)

// SQLite keeps recipes in the recipes and recipe_items tables.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens dbPath and applies pending migrations.
func OpenSQLite(dbPath string) (*SQLite, error) {
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(database); err != nil {
		database.Close()
		return nil, err
	}
	return &SQLite{db: database}, nil
}

func (s *SQLite) LoadAll(ctx context.Context) ([]recipe.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, production_rate, is_enabled
		FROM recipes
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]recipe.Recipe, 0)
	positions := make(map[int]int)
	for rows.Next() {
		r := recipe.Recipe{Items: []recipe.Item{}}
		if err := rows.Scan(&r.ID, &r.Title, &r.ProductionRate, &r.IsEnabled); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		positions[r.ID] = len(recipes)
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT recipe_id, target_id, consumption_rate
		FROM recipe_items
		ORDER BY recipe_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("query recipe items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var owner int
		var item recipe.Item
		if err := itemRows.Scan(&owner, &item.RecipeID, &item.ConsumptionRate); err != nil {
			return nil, fmt.Errorf("scan recipe item: %w", err)
		}
		idx, ok := positions[owner]
		if !ok {
			continue
		}
		recipes[idx].Items = append(recipes[idx].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe items: %w", err)
	}

	return recipes, nil
}

// SaveAll replaces the stored collection in one transaction.
func (s *SQLite) SaveAll(ctx context.Context, recipes []recipe.Recipe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}

	if err := replaceAll(ctx, tx, recipes); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func replaceAll(ctx context.Context, tx *sql.Tx, recipes []recipe.Recipe) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_items`); err != nil {
		return fmt.Errorf("clear recipe items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipes`); err != nil {
		return fmt.Errorf("clear recipes: %w", err)
	}

	for _, r := range recipes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipes (id, title, production_rate, is_enabled)
			VALUES (?, ?, ?, ?)
		`, r.ID, r.Title, r.ProductionRate, r.IsEnabled); err != nil {
			return fmt.Errorf("insert recipe %d: %w", r.ID, err)
		}
		for pos, item := range r.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO recipe_items (recipe_id, position, target_id, consumption_rate)
				VALUES (?, ?, ?, ?)
			`, r.ID, pos, item.RecipeID, item.ConsumptionRate); err != nil {
				return fmt.Errorf("insert item %d of recipe %d: %w", pos, r.ID, err)
			}
		}
	}
	return nil
}
