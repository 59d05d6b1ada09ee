package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/petropump/attendance-backend/internal/pkg/database"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates the tables used by the postgres driver when they do not exist.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
