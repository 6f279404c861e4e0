package api

import (
	"database/sql"

	"github.com/vytor/senseflash/internal/services"
)

// Server serves the JSON API.
type Server struct {
	Learning services.LearningService
	Legacy   services.LegacyService
	DB       *sql.DB
}
