package content

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Catalog is a local copy of the vocabulary kept in SQLite.
type Catalog struct {
	db *sqlx.DB
}

// NewCatalog wraps an opened database whose migrations have run.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: sqlx.NewDb(db, "sqlite3")}
}

// SensesByTag returns catalog rows whose tags contain tag, ordered by sense id.
func (c *Catalog) SensesByTag(ctx context.Context, tag string) ([]models.SenseRow, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog").WithField("tag", tag)

	query, args, err := sqlBuilder.
		Select("s.senses_id", "s.word_id", "w.word", "s.pos", "s.en", "s.ja", "s.se_en", "s.se_ja", "s.tags").
		From("catalog_senses s").
		Join("catalog_words w ON w.word_id = s.word_id").
		Where(squirrel.Like{"s.tags": "%" + tag + "%"}).
		OrderBy("s.senses_id").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var rows []models.SenseRow
	if err := c.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to query senses: %v", err)
		return nil, err
	}
	log.Debug("loaded %d senses", len(rows))
	return rows, nil
}

// Upsert stores rows, replacing words and senses with the same ids.
func (c *Catalog) Upsert(ctx context.Context, rows []models.SenseRow) error {
	log := logger.FromContext(ctx).WithPrefix("catalog")
	if len(rows) == 0 {
		return nil
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range rows {
		wq, wargs, err := sqlBuilder.Insert("catalog_words").
			Columns("word_id", "word").
			Values(r.WordID, r.Word).
			Suffix("ON CONFLICT(word_id) DO UPDATE SET word = excluded.word").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, wq, wargs...); err != nil {
			log.Error("failed to upsert word %d: %v", r.WordID, err)
			return err
		}

		sq, sargs, err := sqlBuilder.Insert("catalog_senses").
			Columns("senses_id", "word_id", "pos", "en", "ja", "se_en", "se_ja", "tags").
			Values(r.SensesID, r.WordID, r.PartOfSpeech, r.DefinitionEn, r.DefinitionJa, r.ExampleEn, r.ExampleJa, r.Tags).
			Suffix(`ON CONFLICT(senses_id) DO UPDATE SET word_id = excluded.word_id, pos = excluded.pos,
				en = excluded.en, ja = excluded.ja, se_en = excluded.se_en, se_ja = excluded.se_ja, tags = excluded.tags`).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, sq, sargs...); err != nil {
			log.Error("failed to upsert sense %d: %v", r.SensesID, err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit catalog upsert: %v", err)
		return err
	}
	log.Info("upserted %d catalog rows", len(rows))
	return nil
}

// Count returns the number of senses in the catalog.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM catalog_senses"); err != nil {
		return 0, err
	}
	return n, nil
}
