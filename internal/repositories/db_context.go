package repositories

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	if !isPostgres(connectionString) {
		path, _, _ := strings.Cut(strings.TrimPrefix(connectionString, "file:"), "?")
		if path != "" && path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, err
			}
		}
	}

	db, err := gorm.Open(dialector(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	if db.Dialector.Name() == "sqlite" {
		// sqlite allows one writer at a time
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return &DbContext{DB: db}, nil
}

func dialector(connectionString string) gorm.Dialector {
	if isPostgres(connectionString) {
		return postgres.Open(connectionString)
	}

	for _, pragma := range []string{"foreign_keys(1)", "busy_timeout(5000)"} {
		if strings.Contains(connectionString, strings.Split(pragma, "(")[0]) {
			continue
		}
		separator := "?"
		if strings.Contains(connectionString, "?") {
			separator = "&"
		}
		connectionString += separator + "_pragma=" + pragma
	}
	return sqlite.Open(connectionString)
}

func isPostgres(connectionString string) bool {
	return strings.HasPrefix(connectionString, "postgres://") || strings.HasPrefix(connectionString, "postgresql://")
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(models.Candidate{})
	if err != nil {
		return fmt.Errorf("failed to migrate Candidate entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.Vacancy{})
	if err != nil {
		return fmt.Errorf("failed to migrate Vacancy entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.MatchResult{})
	if err != nil {
		return fmt.Errorf("failed to migrate MatchResult entity: %w", err)
	}

	if err = c.DB.Exec("CREATE INDEX IF NOT EXISTS idx_match_results_vacancy_score " +
		"ON match_results (vacancy_id, score DESC)").Error; err != nil {
		return fmt.Errorf("failed to create match results index: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
