// Package common builds the shared dependency graph used by the CLI
// commands.
package common

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/medium-crawler/internal/config"
	"github.com/jonesrussell/medium-crawler/internal/crawler"
	"github.com/jonesrussell/medium-crawler/internal/database"
	"github.com/jonesrussell/medium-crawler/internal/extractor"
	"github.com/jonesrussell/medium-crawler/internal/feed"
	"github.com/jonesrussell/medium-crawler/internal/logger"
)

// Deps holds the assembled application dependencies.
type Deps struct {
	Config       *config.Config
	Logger       logger.Interface
	DB           *sqlx.DB
	Articles     *database.ArticleRepository
	Authors      *database.AuthorRepository
	Tags         *database.TagRepository
	Runs         *database.CrawlRunRepository
	History      *database.SearchHistoryRepository
	Orchestrator *crawler.Orchestrator
	Suggester    *crawler.Suggester
}

// New loads configuration, connects the database, ensures the schema,
// and wires the crawl pipeline.
func New(ctx context.Context) (*Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, err
	}

	if schemaErr := database.EnsureSchema(ctx, db); schemaErr != nil {
		db.Close()
		return nil, schemaErr
	}

	articles := database.NewArticleRepository(db)
	authors := database.NewAuthorRepository(db)
	tags := database.NewTagRepository(db)
	runs := database.NewCrawlRunRepository(db)
	history := database.NewSearchHistoryRepository(db)

	feedClient := &http.Client{Timeout: cfg.Crawler.FeedTimeout}
	pageClient := &http.Client{Timeout: cfg.Crawler.PageTimeout}

	source := feed.NewSource(feedClient, cfg.Crawler.FeedBaseURL, cfg.Crawler.UserAgent, log)
	enricher := extractor.New(pageClient, cfg.Crawler.UserAgent, log)

	orchestrator := crawler.NewOrchestrator(
		source,
		enricher,
		articles,
		authors,
		tags,
		runs,
		history,
		crawler.Config{
			Limit: cfg.Crawler.Limit,
			Delay: cfg.Crawler.Delay,
		},
		log,
	)

	return &Deps{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		Articles:     articles,
		Authors:      authors,
		Tags:         tags,
		Runs:         runs,
		History:      history,
		Orchestrator: orchestrator,
		Suggester:    crawler.NewSuggester(tags, log),
	}, nil
}

// Close releases held resources.
func (d *Deps) Close() error {
	return d.DB.Close()
}
