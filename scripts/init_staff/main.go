package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/blogdesk/internal/config"
	"github.com/blogdesk/internal/db"
	"github.com/blogdesk/internal/logger"
	"github.com/blogdesk/internal/service"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env, cfg.LogLevel)

	username := flag.String("username", cfg.SuperRootUserName, "staff username (defaults to SUPER_ROOT_USER_NAME)")
	password := flag.String("password", cfg.SuperRootPassword, "staff password (defaults to SUPER_ROOT_PASSWORD)")
	category := flag.String("category", "General", "category created when none exists")
	flag.Parse()

	if strings.TrimSpace(*username) == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "username and password are required")
		flag.Usage()
		os.Exit(2)
	}

	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseSource()); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	if err := db.EnsureStaffUser(db.DB, *username, *password); err != nil {
		log.Fatal().Err(err).Msg("failed to create staff account")
	}

	categories := service.NewCategoryService(db.DB)
	if _, err := categories.First(); err != nil {
		if !errors.Is(err, service.ErrCategoryNotFound) {
			log.Fatal().Err(err).Msg("failed to look up categories")
		}
		if _, createErr := categories.Create(service.CategoryInput{Title: *category}); createErr != nil {
			log.Fatal().Err(createErr).Msg("failed to create default category")
		}
		log.Info().Str("category", *category).Msg("default category created")
	}

	log.Info().Str("username", strings.TrimSpace(*username)).Msg("staff account ready")
}
