package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/vitaena/internal/app"
	"github.com/gokatarajesh/vitaena/internal/catalog"
	"github.com/gokatarajesh/vitaena/internal/config"
	"github.com/gokatarajesh/vitaena/internal/exercise"
)

func main() {
	dir := flag.String("dir", "", "Content directory to check (default: embedded catalog)")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cat, err := app.LoadCatalog(config.Content{Dir: *dir}, zerolog.Nop())
	if err != nil {
		var issues exercise.ValidationErrors
		if errors.As(err, &issues) {
			for _, issue := range issues {
				fmt.Fprintln(os.Stdout, issue.String())
			}
			log.Fatal().Int("issues", len(issues)).Msg("content is invalid")
		}
		log.Fatal().Err(err).Msg("failed to load content")
	}

	for _, t := range cat.ListTopics() {
		fmt.Fprintf(os.Stdout, "%-12s %s\n", t.Slug, catalog.CountLabel(t.Len()))
	}
	log.Info().Int("topics", len(cat.ListTopics())).Msg("content is valid")
}
