package main

import (
	"context"
	"os"

	"github.com/hanzilala/hanzilala/app/api"
	"github.com/hanzilala/hanzilala/app/clients/hanzii"
	"github.com/hanzilala/hanzilala/app/db"
	"github.com/hanzilala/hanzilala/app/hanviet"
	"github.com/hanzilala/hanzilala/app/slideshow"

	"github.com/jessevdk/go-flags"
	log "github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

type Opts struct {
	BoltDB      string `long:"boltdb" env:"BOLTDB" default:"./hanzilala.data" description:"Path to BoltDB"`
	RedisURL    string `long:"redis" env:"REDIS_URL" description:"Redis database URL"`
	JWTSecret   string `long:"jwt" env:"JWT_SECRET" required:"true" description:"JWT secret"`
	Port        int    `long:"port" env:"PORT" default:"8080" description:"Port to listen on"`
	APIBase     string `long:"api-base" env:"API_BASE" default:"https://api.hanzii.net/api" description:"Dictionary API base URL"`
	SuggestBase string `long:"suggest-base" env:"SUGGEST_BASE" default:"https://suggest.hanzii.net" description:"Suggestion API base URL"`
	LexiconURL  string `long:"lexicon-url" env:"LEXICON_URL" default:"https://hanzii.net/db/hanzi.json" description:"Hanzi reading table URL"`
	Language    string `long:"language" env:"LANGUAGE" default:"vi" description:"Default display language (en or vi)"`
}

func main() {
	var opts Opts
	_, err := flags.ParseArgs(&opts, os.Args)
	if err != nil {
		return
	}

	storage, closeStorage := getStorage(opts)
	defer closeStorage()

	ctx := context.Background()
	gateway := hanzii.NewClientWithBases(ctx, opts.APIBase, opts.SuggestBase)

	readings := hanviet.NewServiceWithURL(storage, opts.LexiconURL)
	go readings.Initialize(ctx)

	layout := db.LayoutDefault
	language := opts.Language
	if prefs, err := storage.GetPreferences(); err == nil {
		if prefs.Layout != "" {
			layout = prefs.Layout
		}
		if prefs.Language != "" {
			language = prefs.Language
		}
	}

	show := slideshow.New(gateway, language, layout)
	defer show.Close()
	if err := show.LoadBookmarks(storage); err != nil {
		log.Error().Err(err).Msg("failed to load bookmarks")
	}

	server := api.NewServer(storage, gateway, readings, show, opts.JWTSecret)
	log.Info().Int("port", opts.Port).Msg("starting server")
	if err := server.Run(opts.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to run API server")
	}
}

func getStorage(opts Opts) (db.Storage, func()) {
	if opts.RedisURL != "" {
		redisStorage, err := db.NewRedisStorage(opts.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create redis client")
		}
		return redisStorage, func() {}

	} else {
		boltDB, err := bolt.Open(opts.BoltDB, 0600, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create boltDB database")
		}
		boltStorage, err := db.NewBoltStorage(boltDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create bolt storage")
		}
		return boltStorage, func() {
			err := boltDB.Close()
			if err != nil {
				log.Error().Err(err).Msg("failed to close boltDB database")
			}
		}
	}
}
