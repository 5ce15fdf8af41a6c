package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/kosatka-dev/postmap/internal/config"
	"github.com/kosatka-dev/postmap/internal/geocode"
	"github.com/kosatka-dev/postmap/internal/logger"
	"github.com/kosatka-dev/postmap/internal/metrics"
	"github.com/kosatka-dev/postmap/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
}

func main() {
	// .env is optional, flags and real env win
	_ = godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	geocoder := geocode.NewClient(cfg.Geocoder, m)
	srvCtx := server.NewServerContext(cfg, geocoder, m, registry)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Str("geocoder", cfg.Geocoder.Endpoint).
		Str("map_style", cfg.MapStyle).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, srvCtx.Router()); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
