/*
Akaza-server runs the kana-kanji conversion engine as an HTTP service.

It loads the engine from a TOML configuration file and serves conversion
and commit requests until terminated. The user language model is flushed
on shutdown.

Usage:

	akaza-server [flags]

The flags are:

	-v, --version
		Give the current version of Akaza and then exit.

	-c, --config FILE
		Use the provided engine configuration file. Defaults to the file
		"akaza.toml" in the current working directory.

	-l, --listen ADDR
		Listen address. Defaults to "127.0.0.1:13522".
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/akaza-im/akaza"
	"github.com/akaza-im/akaza/internal/version"
	"github.com/akaza-im/akaza/server"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitServeError indicates an unsuccessful program execution due to a
	// problem while serving.
	ExitServeError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the engine.
	ExitInitError
)

var (
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	configFile  *string = pflag.StringP("config", "c", "akaza.toml", "The engine configuration file")
	listenAddr  *string = pflag.StringP("listen", "l", "127.0.0.1:13522", "The address to listen on")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Println("akaza-server " + version.Current)
		os.Exit(ExitSuccess)
	}

	eng, err := akaza.New(*configFile)
	if err != nil {
		log.Error().Err(err).Msg("cannot initialize engine")
		os.Exit(ExitInitError)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		if err := eng.Close(); err != nil {
			log.Error().Err(err).Msg("error while closing engine")
		}
		os.Exit(ExitSuccess)
	}()

	if err := server.New(eng).ListenAndServe(*listenAddr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(ExitServeError)
	}
}
