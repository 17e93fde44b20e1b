/*
Akaza-cli starts an interactive conversion session against a configured
engine.

Each line of romaji is converted and the clause candidates are printed,
best first. The session learns: accepting a conversion commits the top
candidates to the user language model.

Usage:

	akaza-cli [flags]

The flags are:

	-v, --version
		Give the current version of Akaza and then exit.

	-c, --config FILE
		Use the provided engine configuration file. Defaults to the file
		"akaza.toml" in the current working directory.

Once a session has started, type romaji and press enter to convert. An
input of "!" alone commits the previous conversion's top candidates; an
empty line or EOF ends the session.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/rosed"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/akaza-im/akaza"
	"github.com/akaza-im/akaza/internal/version"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the interactive session.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the engine.
	ExitInitError
)

const consoleOutputWidth = 80

var (
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	configFile  *string = pflag.StringP("config", "c", "akaza.toml", "The engine configuration file")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Println("akaza-cli " + version.Current)
		os.Exit(ExitSuccess)
	}

	eng, err := akaza.New(*configFile)
	if err != nil {
		log.Error().Err(err).Msg("cannot initialize engine")
		os.Exit(ExitInitError)
	}
	defer eng.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt: "romaji> ",
	})
	if err != nil {
		log.Error().Err(err).Msg("cannot initialize readline")
		os.Exit(ExitInitError)
	}
	defer rl.Close()

	var lastTop []*akaza.Node
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				break
			}
			fmt.Fprintf(os.Stderr, "read input: %v\n", err)
			os.Exit(ExitSessionError)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		if line == "!" {
			if len(lastTop) == 0 {
				fmt.Println("nothing to commit")
				continue
			}
			eng.Commit(lastTop)
			fmt.Println("committed")
			continue
		}

		clauses := eng.Convert(line, nil)
		if len(clauses) == 0 {
			fmt.Println("(no conversion)")
			lastTop = nil
			continue
		}

		lastTop = lastTop[:0]
		var joined strings.Builder
		for _, clause := range clauses {
			lastTop = append(lastTop, clause[0])
			joined.WriteString(eng.Surface(clause[0]))
		}
		fmt.Println(joined.String())

		for i, clause := range clauses {
			surfaces := make([]string, 0, len(clause))
			for _, n := range clause {
				surfaces = append(surfaces, eng.Surface(n))
			}
			listing := fmt.Sprintf("clause %d (%s): %s", i+1, clause[0].Yomi, strings.Join(surfaces, " / "))
			fmt.Println(rosed.Edit(listing).Wrap(consoleOutputWidth).String())
		}
	}

	fmt.Println("Goodbye")
}
