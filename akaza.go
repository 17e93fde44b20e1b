// Package akaza contains a statistical kana-kanji conversion engine: romaji
// in, ranked clause candidates out, with a per-user language model that
// learns from confirmed conversions.
package akaza

import (
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/akaza-im/akaza/dict"
	"github.com/akaza-im/akaza/internal/config"
	"github.com/akaza-im/akaza/lattice"
	"github.com/akaza-im/akaza/lm"
	"github.com/akaza-im/akaza/romkan"
	"github.com/akaza-im/akaza/tinylisp"
)

// Node is one conversion candidate; a clause is the candidate list for one
// span of the reading, best first.
type Node = lattice.Node

// Span is a forced clause boundary, in code points of the reading.
type Span = lattice.Span

// Consonants that stay untyped at the end of a romaji burst. n is absent:
// nn is ん, so a trailing n run still transliterates.
var trailingConsonantPattern = regexp.MustCompile(`^(.*?)([qwrtypsdfghjklzxcvbm]+)$`)

// Engine ties the transliterator, the dictionaries, and the lattice search
// together behind the two calls a frontend needs: Convert and Commit.
// An Engine is safe for concurrent use; the user language model is the only
// mutable part and locks internally.
type Engine struct {
	resolver *lattice.Resolver
	romkan   *romkan.Converter
	userLM   *lm.UserLanguageModel
	lisp     *tinylisp.Evaluator

	stopSave chan struct{}
	saveDone chan struct{}
}

// NewEngine assembles an Engine from already-constructed components. The
// background save loop is not started; call StartAutoSave if wanted.
func NewEngine(resolver *lattice.Resolver, rk *romkan.Converter, userLM *lm.UserLanguageModel) *Engine {
	return &Engine{
		resolver: resolver,
		romkan:   rk,
		userLM:   userLM,
		lisp:     tinylisp.New(),
	}
}

// New builds a ready-to-convert Engine from the TOML configuration at
// configPath: system dictionary and language models, optional single-term
// and SKK user dictionaries, romaji table additions, and the user model
// directory. The periodic user-model save loop is started; call Close to
// stop it and flush.
func New(configPath string) (*Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	rk := romkan.NewConverter(cfg.Romaji)

	userLM, err := lm.NewUserLanguageModel(cfg.UserDir)
	if err != nil {
		return nil, fmt.Errorf("user language model: %w", err)
	}

	unigram, err := lm.LoadSystemUnigramLM(cfg.System.UnigramLM)
	if err != nil {
		return nil, err
	}
	bigram, err := lm.LoadSystemBigramLM(cfg.System.BigramLM)
	if err != nil {
		return nil, err
	}

	var normalDicts []*dict.BinaryDict
	if len(cfg.SKKDicts) > 0 {
		userDict, err := dict.LoadSKK(rk, cfg.SKKDicts...)
		if err != nil {
			return nil, err
		}
		// User entries first so their surfaces rank ahead in candidate
		// order.
		normalDicts = append(normalDicts, userDict)
	}
	systemDict, err := dict.Load(cfg.System.Dict)
	if err != nil {
		return nil, err
	}
	normalDicts = append(normalDicts, systemDict)

	var singleTermDicts []*dict.BinaryDict
	for _, path := range cfg.System.SingleTermDicts {
		d, err := dict.Load(path)
		if err != nil {
			return nil, err
		}
		singleTermDicts = append(singleTermDicts, d)
	}

	resolver := lattice.NewResolver(userLM, unigram, bigram, normalDicts, singleTermDicts)

	eng := NewEngine(resolver, rk, userLM)
	eng.StartAutoSave()
	return eng, nil
}

// StartAutoSave launches the background loop that persists the user model
// every save interval. Calling it twice is a no-op.
func (e *Engine) StartAutoSave() {
	if e.stopSave != nil {
		return
	}
	e.stopSave = make(chan struct{})
	e.saveDone = make(chan struct{})
	go func() {
		defer close(e.saveDone)
		e.userLM.SavePeriodically(e.stopSave)
	}()
}

// Close stops the auto-save loop, if running, and flushes the user model.
func (e *Engine) Close() error {
	if e.stopSave != nil {
		close(e.stopSave)
		<-e.saveDone
		e.stopSave = nil
		e.saveDone = nil
		return nil
	}
	return e.userLM.Save()
}

// Convert turns a romaji keystroke sequence into a clause list: one entry
// per clause, each holding the candidate nodes for that span, best first.
// forced, when non-empty, pins the clause boundaries, as the candidate
// window's shrink/grow keys do. Invalid input yields an empty list:
// conversion is not allowed to fail mid-keystroke.
func (e *Engine) Convert(src string, forced []Span) [][]*Node {
	if src == "" {
		return nil
	}

	if src[0] >= 'A' && src[0] <= 'Z' && len(forced) == 0 {
		// Leading uppercase means the user wants the alphabet verbatim.
		return [][]*Node{{lattice.NewNode(0, src, src)}}
	}

	hira := e.romkan.ToHiragana(src)

	consonant := ""
	if m := trailingConsonantPattern.FindStringSubmatch(hira); m != nil {
		hira = m[1]
		consonant = m[2]
	}

	log.Debug().Str("src", src).Str("hiragana", hira).Str("trailing", consonant).Msg("convert")

	ht := e.resolver.Lookup(hira)
	graph, err := e.resolver.GraphConstruct(hira, ht, forced)
	if err != nil {
		log.Error().Err(err).Str("src", src).Msg("cannot construct lattice")
		return nil
	}
	clauses, err := e.resolver.Viterbi(graph)
	if err != nil {
		log.Error().Err(err).Str("src", src).Str("graph", graph.DumpString()).Msg("conversion aborted")
		return nil
	}

	if consonant != "" {
		pos := graph.Size()
		clauses = append(clauses, []*Node{lattice.NewNode(pos, consonant, consonant)})
	}
	return clauses
}

// Commit records a confirmed clause list (the top pick of each clause) into
// the user language model so future conversions prefer it.
func (e *Engine) Commit(nodes []*Node) {
	entries := make([]lm.WordYomi, 0, len(nodes))
	for _, n := range nodes {
		entries = append(entries, n.Entry())
	}
	e.userLM.AddEntry(entries)
}

// Surface renders the display form of a candidate, evaluating expression
// surfaces against the engine's lisp environment.
func (e *Engine) Surface(n *Node) string {
	return n.Surface(e.lisp)
}
