package lm

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// SaveInterval is how often the periodic save loop flushes a dirty user
// model to disk.
const SaveInterval = 60 * time.Second

// WordYomi is one committed word: the surface form the user confirmed and
// the reading it was typed as.
type WordYomi struct {
	Word string
	Yomi string
}

// Key returns the model key for the entry, "word/yomi".
func (e WordYomi) Key() string {
	return e.Word + "/" + e.Yomi
}

// UserLanguageModel tracks unigram and bigram counts over the user's
// confirmed conversions and scores candidates from them. It is the only
// mutable component of the engine; one mutex guards all of its maps and the
// dirty flag, so it is safe to share between the conversion path and the
// background save loop.
type UserLanguageModel struct {
	unigramPath string
	bigramPath  string

	mu                sync.Mutex
	unigram           map[string]int
	unigramTotal      int
	unigramYomi       map[string]struct{}
	bigram            map[string]int
	bigramPrefixTotal map[string]int
	dirty             bool
}

// NewUserLanguageModel loads the user model stored in dir (unigram.txt and
// bigram.txt). Missing files mean an empty model; unreadable or malformed
// lines are skipped. The directory is created if needed so that the first
// save succeeds.
func NewUserLanguageModel(dir string) (*UserLanguageModel, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create user model dir: %w", err)
	}
	m := &UserLanguageModel{
		unigramPath:       filepath.Join(dir, "unigram.txt"),
		bigramPath:        filepath.Join(dir, "bigram.txt"),
		unigram:           map[string]int{},
		unigramYomi:       map[string]struct{}{},
		bigram:            map[string]int{},
		bigramPrefixTotal: map[string]int{},
	}
	m.readUnigram()
	m.readBigram()
	return m, nil
}

// splitCount separates a model line into its key part and trailing count.
// The count is everything after the last space, so keys containing spaces
// (lisp expression surfaces) survive.
func splitCount(line string) (key string, count int, ok bool) {
	i := strings.LastIndexByte(line, ' ')
	if i < 0 {
		// Migration path: the oldest files were fully tab-separated.
		i = strings.LastIndexByte(line, '\t')
		if i < 0 {
			return "", 0, false
		}
	}
	n, err := strconv.Atoi(line[i+1:])
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return line[:i], n, true
}

// yomiOfKey extracts the reading from a "word/yomi" key. The separator is
// the last slash; readings never contain one.
func yomiOfKey(key string) (string, bool) {
	i := strings.LastIndexByte(key, '/')
	if i < 0 {
		return "", false
	}
	return key[i+1:], true
}

func (m *UserLanguageModel) readUnigram() {
	f, err := os.Open(m.unigramPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", m.unigramPath).Msg("cannot read user unigram file, starting empty")
		}
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, count, ok := splitCount(strings.TrimRight(sc.Text(), "\n"))
		if !ok {
			continue
		}
		yomi, ok := yomiOfKey(key)
		if !ok {
			continue
		}
		m.unigram[key] = count
		m.unigramTotal += count
		m.unigramYomi[yomi] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		log.Warn().Err(err).Str("path", m.unigramPath).Msg("error while reading user unigram file")
	}
}

func (m *UserLanguageModel) readBigram() {
	f, err := os.Open(m.bigramPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", m.bigramPath).Msg("cannot read user bigram file, starting empty")
		}
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\n")

		var key string
		var count int
		parts := strings.Split(line, "\t")
		switch len(parts) {
		case 2:
			// Current layout: "k1\tk2 count".
			k2, n, ok := splitCount(parts[1])
			if !ok {
				continue
			}
			key = parts[0] + "\t" + k2
			count = n
		case 3:
			// Migration path: "k1\tk2\tcount".
			n, err := strconv.Atoi(parts[2])
			if err != nil || n <= 0 {
				continue
			}
			key = parts[0] + "\t" + parts[1]
			count = n
		default:
			continue
		}

		k1, _, ok := strings.Cut(key, "\t")
		if !ok {
			continue
		}
		m.bigram[key] = count
		m.bigramPrefixTotal[k1] += count
	}
	if err := sc.Err(); err != nil {
		log.Warn().Err(err).Str("path", m.bigramPath).Msg("error while reading user bigram file")
	}
}

// AddEntry records one committed clause list: a unigram count per word and a
// bigram count per adjacent pair. It marks the model dirty.
func (m *UserLanguageModel) AddEntry(entries []WordYomi) {
	if len(entries) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		key := e.Key()
		log.Debug().Str("key", key).Msg("add user language model entry")
		m.unigram[key]++
		m.unigramTotal++
		m.unigramYomi[e.Yomi] = struct{}{}
	}
	for i := 1; i < len(entries); i++ {
		k1 := entries[i-1].Key()
		k2 := entries[i].Key()
		m.bigram[k1+"\t"+k2]++
		m.bigramPrefixTotal[k1]++
	}
	m.dirty = true
}

// GetUnigramCost returns the user's log10 probability for key, or false if
// the user has never committed it.
func (m *UserLanguageModel) GetUnigramCost(key string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count, ok := m.unigram[key]
	if !ok {
		return 0, false
	}
	return math.Log10(float64(count) / float64(m.unigramTotal)), true
}

// HasUnigramCostByYomi reports whether the user has ever committed any word
// with the given reading.
func (m *UserLanguageModel) HasUnigramCostByYomi(yomi string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.unigramYomi[yomi]
	return ok
}

// GetBigramCost returns the user's log10 conditional probability for the
// pair (key1 → key2), or false if the pair was never committed.
func (m *UserLanguageModel) GetBigramCost(key1, key2 string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count, ok := m.bigram[key1+"\t"+key2]
	if !ok {
		return 0, false
	}
	return math.Log10(float64(count) / float64(m.bigramPrefixTotal[key1])), true
}

// Save writes both model files if the model is dirty. The snapshot is taken
// under the lock; file writing and the rename happen outside it. On failure
// the model stays dirty so the next periodic tick retries.
func (m *UserLanguageModel) Save() error {
	m.mu.Lock()
	if !m.dirty {
		m.mu.Unlock()
		return nil
	}
	uniLines := make([]string, 0, len(m.unigram))
	for key, count := range m.unigram {
		uniLines = append(uniLines, key+" "+strconv.Itoa(count))
	}
	biLines := make([]string, 0, len(m.bigram))
	for key, count := range m.bigram {
		biLines = append(biLines, key+" "+strconv.Itoa(count))
	}
	m.dirty = false
	m.mu.Unlock()

	sort.Strings(uniLines)
	sort.Strings(biLines)

	if err := writeLines(m.unigramPath, uniLines); err != nil {
		m.markDirty()
		return fmt.Errorf("save user unigram file: %w", err)
	}
	if err := writeLines(m.bigramPath, biLines); err != nil {
		m.markDirty()
		return fmt.Errorf("save user bigram file: %w", err)
	}
	log.Info().Int("unigrams", len(uniLines)).Int("bigrams", len(biLines)).Msg("saved user language model")
	return nil
}

func (m *UserLanguageModel) markDirty() {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
}

// writeLines writes lines to path through a temporary file and rename, so a
// reader never observes a torn file.
func writeLines(path string, lines []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// SavePeriodically flushes the model on SaveInterval ticks until stop is
// closed, then does one final save. Failures are logged and retried on the
// next tick; they never stop the loop.
func (m *UserLanguageModel) SavePeriodically(stop <-chan struct{}) {
	ticker := time.NewTicker(SaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := m.Save(); err != nil {
				log.Error().Err(err).Msg("periodic user language model save failed")
			}
		case <-stop:
			if err := m.Save(); err != nil {
				log.Error().Err(err).Msg("final user language model save failed")
			}
			return
		}
	}
}
