/*
Akaza-dict compiles the text sources of the system dictionary and language
models into the binary images the engine loads. The engine reads each image
into memory whole; images are not memory-mapped.

Usage:

	akaza-dict --mode MODE [flags] --in FILE --out FILE

The flags are:

	-m, --mode MODE
		What to compile. One of:
		  dict     - "yomi surface1/surface2" lines into a dictionary image
		  skk      - an SKK-format dictionary into a dictionary image
		  unigram  - "word/yomi score" lines into the unigram model image
		  bigram   - "word1/yomi1<TAB>word2/yomi2 score" lines into the
		             bigram model image; requires --unigram-src

	-i, --in FILE
		The text source to compile.

	-o, --out FILE
		The image file to write.

	-u, --unigram-src FILE
		For mode bigram: the unigram text source whose key set defines the
		word ids.

	-v, --version
		Give the current version of Akaza and then exit.
*/
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/akaza-im/akaza/dict"
	"github.com/akaza-im/akaza/internal/version"
	"github.com/akaza-im/akaza/lm"
	"github.com/akaza-im/akaza/romkan"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCompileError indicates an unsuccessful program execution due to a
	// problem reading a source or writing an image.
	ExitCompileError

	// ExitUsageError indicates invalid flags.
	ExitUsageError
)

var (
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	mode        *string = pflag.StringP("mode", "m", "", "What to compile: dict, skk, unigram, or bigram")
	inFile      *string = pflag.StringP("in", "i", "", "The text source to compile")
	outFile     *string = pflag.StringP("out", "o", "", "The image file to write")
	unigramSrc  *string = pflag.StringP("unigram-src", "u", "", "Unigram text source defining word ids (mode bigram)")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Println("akaza-dict " + version.Current)
		os.Exit(ExitSuccess)
	}
	if *mode == "" || *inFile == "" || *outFile == "" {
		fmt.Fprintln(os.Stderr, "--mode, --in, and --out are required")
		os.Exit(ExitUsageError)
	}

	var err error
	switch *mode {
	case "dict":
		err = compileDict(*inFile, *outFile)
	case "skk":
		err = compileSKK(*inFile, *outFile)
	case "unigram":
		err = compileUnigram(*inFile, *outFile)
	case "bigram":
		if *unigramSrc == "" {
			fmt.Fprintln(os.Stderr, "--unigram-src is required for mode bigram")
			os.Exit(ExitUsageError)
		}
		err = compileBigram(*inFile, *unigramSrc, *outFile)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(ExitUsageError)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCompileError)
	}
}

// eachLine calls fn for every non-empty, non-comment line of path.
func eachLine(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

func compileDict(in, out string) error {
	b := dict.NewBuilder()
	err := eachLine(in, func(line string) error {
		yomi, surfaces, ok := strings.Cut(line, " ")
		if !ok {
			return fmt.Errorf("malformed dictionary line: %q", line)
		}
		b.Add(yomi, strings.Split(surfaces, "/"))
		return nil
	})
	if err != nil {
		return err
	}
	return b.Save(out)
}

func compileSKK(in, out string) error {
	rk := romkan.Default()
	d, err := dict.ParseSKKDict(in)
	if err != nil {
		return err
	}
	b := dict.NewBuilder()
	for yomi, words := range d.Nasi {
		b.Add(yomi, words)
	}
	for yomi, words := range d.Ari {
		for k, v := range dict.ExpandOkuri(rk, yomi, words) {
			b.Add(k, v)
		}
	}
	return b.Save(out)
}

// parseScored splits "key score" on the last space.
func parseScored(line string) (key string, score float64, err error) {
	i := strings.LastIndexByte(line, ' ')
	if i < 0 {
		return "", 0, fmt.Errorf("malformed model line: %q", line)
	}
	score, err = strconv.ParseFloat(line[i+1:], 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed score in %q: %w", line, err)
	}
	return line[:i], score, nil
}

func readUnigramSource(path string) (*lm.UnigramBuilder, error) {
	b := lm.NewUnigramBuilder()
	err := eachLine(path, func(line string) error {
		key, score, err := parseScored(line)
		if err != nil {
			return err
		}
		b.Add(key, score)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func compileUnigram(in, out string) error {
	b, err := readUnigramSource(in)
	if err != nil {
		return err
	}
	return b.Save(out)
}

func compileBigram(in, unigramIn, out string) error {
	uni, err := readUnigramSource(unigramIn)
	if err != nil {
		return err
	}
	ids := uni.WordIDs()

	b := lm.NewBigramBuilder()
	err = eachLine(in, func(line string) error {
		pair, score, err := parseScored(line)
		if err != nil {
			return err
		}
		k1, k2, ok := strings.Cut(pair, "\t")
		if !ok {
			return fmt.Errorf("malformed bigram line: %q", line)
		}
		id1, ok1 := ids[k1]
		id2, ok2 := ids[k2]
		if !ok1 || !ok2 {
			return fmt.Errorf("bigram references unknown unigram key: %q", line)
		}
		b.Add(id1, id2, score)
		return nil
	})
	if err != nil {
		return err
	}
	return b.Save(out)
}
