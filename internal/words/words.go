// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package words loads level word pools and picks unposted words from them.
package words

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/post-engine/pkg/types"
)

// levelFiles maps a difficulty level to its word-list file name inside the
// configured word-list directory, one word per line. The unhyphenated names
// are accepted as aliases.
var levelFiles = map[string]string{
	"CET-4": "CET4.txt",
	"CET-6": "CET6.txt",
	"考研":    "考研.txt",
	"CET4":  "CET4.txt",
	"CET6":  "CET6.txt",
}

// LevelError reports a level with no configured word list. A configuration
// problem: fail fast, never retried.
type LevelError struct {
	Level string
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("unsupported level (no word list configured): %s, available: %v", e.Level, Levels())
}

// AllWordsUsedError reports that every word in a level's pool has already
// been posted under the current prompt version. A distinct condition, not a
// generic failure: the caller can decide to wait or to extend the list.
type AllWordsUsedError struct {
	Level string
}

func (e *AllWordsUsedError) Error() string {
	return fmt.Sprintf("all words for level %s already posted (word + level + prompt version recorded)", e.Level)
}

// Levels returns the configured level names, sorted, one per word list
// (aliases collapse into the canonical name).
func Levels() []string {
	names := make([]string, 0, len(levelFiles))
	for name := range levelFiles {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		file := levelFiles[name]
		if seen[file] {
			continue
		}
		seen[file] = true
		out = append(out, name)
	}
	return out
}

// Pool reads the word list for a level from dir. Lines are trimmed and
// blanks dropped; order follows the file. Returns *LevelError for an
// unconfigured level and a wrapped os error when the backing file is absent.
func Pool(dir, level string) ([]string, error) {
	file, ok := levelFiles[level]
	if !ok {
		return nil, &LevelError{Level: level}
	}

	path := filepath.Join(dir, file)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word list %s: %w", path, err)
	}
	defer f.Close()

	var pool []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if word := strings.TrimSpace(scanner.Text()); word != "" {
			pool = append(pool, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word list %s: %w", path, err)
	}
	return pool, nil
}

// HasPostedFunc reports whether a (word, level, promptVersion) triple is
// already recorded. Supplied by the store.
type HasPostedFunc func(word, level, promptVersion string) bool

// randIntn picks a pool index. Package-level var so tests can pin the choice.
var randIntn = rand.Intn

// PickUnusedWord picks one word from the level's pool that has not been
// posted under promptVersion, uniformly at random among the survivors.
// Fails with *AllWordsUsedError when the predicate eliminates every
// candidate.
func PickUnusedWord(cfg types.GeneratorConfig, level, promptVersion string, hasPosted HasPostedFunc) (string, error) {
	pool, err := Pool(cfg.WordListDir, level)
	if err != nil {
		return "", err
	}

	var unused []string
	for _, word := range pool {
		if hasPosted == nil || !hasPosted(word, level, promptVersion) {
			unused = append(unused, word)
		}
	}
	if len(unused) == 0 {
		return "", &AllWordsUsedError{Level: level}
	}
	return unused[randIntn(len(unused))], nil
}
