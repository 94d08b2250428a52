package wordlist

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// wordSet is a concurrency safe set of words.
type wordSet struct {
	mu    sync.RWMutex
	words map[string]struct{}
}

func newWordSet(words []string) *wordSet {
	s := &wordSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.words[w] = struct{}{}
	}
	return s
}

func (s *wordSet) has(word string) bool {
	s.mu.RLock()
	_, ok := s.words[word]
	s.mu.RUnlock()
	return ok
}

// add inserts word and reports whether it was new.
func (s *wordSet) add(word string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.words[word]; ok {
		return false
	}
	s.words[word] = struct{}{}
	return true
}

func (s *wordSet) replace(words []string) {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	s.mu.Lock()
	s.words = m
	s.mu.Unlock()
}

func (s *wordSet) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// each calls fn for every word until fn returns false.
func (s *wordSet) each(fn func(string) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for w := range s.words {
		if !fn(w) {
			return
		}
	}
}

// readWordList loads the words of a plain or Hunspell word list. A missing
// file yields an empty list.
func readWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if enc := affixEncoding(path); enc != nil {
		r = transform.NewReader(f, enc.NewDecoder())
	}
	return parseWordList(r)
}

func parseWordList(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if first {
			first = false
			if isCount(line) {
				continue
			}
		}
		if w := entryWord(line); w != "" {
			words = append(words, w)
		}
	}
	return words, sc.Err()
}

// readPersonalList loads a personal word list. Each line holds one word
// taken literally, without the count line, flags or comments of a
// dictionary file, so it reads back whatever appendWord wrote. A missing
// file yields an empty list.
func readPersonalList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return parsePersonalList(f)
}

func parsePersonalList(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if w := strings.TrimSpace(line); w != "" {
			words = append(words, w)
		}
	}
	return words, sc.Err()
}

// entryWord strips Hunspell flags and morphological fields from a line.
func entryWord(line string) string {
	if i := strings.IndexByte(line, '\t'); i >= 0 {
		line = line[:i]
	}
	for i := 0; i < len(line); i++ {
		if line[i] == '/' && (i == 0 || line[i-1] != '\\') {
			line = line[:i]
			break
		}
	}
	line = strings.ReplaceAll(line, `\/`, "/")
	return strings.TrimSpace(line)
}

func isCount(line string) bool {
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// affixEncoding returns the decoder named by the SET line of the .aff file
// next to a .dic file, or nil for UTF-8 and plain lists.
func affixEncoding(path string) encoding.Encoding {
	if filepath.Ext(path) != ".dic" {
		return nil
	}
	f, err := os.Open(strings.TrimSuffix(path, ".dic") + ".aff")
	if err != nil {
		return nil
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || fields[0] != "SET" {
			continue
		}
		return lookupEncoding(fields[1])
	}
	return nil
}

func lookupEncoding(name string) encoding.Encoding {
	name = strings.ToLower(name)
	if name == "utf-8" || name == "utf8" {
		return nil
	}
	if rest, ok := strings.CutPrefix(name, "iso8859-"); ok {
		name = "iso-8859-" + rest
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil
	}
	return enc
}

// appendWord adds word as a new line at the end of path, creating the file
// and its directory when needed.
func appendWord(path, word string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(word + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
