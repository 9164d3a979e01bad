// Package ruledict parses the fixed on-disk dictionary formats this system
// treats as an external contract (spec.md §6): gramtab.tab (grammar codes)
// and morphs.mrd (flex models / accent+session sections skipped / prefix
// models / lemmas). Grounded on
// _examples/original_source/C/libs/src/morphology/wordforms.c
// (load_grammars, load_flex_models, load_prefix_models, load_lemmas).
package ruledict

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/morphgo/morphgo/internal/text"
)

// Grammar is a (ancode, part_of_speech, grammems) record keyed by ancode
// (spec.md §3 "Grammar").
type Grammar struct {
	Ancode       string
	PartOfSpeech string
	Grammems     string
}

// LoadGrammars parses a gramtab.tab stream: line-oriented UTF-8, "//"-prefixed
// lines are comments, other lines are "ancode xcode part_of_speech grammems".
func LoadGrammars(r io.Reader) (map[string]Grammar, error) {
	grammars := make(map[string]Grammar)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		ancode := fields[0]
		pos := fields[2]
		grammems := ""
		if len(fields) > 3 {
			grammems = strings.Join(fields[3:], " ")
		}
		if _, exists := grammars[ancode]; !exists {
			grammars[ancode] = Grammar{Ancode: ancode, PartOfSpeech: text.Lower(pos), Grammems: text.Lower(grammems)}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ruledict: reading gramtab: %w", err)
	}
	return grammars, nil
}
