package parser

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	wordPrefix       = "W:"
	definitionPrefix = "D:"
	separator        = "---"
)

// Entry is one word and its definition read from a word list.
type Entry struct {
	Word       string
	Definition string
}

type state int

const (
	seeking state = iota
	readingWord
	readingDefinition
)

// Supported reports whether path has an extension ParseFile understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt", ".xlsx":
		return true
	}
	return false
}

// ParseFile reads a word list from path. Spreadsheets go through ParseXLSX,
// everything else through Parse.
func ParseFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ParseXLSX(file)
	}
	return Parse(file)
}

// Parse reads W:/D: blocks from r. A definition may span several lines and
// runs until the next W:, a --- line or the end of input. Entries without a
// definition are dropped.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	var current Entry
	var block []string
	currentState := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimRight(strings.Join(block, "\n"), "\n ")
		switch currentState {
		case readingWord:
			current.Word = strings.TrimSpace(content)
		case readingDefinition:
			current.Definition = content
		}
		block = nil
	}

	finishEntry := func() {
		flushBlock()
		if current.Word != "" && current.Definition != "" {
			entries = append(entries, current)
		}
		current = Entry{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.TrimSpace(line) == separator:
			finishEntry()
		case strings.HasPrefix(line, wordPrefix):
			if currentState != seeking {
				finishEntry()
			}
			currentState = readingWord
			block = append(block, trimPrefix(line, wordPrefix))
		case strings.HasPrefix(line, definitionPrefix):
			flushBlock()
			currentState = readingDefinition
			block = append(block, trimPrefix(line, definitionPrefix))
		case currentState == readingDefinition:
			block = append(block, line)
		}
	}

	finishEntry()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func trimPrefix(line, prefix string) string {
	return strings.TrimPrefix(line[len(prefix):], " ")
}
