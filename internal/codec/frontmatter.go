package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phrazzld/repeat/internal/domain"
)

// ErrInvalidFrontmatter indicates the frontmatter is not a YAML mapping.
var ErrInvalidFrontmatter = errors.New("frontmatter is not a YAML mapping")

const fence = "---"

// splitFrontmatter returns the YAML between the opening and closing fences
// and the text following the closing fence. ok is false when the markdown
// does not start with a fence or the fence is never closed.
func splitFrontmatter(markdown string) (frontmatter, body string, ok bool) {
	if !strings.HasPrefix(markdown, fence+"\n") {
		return "", markdown, false
	}
	rest := markdown[len(fence)+1:]

	offset := 0
	for {
		line, tail, more := strings.Cut(rest[offset:], "\n")
		if strings.TrimRight(line, " \t\r") == fence {
			return rest[:offset], tail, true
		}
		if !more {
			return "", markdown, false
		}
		offset += len(line) + 1
	}
}

// ReadFrontmatter extracts the repetition fields from a note's frontmatter.
// Unrelated keys are ignored. found is false when there is no frontmatter.
func ReadFrontmatter(markdown string) (fields Fields, found bool, err error) {
	frontmatter, _, ok := splitFrontmatter(markdown)
	if !ok {
		return Fields{}, false, nil
	}
	if err := yaml.Unmarshal([]byte(frontmatter), &fields); err != nil {
		return Fields{}, true, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	return fields, true, nil
}

// DecodeMarkdown reads the repetition record from a note's frontmatter.
// A note without frontmatter reports ErrNoRepeat.
func DecodeMarkdown(markdown string, reference time.Time) (domain.Repetition, error) {
	fields, found, err := ReadFrontmatter(markdown)
	if err != nil {
		return domain.Repetition{}, err
	}
	if !found {
		return domain.Repetition{}, ErrNoRepeat
	}
	return Decode(fields, reference)
}

// UpdateMarkdown writes the non-empty fields into the note's frontmatter,
// creating the frontmatter when absent. Other keys, and their order, are
// preserved; empty fields leave existing values untouched.
func UpdateMarkdown(markdown string, fields Fields) (string, error) {
	frontmatter, body, ok := splitFrontmatter(markdown)
	if !ok {
		body = markdown
	}

	var doc yaml.Node
	if strings.TrimSpace(frontmatter) != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &doc); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}
	if len(doc.Content) == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return "", ErrInvalidFrontmatter
	}

	for _, pair := range fields.pairs() {
		if pair[1] == "" {
			continue
		}
		setKey(root, pair[0], pair[1])
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	return fence + "\n" + buf.String() + fence + "\n" + body, nil
}

// setKey replaces the value of key in a mapping node, appending the key when
// missing.
func setKey(mapping *yaml.Node, key, value string) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = &yaml.Node{Kind: yaml.ScalarNode, Value: value}
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value},
	)
}
