package view

import "strings"

// Field is a free-text value that may be missing.
type Field struct {
	Text        string
	Placeholder bool
}

// Placeholder returns text, or prompt marked as a placeholder when text is blank.
func Placeholder(text, prompt string) Field {
	if strings.TrimSpace(text) == "" {
		return Field{Text: prompt, Placeholder: true}
	}
	return Field{Text: text}
}
