package model

import "strings"

// Section is a titled, ordered chunk of the source document. Sections are
// immutable once parsed; Order is the total ordering the scheduler preserves
// in the final output regardless of completion order.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Level int    `json:"level"`
	Order int    `json:"order"`
}

// WordCount returns the number of whitespace-separated words in the body.
func (s Section) WordCount() int {
	return len(strings.Fields(s.Body))
}

// Document is the parsed form of one input file.
type Document struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
	Chars    int       `json:"chars"`
	Words    int       `json:"words"`
}
