package schema

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
)

// Document is the raw content of one Go file and the source it was read
// from. Name is the path recorded in positions; output files are named
// after its base name.
type Document struct {
	source Source
	name   string
	raw    []byte
}

// NewDocument validates the inputs and copies raw.
func NewDocument(src Source, name string, raw []byte) (Document, error) {
	switch {
	case src == nil:
		return Document{}, errors.New("schema: source is required")
	case name == "":
		return Document{}, errors.New("schema: document name is required")
	case len(bytes.TrimSpace(raw)) == 0:
		return Document{}, errors.New("schema: document is empty")
	}
	return Document{source: src, name: name, raw: bytes.Clone(raw)}, nil
}

// MustNewDocument is NewDocument for fixtures; it panics on error.
func MustNewDocument(src Source, name string, raw []byte) Document {
	doc, err := NewDocument(src, name, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }
func (d Document) Name() string   { return d.name }

// Raw returns a copy of the file content.
func (d Document) Raw() []byte {
	return bytes.Clone(d.raw)
}

// Generated reports whether the file carries the standard
// "// Code generated ... DO NOT EDIT." line ahead of its package clause.
func (d Document) Generated() bool {
	scanner := bufio.NewScanner(bytes.NewReader(d.raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "package ") {
			return false
		}
		if strings.HasPrefix(line, "// Code generated ") && strings.HasSuffix(line, " DO NOT EDIT.") {
			return true
		}
	}
	return false
}
