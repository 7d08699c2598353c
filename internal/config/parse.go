package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type section int

const (
	sectionNone section = iota
	sectionUser
	sectionCompiler
	sectionPackage
	sectionTarget
	sectionUnknown
)

var sectionNames = map[string]section{
	"user":     sectionUser,
	"compiler": sectionCompiler,
	"package":  sectionPackage,
	"target":   sectionTarget,
}

// parser applies one config file to a model. It is a two-state machine:
// target == nil means no target is being accumulated; otherwise the
// partial target is flushed into the model at the next section header or
// at end of input.
type parser struct {
	model *Model
	file  string
	line  int

	section     section
	sectionName string
	target      *Target
}

func parse(r io.Reader, file string, m *Model) error {
	p := &parser{model: m, file: file}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", file, err)
	}

	p.flush()
	return nil
}

func (p *parser) parseLine(raw string) error {
	line := strings.TrimSpace(raw)
	if p.line == 1 {
		line = strings.TrimPrefix(line, "\ufeff")
	}
	if line == "" || line[0] == '#' || line[0] == ';' {
		return nil
	}

	if line[0] == '[' {
		end := strings.IndexByte(line, ']')
		if end < 0 {
			return p.errorf(ErrSyntax, "", line)
		}
		if rest := strings.TrimSpace(line[end+1:]); rest != "" && rest[0] != '#' && rest[0] != ';' {
			return p.errorf(ErrSyntax, "", line)
		}
		p.startSection(strings.TrimSpace(line[1:end]))
		return nil
	}

	key, value, err := p.splitPair(line)
	if err != nil {
		return err
	}
	return p.apply(key, value)
}

// startSection flushes any accumulating target and enters the named section.
func (p *parser) startSection(name string) {
	p.flush()

	p.sectionName = name
	s, ok := sectionNames[strings.ToLower(name)]
	if !ok {
		s = sectionUnknown
	}
	p.section = s

	if s == sectionTarget {
		p.target = &Target{}
	}
}

// flush commits the accumulating target, if any. Unnamed targets are dropped.
func (p *parser) flush() {
	if p.target == nil {
		return
	}
	p.model.Targets.merge(*p.target)
	p.target = nil
}

func (p *parser) splitPair(line string) (string, string, error) {
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return "", "", p.errorf(ErrSyntax, "", line)
	}

	key := strings.ToLower(strings.TrimSpace(line[:eq]))
	if key == "" {
		return "", "", p.errorf(ErrSyntax, "", line)
	}

	value, err := unquote(strings.TrimSpace(line[eq+1:]))
	if err != nil {
		return "", "", &Error{File: p.file, Line: p.line, Section: p.sectionName, Key: key, Value: line, Err: ErrSyntax}
	}
	return key, value, nil
}

func (p *parser) apply(key, value string) error {
	m := p.model

	switch p.section {
	case sectionNone, sectionUnknown:
		return nil

	case sectionUser:
		switch key {
		case "name":
			m.User.Name = value
		case "email":
			m.User.Email = value
		case "install":
			m.User.InstallDir = value
		default:
			return p.errorf(ErrUnknownKey, key, value)
		}

	case sectionCompiler:
		switch key {
		case "binary":
			m.Compiler.Binary = value
		case "flags":
			m.Compiler.Flags = append(m.Compiler.Flags, value)
		default:
			return p.errorf(ErrUnknownKey, key, value)
		}

	case sectionPackage:
		switch key {
		case "name":
			m.Package.Name = value
		case "description":
			m.Package.Description = value
		case "version":
			m.Package.Version = value
		case "url":
			m.Package.URL = value
		case "author":
			m.Package.Authors = append(m.Package.Authors, value)
		default:
			return p.errorf(ErrUnknownKey, key, value)
		}

	case sectionTarget:
		t := p.target
		switch key {
		case "name":
			t.Name = NormalizeName(value)
		case "description":
			t.Description = value
		case "file":
			t.File = value
		case "source":
			t.Sources = append(t.Sources, value)
		default:
			return p.errorf(ErrUnknownKey, key, value)
		}
	}
	return nil
}

func (p *parser) errorf(err error, key, value string) error {
	return &Error{
		File:    p.file,
		Line:    p.line,
		Section: p.sectionName,
		Key:     key,
		Value:   value,
		Err:     err,
	}
}

// unquote decodes a value. Double-quoted values may contain \" \\ \n and
// \t escapes. Either form may be followed by a comment; in a bare value the
// comment marker must follow whitespace, so "http://host/#top" stays whole.
func unquote(s string) (string, error) {
	if s == "" || s[0] != '"' {
		return stripComment(s), nil
	}

	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			if i+1 >= len(s) {
				return "", ErrSyntax
			}
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
		case '"':
			rest := strings.TrimSpace(s[i+1:])
			if rest != "" && rest[0] != '#' && rest[0] != ';' {
				return "", ErrSyntax
			}
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
	return "", ErrSyntax
}

// stripComment cuts a bare value at the first # or ; preceded by whitespace.
func stripComment(s string) string {
	for i := 1; i < len(s); i++ {
		if (s[i] == '#' || s[i] == ';') && (s[i-1] == ' ' || s[i-1] == '\t') {
			return strings.TrimSpace(s[:i])
		}
	}
	return s
}

// quote encodes a value for writing.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
