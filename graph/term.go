package graph

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Term is a single RDF term in its N-Triples serialization,
// e.g. `<http://example.org/a>`, `"chat"@en`, `"5"^^<http://www.w3.org/2001/XMLSchema#integer>` or `_:b0`.
// The empty term is used as a wildcard in patterns.
type Term string

const xsd = "http://www.w3.org/2001/XMLSchema#"

// IRI returns the term for the given IRI.
func IRI(iri string) Term {
	return Term("<" + iri + ">")
}

// Literal returns a literal term. An empty datatype means a plain string literal.
func Literal(lexical, datatype string) Term {
	t := `"` + escape(lexical) + `"`
	if datatype != "" && datatype != xsd+"string" {
		t += "^^<" + datatype + ">"
	}
	return Term(t)
}

// LangString returns a language-tagged string literal.
func LangString(s, lang string) Term {
	return Term(`"` + escape(s) + `"@` + lang)
}

// Blank returns the blank node with the given label.
func Blank(label string) Term {
	return Term("_:" + strings.TrimPrefix(label, "_:"))
}

// String returns a plain string literal.
func String(s string) Term {
	return Literal(s, "")
}

// Integer returns an xsd:integer literal.
func Integer(i int64) Term {
	return Literal(strconv.FormatInt(i, 10), xsd+"integer")
}

// Boolean returns an xsd:boolean literal.
func Boolean(b bool) Term {
	return Literal(strconv.FormatBool(b), xsd+"boolean")
}

// DateTime returns an xsd:dateTime literal in UTC.
func DateTime(t time.Time) Term {
	return Literal(t.UTC().Format(time.RFC3339), xsd+"dateTime")
}

func (t Term) IsIRI() bool {
	return strings.HasPrefix(string(t), "<") && strings.HasSuffix(string(t), ">")
}

func (t Term) IsLiteral() bool {
	return strings.HasPrefix(string(t), `"`)
}

func (t Term) IsBlank() bool {
	return strings.HasPrefix(string(t), "_:")
}

// IRI returns the IRI of an IRI term, or false for other kinds of terms.
func (t Term) IRI() (string, bool) {
	if !t.IsIRI() {
		return "", false
	}
	return string(t[1 : len(t)-1]), true
}

// Literal splits a literal term into its lexical form, datatype IRI and language tag.
func (t Term) Literal() (lexical, datatype, lang string, ok bool) {
	if !t.IsLiteral() {
		return "", "", "", false
	}
	s := string(t)
	end := strings.LastIndex(s, `"`)
	if end <= 0 {
		return "", "", "", false
	}
	lexical, err := unescape(s[1:end])
	if err != nil {
		return "", "", "", false
	}
	rest := s[end+1:]
	switch {
	case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
		datatype = rest[3 : len(rest)-1]
	case strings.HasPrefix(rest, "@"):
		lang = rest[1:]
	case rest == "":
	default:
		return "", "", "", false
	}
	return lexical, datatype, lang, true
}

// Value returns the IRI or lexical form of the term, whichever applies.
func (t Term) Value() string {
	if iri, ok := t.IRI(); ok {
		return iri
	}
	if lexical, _, _, ok := t.Literal(); ok {
		return lexical
	}
	return string(t)
}

// Time parses an xsd:dateTime (or plain) literal.
func (t Term) Time() (time.Time, error) {
	lexical, _, _, ok := t.Literal()
	if !ok {
		return time.Time{}, fmt.Errorf("term %s is not a literal", t)
	}
	return time.Parse(time.RFC3339, lexical)
}

// Int parses an integer literal.
func (t Term) Int() (int64, error) {
	lexical, _, _, ok := t.Literal()
	if !ok {
		return 0, fmt.Errorf("term %s is not a literal", t)
	}
	return strconv.ParseInt(lexical, 10, 64)
}

// Bool parses a boolean literal.
func (t Term) Bool() (bool, error) {
	lexical, _, _, ok := t.Literal()
	if !ok {
		return false, fmt.Errorf("term %s is not a literal", t)
	}
	return strconv.ParseBool(lexical)
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escape(s string) string {
	return escaper.Replace(s)
}

// unescape reverses the N-Triples ECHAR and UCHAR escapes.
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("dangling escape in %q", s)
		}
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case '"', '\'', '\\':
			b.WriteByte(s[i])
		case 'u', 'U':
			size := 4
			if s[i] == 'U' {
				size = 8
			}
			if i+1+size > len(s) {
				return "", fmt.Errorf("short unicode escape in %q", s)
			}
			r, err := strconv.ParseUint(s[i+1:i+1+size], 16, 32)
			if err != nil {
				return "", err
			}
			b.WriteRune(rune(r))
			i += size
		default:
			return "", fmt.Errorf("unknown escape \\%c in %q", s[i], s)
		}
	}
	return b.String(), nil
}
