package parse

import (
	"errors"
	"fmt"
	"io"

	"github.com/knakk/rdf"
	"github.com/rs/zerolog/log"

	"github.com/always-cache/graphcache/graph"
)

// ParseError is returned for malformed documents.
type ParseError struct {
	URI    string
	Format string
	// Statement is the number of statements read before the error.
	Statement int
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s as %s (after %d statements): %v", e.URI, e.Format, e.Statement, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decoder reads statements from a document one at a time.
type Decoder struct {
	dec    rdf.TripleDecoder
	uri    string
	format Format
	read   int
}

// NewDecoder returns a decoder for r. Relative IRIs are resolved against baseURI.
func NewDecoder(r io.Reader, format Format, baseURI string) *Decoder {
	dec := rdf.NewTripleDecoder(r, format.rdf)
	if baseURI != "" {
		base, err := rdf.NewIRI(baseURI)
		if err == nil {
			err = dec.SetOption(rdf.Base, base)
		}
		if err != nil {
			// relative IRIs stay unresolved, formats without them are unaffected
			log.Trace().Err(err).Str("base", baseURI).Str("format", format.Name).Msg("Decoding without base IRI")
		}
	}
	return &Decoder{dec: dec, uri: baseURI, format: format}
}

// Decode returns the next statement, without context, or io.EOF at the end of the document.
func (d *Decoder) Decode() (graph.Statement, error) {
	triple, err := d.dec.Decode()
	if errors.Is(err, io.EOF) {
		return graph.Statement{}, io.EOF
	}
	if err != nil {
		return graph.Statement{}, d.parseError(err)
	}
	s := graph.Statement{
		Subject:   term(triple.Subj),
		Predicate: term(triple.Pred),
		Object:    term(triple.Obj),
	}
	d.read++
	return s, nil
}

func (d *Decoder) parseError(err error) error {
	return &ParseError{URI: d.uri, Format: d.format.Name, Statement: d.read, Err: err}
}

// ReadAll decodes the whole document, tagging every statement with context.
// Nothing is returned unless the document parses completely.
func ReadAll(r io.Reader, format Format, baseURI, context string) ([]graph.Statement, error) {
	d := NewDecoder(r, format, baseURI)
	var statements []graph.Statement
	for {
		s, err := d.Decode()
		if err == io.EOF {
			return statements, nil
		}
		if err != nil {
			return nil, err
		}
		s.Context = context
		statements = append(statements, s)
	}
}

// term converts to the N-Triples form, dropping the implicit xsd:string datatype.
func term(t rdf.Term) graph.Term {
	nt := graph.Term(t.Serialize(rdf.NTriples))
	if lexical, datatype, lang, ok := nt.Literal(); ok && lang == "" {
		return graph.Literal(lexical, datatype)
	}
	return nt
}
