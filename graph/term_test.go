package graph

import (
	"testing"
	"time"
)

func TestLiteralRoundTrip(t *testing.T) {
	term := String("say \"hi\"\n\tbye \\")
	lexical, datatype, lang, ok := term.Literal()
	if !ok || lexical != "say \"hi\"\n\tbye \\" || datatype != "" || lang != "" {
		t.Fatalf("Literal %s parsed as %q %q %q", term, lexical, datatype, lang)
	}
}

func TestTypedLiterals(t *testing.T) {
	if i, err := Integer(-42).Int(); err != nil || i != -42 {
		t.Fatalf("Integer is %d (%v)", i, err)
	}
	if b, err := Boolean(true).Bool(); err != nil || !b {
		t.Fatalf("Boolean is %v (%v)", b, err)
	}
	now := time.Date(2024, 5, 1, 14, 0, 0, 0, time.FixedZone("CEST", 7200))
	parsed, err := DateTime(now).Time()
	if err != nil || !parsed.Equal(now) {
		t.Fatalf("DateTime is %v (%v)", parsed, err)
	}
	if DateTime(now) != `"2024-05-01T12:00:00Z"^^<http://www.w3.org/2001/XMLSchema#dateTime>` {
		t.Fatalf("DateTime term is %s", DateTime(now))
	}
}

func TestXSDStringIsPlain(t *testing.T) {
	if Literal("a", xsd+"string") != String("a") {
		t.Fatal("xsd:string literal should equal the plain literal")
	}
}

func TestLangString(t *testing.T) {
	_, datatype, lang, ok := LangString("chat", "fr").Literal()
	if !ok || lang != "fr" || datatype != "" {
		t.Fatalf("Language tag is %q", lang)
	}
}

func TestUnicodeEscapes(t *testing.T) {
	lexical, _, _, ok := Term(`"café \U0001F600"`).Literal()
	if !ok || lexical != "café 😀" {
		t.Fatalf("Lexical form is %q", lexical)
	}
	if _, _, _, ok := Term(`"bad \u00"`).Literal(); ok {
		t.Fatal("Short escape should not parse")
	}
}

func TestTermKinds(t *testing.T) {
	iri := IRI("http://example.org/a")
	if v, ok := iri.IRI(); !ok || v != "http://example.org/a" || iri.Value() != v {
		t.Fatalf("IRI is %s", v)
	}
	if !Blank("b0").IsBlank() || Blank("_:b0") != Blank("b0") {
		t.Fatal("Blank node labels should be normalized")
	}
	if _, ok := Blank("b0").IRI(); ok {
		t.Fatal("Blank node is not an IRI")
	}
}
