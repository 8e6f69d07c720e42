// Package model defines the value types shared by the Rosette client: the
// closed enumerations for data formats and morphology facets, the endpoint
// paths, name records, and the Result mapping returned by every call.
package model

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ResponseHeadersKey is the reserved key under which the HTTP response headers
// are injected into every Result.
const ResponseHeadersKey = "responseHeaders"

// DataFormat describes how document content is encoded.
type DataFormat int

const (
	// Simple is unstructured text.
	Simple DataFormat = iota
	// JSON is JSON content.
	JSON
	// HTML is a loose HTML page, sent as bytes.
	HTML
	// XHTML is a compliant XHTML page, sent as bytes.
	XHTML
	// Unspecified is content of unknown format, possibly binary. The server
	// detects the format.
	Unspecified
)

var dataFormatWire = [...]string{
	Simple:      "text/plain",
	JSON:        "application/json",
	HTML:        "text/html",
	XHTML:       "application/xhtml+xml",
	Unspecified: "application/octet-stream",
}

// String returns the MIME type sent on the wire.
func (f DataFormat) String() string {
	if f < 0 || int(f) >= len(dataFormatWire) {
		return fmt.Sprintf("DataFormat(%d)", int(f))
	}
	return dataFormatWire[f]
}

// ParseDataFormat maps a MIME type back to its DataFormat.
func ParseDataFormat(s string) (DataFormat, bool) {
	for i, w := range dataFormatWire {
		if strings.EqualFold(w, s) {
			return DataFormat(i), true
		}
	}
	return Unspecified, false
}

// MorphologyOutput selects a facet of the morphology endpoint.
type MorphologyOutput int

const (
	// Complete returns every facet at once.
	Complete MorphologyOutput = iota
	// Lemmas returns the dictionary form of each token.
	Lemmas
	// PartsOfSpeech returns the part-of-speech tag of each token.
	PartsOfSpeech
	// CompoundComponents splits compounds (German, Dutch, ...) into parts.
	CompoundComponents
	// HanReadings returns readings of Chinese and Japanese Han characters.
	HanReadings
)

var morphologyWire = [...]string{
	Complete:           "complete",
	Lemmas:             "lemmas",
	PartsOfSpeech:      "parts-of-speech",
	CompoundComponents: "compound-components",
	HanReadings:        "han-readings",
}

// String returns the facet name used in the endpoint path.
func (m MorphologyOutput) String() string {
	if m < 0 || int(m) >= len(morphologyWire) {
		return fmt.Sprintf("MorphologyOutput(%d)", int(m))
	}
	return morphologyWire[m]
}

// Valid reports whether m is one of the declared facets.
func (m MorphologyOutput) Valid() bool {
	return m >= Complete && m <= HanReadings
}

// Path returns the endpoint path for the facet, e.g. "morphology/lemmas".
func (m MorphologyOutput) Path() Endpoint {
	return Endpoint("morphology/" + m.String())
}

// ParseMorphologyOutput maps a facet name to its MorphologyOutput.
func ParseMorphologyOutput(s string) (MorphologyOutput, bool) {
	for i, w := range morphologyWire {
		if w == s {
			return MorphologyOutput(i), true
		}
	}
	return Complete, false
}

// Endpoint is a path relative to the service URL.
type Endpoint string

const (
	Ping               Endpoint = "ping"
	Info               Endpoint = "info"
	Language           Endpoint = "language"
	Sentences          Endpoint = "sentences"
	Tokens             Endpoint = "tokens"
	Entities           Endpoint = "entities"
	EntitiesLinked     Endpoint = "entities/linked"
	Categories         Endpoint = "categories"
	Sentiment          Endpoint = "sentiment"
	Relationships      Endpoint = "relationships"
	Events             Endpoint = "events"
	Topics             Endpoint = "topics"
	Transliteration    Endpoint = "transliteration"
	SyntaxDependencies Endpoint = "syntax/dependencies"
	TextEmbedding      Endpoint = "text-embedding"
	SemanticVectors    Endpoint = "semantics/vector"
	SimilarTerms       Endpoint = "semantics/similar"
	NameTranslation    Endpoint = "name-translation"
	NameSimilarity     Endpoint = "name-similarity"
	NameDeduplication  Endpoint = "name-deduplication"
	AddressSimilarity  Endpoint = "address-similarity"
	RecordSimilarity   Endpoint = "record-similarity"
)

// AcceptsText reports whether plain text input can be wrapped into document
// parameters for this endpoint.
func (e Endpoint) AcceptsText() bool {
	switch e {
	case NameTranslation, NameSimilarity, NameDeduplication, AddressSimilarity, RecordSimilarity:
		return false
	}
	return true
}

// Name is a name record used by name-similarity and record-similarity.
// Language is an ISO 639-3 code, Script an ISO 15924 code, EntityType one
// of PERSON, LOCATION or ORGANIZATION.
type Name struct {
	Text       string `json:"text" mapstructure:"text"`
	Language   string `json:"language,omitempty" mapstructure:"language"`
	Script     string `json:"script,omitempty" mapstructure:"script"`
	EntityType string `json:"entityType,omitempty" mapstructure:"entityType"`
}

// Result is the decoded JSON body of a successful call, with the response
// headers injected under ResponseHeadersKey.
type Result map[string]any

// ResponseHeaders returns the headers injected by the transport.
func (r Result) ResponseHeaders() map[string]string {
	out := map[string]string{}
	switch h := r[ResponseHeadersKey].(type) {
	case map[string]string:
		for k, v := range h {
			out[k] = v
		}
	case map[string]any:
		for k, v := range h {
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

// Decode copies the result into out, matching fields by their json tag.
func (r Result) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(r)); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}
