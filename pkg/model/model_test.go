package model

import (
	"testing"
)

func TestDataFormat_String(t *testing.T) {
	tests := []struct {
		name   string
		format DataFormat
		want   string
	}{
		{name: "simple", format: Simple, want: "text/plain"},
		{name: "json", format: JSON, want: "application/json"},
		{name: "html", format: HTML, want: "text/html"},
		{name: "xhtml", format: XHTML, want: "application/xhtml+xml"},
		{name: "unspecified", format: Unspecified, want: "application/octet-stream"},
		{name: "out of range", format: DataFormat(42), want: "DataFormat(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
			if parsed, ok := ParseDataFormat(tt.want); tt.name != "out of range" && (!ok || parsed != tt.format) {
				t.Fatalf("ParseDataFormat(%q) = %v, %v", tt.want, parsed, ok)
			}
		})
	}
}

func TestMorphologyOutput_Path(t *testing.T) {
	tests := []struct {
		facet MorphologyOutput
		want  Endpoint
	}{
		{Complete, "morphology/complete"},
		{Lemmas, "morphology/lemmas"},
		{PartsOfSpeech, "morphology/parts-of-speech"},
		{CompoundComponents, "morphology/compound-components"},
		{HanReadings, "morphology/han-readings"},
	}
	for _, tt := range tests {
		if got := tt.facet.Path(); got != tt.want {
			t.Fatalf("Path() = %q, want %q", got, tt.want)
		}
		back, ok := ParseMorphologyOutput(tt.facet.String())
		if !ok || back != tt.facet {
			t.Fatalf("ParseMorphologyOutput(%q) = %v, %v", tt.facet.String(), back, ok)
		}
	}
	if _, ok := ParseMorphologyOutput("stems"); ok {
		t.Fatal("expected unknown facet to be rejected")
	}
}

func TestEndpoint_AcceptsText(t *testing.T) {
	for _, e := range []Endpoint{Language, Entities, SyntaxDependencies, Lemmas.Path()} {
		if !e.AcceptsText() {
			t.Fatalf("%s should accept plain text", e)
		}
	}
	for _, e := range []Endpoint{NameTranslation, NameSimilarity, NameDeduplication, AddressSimilarity, RecordSimilarity} {
		if e.AcceptsText() {
			t.Fatalf("%s should reject plain text", e)
		}
	}
}

// TestResult_Decode verifies that results decode into typed structs by json
// tag and that response headers are exposed as strings.
func TestResult_Decode(t *testing.T) {
	r := Result{
		"language": "eng",
		"languageDetections": []any{
			map[string]any{"language": "eng", "confidence": 0.9},
		},
		ResponseHeadersKey: map[string]any{"X-Rosetteapi-Request-Id": "abc"},
	}

	var out struct {
		Language   string `json:"language"`
		Detections []struct {
			Language   string  `json:"language"`
			Confidence float64 `json:"confidence"`
		} `json:"languageDetections"`
	}
	if err := r.Decode(&out); err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if out.Language != "eng" || len(out.Detections) != 1 || out.Detections[0].Confidence != 0.9 {
		t.Fatalf("unexpected decode result: %+v", out)
	}
	if got := r.ResponseHeaders()["X-Rosetteapi-Request-Id"]; got != "abc" {
		t.Fatalf("request id header = %q", got)
	}
}
