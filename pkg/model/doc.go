// Package model provides the value types used across the Rosette client.
//
// # Data Formats
//
// DataFormat is a closed enumeration; its String method yields the MIME type
// sent to the service:
//
//	model.Simple      -> "text/plain"
//	model.JSON        -> "application/json"
//	model.HTML        -> "text/html"
//	model.XHTML       -> "application/xhtml+xml"
//	model.Unspecified -> "application/octet-stream"
//
// # Morphology Facets
//
// MorphologyOutput selects the morphology sub-endpoint:
//
//	model.Lemmas.Path() // "morphology/lemmas"
//
// # Endpoints
//
// Endpoint constants name every path served under the service URL. Only
// document endpoints accept bare text input (see Endpoint.AcceptsText).
//
// # Results
//
// Every successful call returns a Result, the decoded JSON object plus the
// HTTP response headers under "responseHeaders". Use Decode to copy it into
// a typed struct:
//
//	var lang struct {
//		Detections []struct {
//			Language   string  `json:"language"`
//			Confidence float64 `json:"confidence"`
//		} `json:"languageDetections"`
//	}
//	if err := res.Decode(&lang); err != nil {
//		return err
//	}
package model
