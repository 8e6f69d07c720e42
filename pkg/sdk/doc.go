// Package sdk provides the high-level entry point for the Rosette text
// analytics API.
//
// # Quick Start
//
//	import (
//		"github.com/rosette-api/rosette-sdk-go/pkg/config"
//		"github.com/rosette-api/rosette-sdk-go/pkg/sdk"
//	)
//
//	func main() {
//		client, err := sdk.New(&config.Config{UserKey: os.Getenv("ROSETTE_USER_KEY")})
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer client.Close()
//
//		result, err := client.Language(context.Background(), "Por favor, ¿dónde está el baño?")
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(result["languageDetections"])
//	}
//
// # Input
//
// Document endpoints (Language, Entities, Sentiment, ...) accept either a
// plain string, which becomes the document content, or a
// *params.DocumentParams for content URIs, language hints and file uploads:
//
//	p := params.NewDocumentParams()
//	if err := p.LoadFile("page.html", model.HTML); err != nil {
//		return err
//	}
//	result, err := client.Entities(ctx, p)
//
// Name and record endpoints require their own parameter set, for example
// *params.NameTranslationParams for NameTranslation. Passing text to them
// fails with an incompatible error.
//
// # Client State
//
//   - Options (SetOption) are attached to every document request body.
//   - URL parameters (SetURLParameter) are added to every request query.
//   - Custom headers (SetCustomHeader) must begin with "X-RosetteAPI-" and
//     are sent with the next request only.
//
// Before the first endpoint call the client asks the server whether it
// supports this binding version. The answer is cached for the life of the
// client.
//
// # Errors
//
// Every failure is an *apierror.Error. Use errors.Is with the sentinels in
// package apierror, or apierror.StatusOf to read the status code:
//
//	if errors.Is(err, apierror.ErrMissingParameter) { ... }
//
// # Logging
//
// The package installs a console zap logger as the global logger on import.
// Replace it with zap.ReplaceGlobals or pass WithLogger.
package sdk
