package sdk

import (
	"context"

	"github.com/rosette-api/rosette-sdk-go/pkg/apierror"
	"github.com/rosette-api/rosette-sdk-go/pkg/model"
)

// Ping checks that the service is reachable.
func (c *Client) Ping(ctx context.Context) (model.Result, error) {
	return c.get(ctx, model.Ping)
}

// Info returns the server name and version.
func (c *Client) Info(ctx context.Context) (model.Result, error) {
	return c.get(ctx, model.Info)
}

// Language identifies the language of a document.
func (c *Client) Language(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.Language, input)
}

// Sentences splits a document into sentences.
func (c *Client) Sentences(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.Sentences, input)
}

// Tokens splits a document into words.
func (c *Client) Tokens(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.Tokens, input)
}

// Morphology returns the requested facet of the morphological analysis.
func (c *Client) Morphology(ctx context.Context, input any, facet model.MorphologyOutput) (model.Result, error) {
	if !facet.Valid() {
		return nil, apierror.Newf(apierror.BadArgument, "morphology", "unknown morphology output %s", facet)
	}
	return c.call(ctx, facet.Path(), input)
}

// Entities extracts entity mentions, with links to a knowledge base when the
// server is configured for linking.
func (c *Client) Entities(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.Entities, input)
}

// Categories assigns the document to topical categories.
func (c *Client) Categories(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.Categories, input)
}

// Sentiment scores the document and its entities as positive, negative or neutral.
func (c *Client) Sentiment(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.Sentiment, input)
}

// Relationships extracts relations between entities.
func (c *Client) Relationships(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.Relationships, input)
}

// Events extracts event mentions and their roles.
func (c *Client) Events(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.Events, input)
}

// Topics returns the key phrases and concepts of the document.
func (c *Client) Topics(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.Topics, input)
}

// Transliteration converts text between scripts.
func (c *Client) Transliteration(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.Transliteration, input)
}

// SyntaxDependencies returns the dependency parse of each sentence.
func (c *Client) SyntaxDependencies(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.SyntaxDependencies, input)
}

// TextEmbedding returns the embedding vector of a document.
func (c *Client) TextEmbedding(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.TextEmbedding, input)
}

// SemanticVectors returns per-token or document semantic vectors.
func (c *Client) SemanticVectors(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.SemanticVectors, input)
}

// SimilarTerms returns terms semantically close to the input.
func (c *Client) SimilarTerms(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.SimilarTerms, input)
}

// NameTranslation translates a name; input is *params.NameTranslationParams.
func (c *Client) NameTranslation(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.NameTranslation, input)
}

// NameSimilarity scores two names; input is *params.NameSimilarityParams.
func (c *Client) NameSimilarity(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.NameSimilarity, input)
}

// NameDeduplication clusters similar names; input is
// *params.NameDeduplicationParams.
func (c *Client) NameDeduplication(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.NameDeduplication, input)
}

// AddressSimilarity scores two addresses; input is
// *params.AddressSimilarityParams.
func (c *Client) AddressSimilarity(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.AddressSimilarity, input)
}

// RecordSimilarity compares records field by field; input is
// *params.RecordSimilarityParams.
func (c *Client) RecordSimilarity(ctx context.Context, input any) (model.Result, error) {
	return c.call(ctx, model.RecordSimilarity, input)
}
