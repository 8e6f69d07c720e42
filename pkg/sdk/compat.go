package sdk

import (
	"context"

	"github.com/rosette-api/rosette-sdk-go/pkg/model"
	"go.uber.org/zap"
)

// warnDeprecated logs once per client that old was called.
func (c *Client) warnDeprecated(old, replacement string) {
	if _, seen := c.deprecated.LoadOrStore(old, struct{}{}); seen {
		return
	}
	c.logger.Warn("deprecated method called",
		zap.String("method", old), zap.String("use", replacement))
}

// TranslatedName is the former name of NameTranslation.
//
// Deprecated: use NameTranslation.
func (c *Client) TranslatedName(ctx context.Context, input any) (model.Result, error) {
	c.warnDeprecated("TranslatedName", "NameTranslation")
	return c.NameTranslation(ctx, input)
}

// MatchedName is the former name of NameSimilarity.
//
// Deprecated: use NameSimilarity.
func (c *Client) MatchedName(ctx context.Context, input any) (model.Result, error) {
	c.warnDeprecated("MatchedName", "NameSimilarity")
	return c.NameSimilarity(ctx, input)
}

// EntitiesLinked calls the retired entities/linked endpoint.
//
// Deprecated: use Entities; linking is part of the entities response.
func (c *Client) EntitiesLinked(ctx context.Context, input any) (model.Result, error) {
	c.warnDeprecated("EntitiesLinked", "Entities")
	return c.call(ctx, model.EntitiesLinked, input)
}

// GetOption returns the option stored under name.
//
// Deprecated: use Option.
func (c *Client) GetOption(name string) any {
	c.warnDeprecated("GetOption", "Option")
	return c.Option(name)
}

// GetCustomHeaders returns the pending custom headers.
//
// Deprecated: use CustomHeaders.
func (c *Client) GetCustomHeaders() map[string]string {
	c.warnDeprecated("GetCustomHeaders", "CustomHeaders")
	return c.CustomHeaders()
}

// SetCustomHeaders sets one custom header.
//
// Deprecated: use SetCustomHeader.
func (c *Client) SetCustomHeaders(name, value string) {
	c.warnDeprecated("SetCustomHeaders", "SetCustomHeader")
	c.SetCustomHeader(name, value)
}

// GetURLParameter returns the query parameter stored under name.
//
// Deprecated: use URLParameter.
func (c *Client) GetURLParameter(name string) string {
	c.warnDeprecated("GetURLParameter", "URLParameter")
	return c.URLParameter(name)
}

// GetPoolSize returns the connection pool size.
//
// Deprecated: use PoolSize.
func (c *Client) GetPoolSize() int {
	c.warnDeprecated("GetPoolSize", "PoolSize")
	return c.PoolSize()
}
