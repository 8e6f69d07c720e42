package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rosette-api/rosette-sdk-go/pkg/model"
	"github.com/rosette-api/rosette-sdk-go/pkg/params"
	"github.com/rosette-api/rosette-sdk-go/pkg/sdk"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the service is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, func(ctx context.Context, c *sdk.Client) (model.Result, error) {
			return c.Ping(ctx)
		})
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the server name and version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, func(ctx context.Context, c *sdk.Client) (model.Result, error) {
			return c.Info(ctx)
		})
	},
}

var (
	content    string
	contentURI string
	file       string
	language   string
	options    []string
	fields     []string

	callCmd = &cobra.Command{
		Use:   "call <endpoint>",
		Short: "Call an endpoint, e.g. language, entities, morphology/lemmas, name-translation",
		Long: `call sends one request to the named endpoint.

Document endpoints take --content, --content-uri or --file (HTML).
Name and record endpoints take their fields as --param key=value; values
that parse as JSON are sent as JSON, e.g.

  rosette call name-similarity --param 'name1={"text":"Michael Jackson"}' \
    --param 'name2={"text":"迈克尔·杰克逊"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callFn, err := lookupEndpoint(args[0])
			if err != nil {
				return err
			}
			input, err := buildInput(model.Endpoint(args[0]))
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, c *sdk.Client) (model.Result, error) {
				for _, kv := range options {
					k, v, err := splitPair(kv)
					if err != nil {
						return nil, err
					}
					c.SetOption(k, v)
				}
				return callFn(ctx, c, input)
			})
		},
	}
)

func init() {
	callCmd.Flags().StringVar(&content, "content", "", "document text")
	callCmd.Flags().StringVar(&contentURI, "content-uri", "", "URI of the document to analyze")
	callCmd.Flags().StringVar(&file, "file", "", "HTML file to upload")
	callCmd.Flags().StringVar(&language, "language", "", "ISO 639-3 language hint")
	callCmd.Flags().StringArrayVar(&options, "option", nil, "client option key=value (repeatable)")
	callCmd.Flags().StringArrayVar(&fields, "param", nil, "parameter key=value (repeatable)")
}

func run(cmd *cobra.Command, fn func(context.Context, *sdk.Client) (model.Result, error)) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := fn(ctx, client)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

type endpointFunc func(context.Context, *sdk.Client, any) (model.Result, error)

func method(f func(*sdk.Client, context.Context, any) (model.Result, error)) endpointFunc {
	return func(ctx context.Context, c *sdk.Client, in any) (model.Result, error) {
		return f(c, ctx, in)
	}
}

var endpoints = map[model.Endpoint]endpointFunc{
	model.Language:           method((*sdk.Client).Language),
	model.Sentences:          method((*sdk.Client).Sentences),
	model.Tokens:             method((*sdk.Client).Tokens),
	model.Entities:           method((*sdk.Client).Entities),
	model.Categories:         method((*sdk.Client).Categories),
	model.Sentiment:          method((*sdk.Client).Sentiment),
	model.Relationships:      method((*sdk.Client).Relationships),
	model.Events:             method((*sdk.Client).Events),
	model.Topics:             method((*sdk.Client).Topics),
	model.Transliteration:    method((*sdk.Client).Transliteration),
	model.SyntaxDependencies: method((*sdk.Client).SyntaxDependencies),
	model.TextEmbedding:      method((*sdk.Client).TextEmbedding),
	model.SemanticVectors:    method((*sdk.Client).SemanticVectors),
	model.SimilarTerms:       method((*sdk.Client).SimilarTerms),
	model.NameTranslation:    method((*sdk.Client).NameTranslation),
	model.NameSimilarity:     method((*sdk.Client).NameSimilarity),
	model.NameDeduplication:  method((*sdk.Client).NameDeduplication),
	model.AddressSimilarity:  method((*sdk.Client).AddressSimilarity),
	model.RecordSimilarity:   method((*sdk.Client).RecordSimilarity),
}

func lookupEndpoint(name string) (endpointFunc, error) {
	if facet, ok := strings.CutPrefix(name, "morphology/"); ok {
		out, valid := model.ParseMorphologyOutput(facet)
		if !valid {
			return nil, fmt.Errorf("unknown morphology output %q", facet)
		}
		return func(ctx context.Context, c *sdk.Client, in any) (model.Result, error) {
			return c.Morphology(ctx, in, out)
		}, nil
	}
	if f, ok := endpoints[model.Endpoint(name)]; ok {
		return f, nil
	}
	known := make([]string, 0, len(endpoints))
	for e := range endpoints {
		known = append(known, string(e))
	}
	sort.Strings(known)
	return nil, fmt.Errorf("unknown endpoint %q; known: %s, morphology/<facet>", name, strings.Join(known, ", "))
}

// buildInput assembles the parameter set for path from the flags.
func buildInput(path model.Endpoint) (params.Parameters, error) {
	var p params.Parameters
	switch path {
	case model.NameTranslation:
		p = params.NewNameTranslationParams()
	case model.NameSimilarity:
		p = params.NewNameSimilarityParams()
	case model.NameDeduplication:
		p = params.NewNameDeduplicationParams()
	case model.AddressSimilarity:
		p = params.NewAddressSimilarityParams()
	case model.RecordSimilarity:
		p = params.NewRecordSimilarityParams()
	default:
		doc := params.NewDocumentParams()
		doc.SetContent(content)
		doc.SetContentURI(contentURI)
		doc.SetLanguage(language)
		if file != "" {
			if err := doc.LoadFile(file, model.HTML); err != nil {
				return nil, err
			}
		}
		p = doc
	}

	for _, kv := range fields {
		k, v, err := splitPair(kv)
		if err != nil {
			return nil, err
		}
		if err := p.Set(k, v); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// splitPair parses key=value, decoding value as JSON when possible.
func splitPair(kv string) (string, any, error) {
	k, v, ok := strings.Cut(kv, "=")
	if !ok || k == "" {
		return "", nil, fmt.Errorf("expected key=value, got %q", kv)
	}
	var decoded any
	if err := json.Unmarshal([]byte(v), &decoded); err == nil {
		return k, decoded, nil
	}
	return k, v, nil
}
