package params

import (
	"github.com/rosette-api/rosette-sdk-go/pkg/model"
)

// Name endpoint parameter keys.
const (
	Name                   = "name"
	TargetLanguage         = "targetLanguage"
	EntityType             = "entityType"
	SourceLanguageOfOrigin = "sourceLanguageOfOrigin"
	SourceLanguageOfUse    = "sourceLanguageOfUse"
	SourceScript           = "sourceScript"
	TargetScript           = "targetScript"
	TargetScheme           = "targetScheme"
	Name1                  = "name1"
	Name2                  = "name2"
	Names                  = "names"
	Threshold              = "threshold"
	MatchParameters        = "parameters"
)

// NameTranslationParams is the input of name-translation. Scripts are
// ISO 15924 codes and languages ISO 639 codes.
type NameTranslationParams struct {
	fieldSet
}

// NewNameTranslationParams returns an empty set; name and targetLanguage
// are required.
func NewNameTranslationParams() *NameTranslationParams {
	return &NameTranslationParams{
		fieldSet: newFieldSet(NameTranslationKind,
			[]string{Name, TargetLanguage, EntityType, SourceLanguageOfOrigin, SourceLanguageOfUse,
				SourceScript, TargetScript, TargetScheme, Genre, ProfileID},
			Name, TargetLanguage),
	}
}

// SetName sets the name to translate.
func (p *NameTranslationParams) SetName(name string) { p.set(Name, name) }

// SetTargetLanguage sets the language to translate into.
func (p *NameTranslationParams) SetTargetLanguage(lang string) { p.set(TargetLanguage, lang) }

// SetEntityType sets PERSON, LOCATION or ORGANIZATION.
func (p *NameTranslationParams) SetEntityType(entityType string) { p.set(EntityType, entityType) }

// SetSourceLanguageOfOrigin sets the language the name originates from.
func (p *NameTranslationParams) SetSourceLanguageOfOrigin(l string) { p.set(SourceLanguageOfOrigin, l) }

// SetSourceLanguageOfUse sets the language the name is written in.
func (p *NameTranslationParams) SetSourceLanguageOfUse(l string) { p.set(SourceLanguageOfUse, l) }

// SetSourceScript sets the script of the name.
func (p *NameTranslationParams) SetSourceScript(script string) { p.set(SourceScript, script) }

// SetTargetScript sets the script of the translation.
func (p *NameTranslationParams) SetTargetScript(script string) { p.set(TargetScript, script) }

// SetTargetScheme sets the transliteration scheme of the translation.
func (p *NameTranslationParams) SetTargetScheme(scheme string) { p.set(TargetScheme, scheme) }

// NameSimilarityParams is the input of name-similarity. Both names are
// required; each is a model.Name or an equivalent map.
type NameSimilarityParams struct {
	fieldSet
}

// NewNameSimilarityParams returns an empty set; name1 and name2 are required.
func NewNameSimilarityParams() *NameSimilarityParams {
	return &NameSimilarityParams{
		fieldSet: newFieldSet(NameSimilarityKind, []string{Name1, Name2, MatchParameters, ProfileID}, Name1, Name2),
	}
}

// SetName1 sets the first name to compare.
func (p *NameSimilarityParams) SetName1(n model.Name) { p.set(Name1, n) }

// SetName2 sets the second name to compare.
func (p *NameSimilarityParams) SetName2(n model.Name) { p.set(Name2, n) }

// NameDeduplicationParams is the input of name-deduplication. threshold, when
// set, restricts the size of the returned clusters.
type NameDeduplicationParams struct {
	fieldSet
}

// NewNameDeduplicationParams returns an empty set; names is required.
func NewNameDeduplicationParams() *NameDeduplicationParams {
	return &NameDeduplicationParams{
		fieldSet: newFieldSet(NameDeduplicationKind, []string{Names, Threshold, ProfileID}, Names),
	}
}

// SetNames sets the names to cluster. No names clears the key.
func (p *NameDeduplicationParams) SetNames(names ...model.Name) {
	if len(names) == 0 {
		p.set(Names, nil)
		return
	}
	p.set(Names, names)
}

// SetThreshold sets the similarity threshold used for clustering.
func (p *NameDeduplicationParams) SetThreshold(threshold float64) { p.set(Threshold, threshold) }
