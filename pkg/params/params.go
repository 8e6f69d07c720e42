// Package params defines the parameter sets accepted by Rosette endpoints.
// Each set accepts a fixed repertoire of keys, checks its required keys
// lazily when serialized, and drops unset keys from the request body.
package params

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/rosette-api/rosette-sdk-go/pkg/apierror"
)

// OptionsKey is the reserved body key holding the client-wide options.
const OptionsKey = "options"

// Kind discriminates the parameter set variants.
type Kind int

const (
	DocumentKind Kind = iota
	NameTranslationKind
	NameSimilarityKind
	NameDeduplicationKind
	AddressSimilarityKind
	RecordSimilarityKind
)

// String returns the name used in missing-parameter messages.
func (k Kind) String() string {
	switch k {
	case DocumentKind:
		return "Document"
	case NameTranslationKind:
		return "Name Translation"
	case NameSimilarityKind:
		return "Name Similarity"
	case NameDeduplicationKind:
		return "Name De-Duplication"
	case AddressSimilarityKind:
		return "Address Similarity"
	case RecordSimilarityKind:
		return "Record Similarity"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Parameters is implemented by every parameter set.
type Parameters interface {
	// Kind identifies the variant.
	Kind() Kind
	// Set stores value under key. A nil value clears the key. Unknown keys
	// fail with a badKey error.
	Set(key string, value any) error
	// Get returns the value stored under key, or nil when unset. Unknown
	// keys fail with a badKey error.
	Get(key string) (any, error)
	// Violations lists every validation failure in declaration order.
	Violations() []error
	// Validate returns the first violation, or nil.
	Validate() error
	// Serialize validates the set and returns the request body. options,
	// when non-empty, is attached under OptionsKey.
	Serialize(options map[string]any) (map[string]any, error)
	// Multipart reports whether the set must be sent as a multipart upload.
	Multipart() bool
}

// New returns an empty parameter set of the given kind. Unknown kinds yield
// document parameters.
func New(kind Kind) Parameters {
	switch kind {
	case NameTranslationKind:
		return NewNameTranslationParams()
	case NameSimilarityKind:
		return NewNameSimilarityParams()
	case NameDeduplicationKind:
		return NewNameDeduplicationParams()
	case AddressSimilarityKind:
		return NewAddressSimilarityParams()
	case RecordSimilarityKind:
		return NewRecordSimilarityParams()
	}
	return NewDocumentParams()
}

// fieldSet is the keyed container shared by all variants.
type fieldSet struct {
	kind     Kind
	keys     []string
	required []string
	values   map[string]any
	// check adds variant specific violations after the required keys.
	check func() []error
}

func newFieldSet(kind Kind, keys []string, required ...string) fieldSet {
	return fieldSet{
		kind:     kind,
		keys:     keys,
		required: required,
		values:   make(map[string]any, len(keys)),
	}
}

func (f *fieldSet) Kind() Kind {
	return f.kind
}

func (f *fieldSet) known(key string) bool {
	for _, k := range f.keys {
		if k == key {
			return true
		}
	}
	return false
}

func badKey(key string) error {
	return apierror.New(apierror.BadKey, "Unknown Rosette parameter key", strconv.Quote(key))
}

func (f *fieldSet) Set(key string, value any) error {
	if !f.known(key) {
		return badKey(key)
	}
	if isNil(value) {
		delete(f.values, key)
		return nil
	}
	f.values[key] = value
	return nil
}

func (f *fieldSet) Get(key string) (any, error) {
	if !f.known(key) {
		return nil, badKey(key)
	}
	return f.values[key], nil
}

// set is Set for keys known to be in the repertoire.
func (f *fieldSet) set(key string, value any) {
	if isNil(value) {
		delete(f.values, key)
		return
	}
	f.values[key] = value
}

func (f *fieldSet) isSet(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f *fieldSet) Violations() []error {
	var errs []error
	for _, key := range f.required {
		if !f.isSet(key) {
			errs = append(errs, apierror.New(
				apierror.MissingParameter,
				fmt.Sprintf("Required %s parameter, %s, not supplied", f.kind, key),
				strconv.Quote(key),
			))
		}
	}
	if f.check != nil {
		errs = append(errs, f.check()...)
	}
	return errs
}

func (f *fieldSet) Validate() error {
	if errs := f.Violations(); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (f *fieldSet) Serialize(options map[string]any) (map[string]any, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(f.values)+1)
	for _, key := range f.keys {
		if v, ok := f.values[key]; ok {
			out[key] = v
		}
	}
	if len(options) > 0 {
		opts := make(map[string]any, len(options))
		for k, v := range options {
			opts[k] = v
		}
		out[OptionsKey] = opts
	}
	return out, nil
}

func (f *fieldSet) Multipart() bool {
	return false
}

// ValidateAll returns every violation of p combined into one error, or nil.
func ValidateAll(p Parameters) error {
	var result *multierror.Error
	for _, err := range p.Violations() {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
