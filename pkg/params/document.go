package params

import (
	"path/filepath"

	"github.com/rosette-api/rosette-sdk-go/pkg/apierror"
	"github.com/rosette-api/rosette-sdk-go/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Document parameter keys.
const (
	Content     = "content"
	ContentURI  = "contentUri"
	ContentType = "contentType"
	Language    = "language"
	Genre       = "genre"
	ProfileID   = "profileId"
)

// DocumentParams carries the input of every document endpoint (language,
// entities, sentiment, ...). Exactly one of content and contentUri must be set.
type DocumentParams struct {
	fieldSet
	fileName  string
	multipart bool
}

// NewDocumentParams returns an empty document parameter set.
func NewDocumentParams() *DocumentParams {
	d := &DocumentParams{
		fieldSet: newFieldSet(DocumentKind, []string{Content, ContentURI, ContentType, Language, Genre, ProfileID}),
	}
	d.check = d.contentRule
	return d
}

// NewText returns document parameters holding text as content.
func NewText(text string) *DocumentParams {
	d := NewDocumentParams()
	d.SetContent(text)
	return d
}

func (d *DocumentParams) contentRule() []error {
	hasContent, hasURI := d.isSet(Content), d.isSet(ContentURI)
	switch {
	case hasContent && hasURI:
		return []error{apierror.New(apierror.BadArgument, "Cannot supply both Content and ContentUri", "bad arguments")}
	case !hasContent && !hasURI:
		return []error{apierror.New(apierror.BadArgument, "Must supply one of Content or ContentUri", "bad arguments")}
	}
	return nil
}

// SetContent sets the text to analyze. An empty string clears it.
func (d *DocumentParams) SetContent(text string) {
	d.setString(Content, text)
}

// SetContentURI sets a URL for the server to fetch the content from.
func (d *DocumentParams) SetContentURI(uri string) {
	d.setString(ContentURI, uri)
}

// SetLanguage sets the ISO 639-3 language of the content.
func (d *DocumentParams) SetLanguage(lang string) {
	d.setString(Language, lang)
}

// SetGenre sets the content genre.
func (d *DocumentParams) SetGenre(genre string) {
	d.setString(Genre, genre)
}

// SetProfileID selects a custom server profile.
func (d *DocumentParams) SetProfileID(id string) {
	d.setString(ProfileID, id)
}

func (d *DocumentParams) setString(key, value string) {
	if value == "" {
		d.set(key, nil)
		return
	}
	d.set(key, value)
}

// LoadString loads s as the content with the given format.
func (d *DocumentParams) LoadString(s string, format model.DataFormat) {
	d.set(Content, s)
	d.set(ContentType, format.String())
}

// LoadFile reads the file at path from the OS filesystem. See LoadFileFS.
func (d *DocumentParams) LoadFile(path string, format model.DataFormat) error {
	return d.LoadFileFS(afero.NewOsFs(), path, format)
}

// LoadFileFS reads the file at path from fs into content and marks the set
// for multipart upload. format must be HTML, XHTML or Unspecified; the
// server determines the encoding of the bytes.
func (d *DocumentParams) LoadFileFS(fs afero.Fs, path string, format model.DataFormat) error {
	switch format {
	case model.HTML, model.XHTML, model.Unspecified:
	default:
		return apierror.New(apierror.BadArgument, "Must supply one of HTML, XHTML, or UNSPECIFIED", format.String())
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return apierror.Wrap(apierror.BadArgument, "Unable to read document file", path, err)
	}
	zap.L().Debug("loaded document file", zap.String("path", path), zap.Int("bytes", len(data)))

	d.set(Content, data)
	d.set(ContentType, format.String())
	d.fileName = filepath.Base(path)
	d.multipart = true
	return nil
}

// Multipart reports whether the content was loaded from a file.
func (d *DocumentParams) Multipart() bool {
	return d.multipart
}

// File returns the loaded file name, its bytes and content type. ok is false
// unless the content was loaded with LoadFile or LoadFileFS.
func (d *DocumentParams) File() (name string, data []byte, contentType string, ok bool) {
	if !d.multipart {
		return "", nil, "", false
	}
	switch c := d.values[Content].(type) {
	case []byte:
		data = c
	case string:
		data = []byte(c)
	}
	contentType = model.Unspecified.String()
	if ct, isString := d.values[ContentType].(string); isString && ct != "" {
		contentType = ct
	}
	return d.fileName, data, contentType, true
}
