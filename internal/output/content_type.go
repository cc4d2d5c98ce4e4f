package output

import (
	"mime"
	"net/http"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrHeaderDecode is returned when the Content-Type header cannot be read as a media type.
var ErrHeaderDecode = errors.New("cannot decode header")

// ContentType is the body formatting selected from the Content-Type header.
type ContentType int

const (
	ContentTypeNone ContentType = iota
	ContentTypeJSON
	ContentTypeOther
)

func (c ContentType) String() string {
	switch c {
	case ContentTypeJSON:
		return "json"
	case ContentTypeOther:
		return "other"
	default:
		return "none"
	}
}

// ParseContentType classifies the first Content-Type value by its media type.
// Parameters such as charset are ignored; only application/json selects JSON.
func ParseContentType(h http.Header) (ContentType, error) {
	values := h.Values("Content-Type")
	if len(values) == 0 {
		return ContentTypeNone, nil
	}

	raw := values[0]
	if !utf8.ValidString(raw) {
		return ContentTypeNone, errors.Wrapf(ErrHeaderDecode, "Content-Type %q is not valid text", raw)
	}

	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return ContentTypeNone, errors.Wrapf(ErrHeaderDecode, "Content-Type %q: %v", raw, err)
	}

	if mediaType == "application/json" {
		return ContentTypeJSON, nil
	}
	return ContentTypeOther, nil
}
