package post

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"
)

var ErrMalformedBody = errors.New("malformed body")

type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindObject:
		return "object"
	default:
		return "empty"
	}
}

// Body is an inbound request body, either raw text or an object that may carry
// a text attribute.
type Body struct {
	Kind   Kind
	Text   string
	Object Object
}

// Object is the structured request shape. Text is nil when the attribute is
// missing or is not a string.
type Object struct {
	Text *string
}

func (o *Object) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Text = nil
	if v, ok := raw["text"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			o.Text = &s
		}
	}
	return nil
}

func TextBody(s string) Body {
	return Body{Kind: KindText, Text: s}
}

func ObjectBody(text *string) Body {
	return Body{Kind: KindObject, Object: Object{Text: text}}
}

// Normalize maps every body variant onto the plain text to relay.
func (b Body) Normalize() string {
	switch b.Kind {
	case KindText:
		return b.Text
	case KindObject:
		if b.Object.Text != nil {
			return *b.Object.Text
		}
	}
	return ""
}

// Decode builds a Body from a request's content type and raw bytes. Text
// content types are taken verbatim, JSON must be an object, anything else is
// empty.
func Decode(contentType string, raw []byte) (Body, error) {
	if len(raw) == 0 {
		return Body{Kind: KindEmpty}, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return Body{Kind: KindEmpty}, nil
	}

	switch {
	case strings.HasPrefix(mediaType, "text/"):
		return TextBody(string(raw)), nil

	case isJSON(mediaType):
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			// arrays are valid json with no text field
			var arr []json.RawMessage
			if err := json.Unmarshal(trimmed, &arr); err != nil {
				return Body{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
			}
			return Body{Kind: KindEmpty}, nil
		}
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return Body{}, fmt.Errorf("%w: expected a json object", ErrMalformedBody)
		}
		var obj Object
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return Body{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		return Body{Kind: KindObject, Object: obj}, nil

	default:
		return Body{Kind: KindEmpty}, nil
	}
}

func isJSON(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
