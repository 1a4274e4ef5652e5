package generation

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Media is a binary attachment sent to the backend alongside the prompt text.
type Media struct {
	MIMEType string
	Data     []byte
}

// DataURI renders the media back into data URI form, which is how
// OpenAI-compatible APIs accept inline images.
func (m Media) DataURI() string {
	return "data:" + m.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(m.Data)
}

var (
	errNotDataURI     = errors.New("must be a data URI")
	errNotBase64      = errors.New("must be a base64 encoded data URI")
	errMissingMIME    = errors.New("data URI must declare a MIME type")
	errEmptyMedia     = errors.New("data URI has no payload")
	errInvalidPayload = errors.New("data URI payload is not valid base64")
)

// ParseDataURI decodes a "data:<mimetype>;base64,<payload>" string.
func ParseDataURI(uri string) (*Media, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return nil, errNotDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errNotDataURI
	}

	params := strings.Split(header, ";")
	if params[len(params)-1] != "base64" {
		return nil, errNotBase64
	}
	mimeType := strings.TrimSpace(params[0])
	if mimeType == "" || mimeType == "base64" || !strings.Contains(mimeType, "/") {
		return nil, errMissingMIME
	}
	if payload == "" {
		return nil, errEmptyMedia
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, errInvalidPayload
		}
	}

	return &Media{MIMEType: strings.ToLower(mimeType), Data: data}, nil
}
