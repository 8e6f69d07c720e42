package transport

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"strings"

	"github.com/rosette-api/rosette-sdk-go/pkg/apierror"
	"github.com/rosette-api/rosette-sdk-go/pkg/model"
)

var gzipMagic = []byte{0x1f, 0x8b, 0x08}

// gunzip decompresses data when it starts with the gzip magic bytes and
// returns it unchanged otherwise.
func gunzip(data []byte) ([]byte, error) {
	if len(data) <= len(gzipMagic) || !bytes.HasPrefix(data, gzipMagic) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// Decode parses the JSON body of resp and adds the response headers under
// model.ResponseHeadersKey, multiple values joined with ", ".
func Decode(resp *Response) (model.Result, error) {
	result := model.Result{}
	if len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := json.Unmarshal(resp.Body, &result); err != nil {
			return nil, apierror.Wrap(apierror.UnknownError, "unable to decode response", "", err)
		}
		if result == nil {
			result = model.Result{}
		}
	}
	headers := make(map[string]any, len(resp.Header))
	for k, vs := range resp.Header {
		headers[k] = strings.Join(vs, ", ")
	}
	result[model.ResponseHeadersKey] = headers
	return result, nil
}

// ErrorFields returns the code and message of a JSON error body, or empty
// strings when the body carries neither.
func ErrorFields(resp *Response) (code, message string) {
	return errorFields(resp.Body)
}
