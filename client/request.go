package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/gorilla/schema"

	"github.com/kolah/ramble/pipeline"
)

var queryEncoder = schema.NewEncoder()

// Invoke assembles a request for one of the node's declared verbs and
// submits it to the pipeline together with the completion callback. It
// returns the pipeline's handle for cancellation. For get and head the data
// argument is ignored, since those verbs carry no body. Validation and
// serialization failures are returned synchronously; transport failures
// reach the callback's error slot only.
func (n *Node) Invoke(verb string, data any, done pipeline.Done) (pipeline.Handle, error) {
	verb = strings.ToLower(verb)
	if _, ok := n.verbs[verb]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
	}

	var body []byte
	if verb != "get" && verb != "head" {
		encoded, structured, err := encodeBody(data)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = encoded
		if structured {
			if _, set := n.state.headers["Content-Type"]; !set {
				n = n.withContentType("application/json")
			}
		}
	}

	req := &pipeline.Request{
		URL:     n.state.URL(),
		Method:  strings.ToUpper(verb),
		Headers: copyHeaders(n.state.headers),
		Body:    body,
	}
	return n.pipe.Submit(req, done), nil
}

func (n *Node) withContentType(contentType string) *Node {
	derived := *n
	derived.state = n.state.withHeaders(map[string]string{"Content-Type": contentType})
	return &derived
}

// encodeBody serializes a structured payload; text payloads pass through
// unchanged. The second result reports whether the payload was structured.
func encodeBody(data any) ([]byte, bool, error) {
	switch v := data.(type) {
	case nil:
		return nil, false, nil
	case string:
		return []byte(v), false, nil
	case []byte:
		return v, false, nil
	case json.RawMessage:
		return v, true, nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, false, err
		}
		return encoded, true, nil
	}
}

func encodeQuery(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case url.Values:
		return v.Encode(), nil
	case map[string]string:
		values := url.Values{}
		for name, raw := range v {
			values.Set(name, raw)
		}
		return values.Encode(), nil
	case map[string]any:
		values := url.Values{}
		for name, raw := range v {
			values.Set(name, fmt.Sprint(raw))
		}
		return values.Encode(), nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		values := url.Values{}
		if err := queryEncoder.Encode(rv.Interface(), values); err != nil {
			return "", fmt.Errorf("encoding query values: %w", err)
		}
		return values.Encode(), nil
	}
	return "", fmt.Errorf("unsupported query value of type %T", value)
}

func copyHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	copied := make(map[string]string, len(headers))
	for name, value := range headers {
		copied[name] = value
	}
	return copied
}
