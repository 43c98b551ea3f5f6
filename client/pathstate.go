package client

import "strings"

// PathState is an immutable snapshot of a branch's resolved position: the
// base URI, the resolved path segments, and any captured query string and
// headers. Every derivation copies; branches never share mutable state.
type PathState struct {
	baseURI  string
	segments []string
	query    string
	hasQuery bool
	headers  map[string]string
}

func newPathState(baseURI string) PathState {
	return PathState{baseURI: strings.TrimSuffix(baseURI, "/")}
}

func (s PathState) withSegment(segment string) PathState {
	segments := make([]string, len(s.segments)+1)
	copy(segments, s.segments)
	segments[len(s.segments)] = segment
	s.segments = segments
	return s
}

func (s PathState) withQuery(query string) PathState {
	s.query = query
	s.hasQuery = true
	return s
}

func (s PathState) withHeaders(headers map[string]string) PathState {
	merged := make(map[string]string, len(s.headers)+len(headers))
	for name, value := range s.headers {
		merged[name] = value
	}
	for name, value := range headers {
		merged[name] = value
	}
	s.headers = merged
	return s
}

// URL joins the path segments onto the base URI and appends the captured
// query string, if any.
func (s PathState) URL() string {
	url := s.baseURI
	for _, segment := range s.segments {
		url += "/" + segment
	}
	if s.hasQuery && s.query != "" {
		url += "?" + s.query
	}
	return url
}
