package utils

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// LowercaseKeys lower-cases every top-level key of a JSON object. Nested
// values are copied verbatim. Anything that is not a single JSON object is
// returned unchanged so that decoding reports the format error later.
//
// When two keys collapse onto the same lower-case key the later one wins.
func LowercaseKeys(body []byte) []byte {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return body
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return body
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return body
		}
		key, ok := tok.(string)
		if !ok {
			return body
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return body
		}
		key = strings.ToLower(key)
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return body
	}
	if _, err := dec.Token(); err != io.EOF {
		return body
	}

	var out bytes.Buffer
	out.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			out.WriteByte(',')
		}
		encoded, err := json.Marshal(key)
		if err != nil {
			return body
		}
		out.Write(encoded)
		out.WriteByte(':')
		out.Write(values[key])
	}
	out.WriteByte('}')
	return out.Bytes()
}
