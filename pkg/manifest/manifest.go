// Package manifest provides multi-document YAML decoding and the loosely
// typed tree accessors shared by the cost and security analyzers. Documents
// are plain map trees so the analyzers can traverse and edit manifests
// produced by any source, not just this module's generator.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is one parsed YAML document.
type Document = map[string]interface{}

// DecodeAll parses a possibly multi-document YAML blob. Empty documents are
// dropped. A syntax error anywhere in the blob fails the whole decode; the
// caller decides whether that aborts its operation or just skips the file.
func DecodeAll(content string) ([]Document, error) {
	decoder := yaml.NewDecoder(strings.NewReader(content))

	var docs []Document
	for {
		var doc Document
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("yaml decode: %w", err)
		}
		if len(doc) == 0 {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// EncodeAll serializes documents back into one blob, separated by the
// standard `---` document separator.
func EncodeAll(docs []Document) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	for _, doc := range docs {
		if err := encoder.Encode(doc); err != nil {
			return "", fmt.Errorf("yaml encode: %w", err)
		}
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("yaml encode: %w", err)
	}
	return buf.String(), nil
}

// Kind returns the document's kind, or "" when absent.
func Kind(doc Document) string {
	return String(doc, "kind")
}

// Name returns metadata.name, or "" when absent.
func Name(doc Document) string {
	return String(doc, "metadata", "name")
}

// Map walks nested maps along the key path. Returns nil when any step is
// missing or not a map.
func Map(doc Document, path ...string) Document {
	current := doc
	for _, key := range path {
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// Slice returns the list at the key path, or nil.
func Slice(doc Document, path ...string) []interface{} {
	if len(path) == 0 {
		return nil
	}
	parent := doc
	if len(path) > 1 {
		parent = Map(doc, path[:len(path)-1]...)
	}
	if parent == nil {
		return nil
	}
	list, _ := parent[path[len(path)-1]].([]interface{})
	return list
}

// Maps returns the list at the key path filtered to map elements; a
// convenience for container and volume lists.
func Maps(doc Document, path ...string) []Document {
	items := Slice(doc, path...)
	if items == nil {
		return nil
	}
	result := make([]Document, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			result = append(result, m)
		}
	}
	return result
}

// String returns the string at the key path, or "".
func String(doc Document, path ...string) string {
	if len(path) == 0 {
		return ""
	}
	parent := doc
	if len(path) > 1 {
		parent = Map(doc, path[:len(path)-1]...)
	}
	if parent == nil {
		return ""
	}
	s, _ := parent[path[len(path)-1]].(string)
	return s
}

// Int returns the integer at the key path, or def when absent or not a
// number. YAML integers decode as int, but JSON-converted trees may carry
// float64.
func Int(doc Document, def int, path ...string) int {
	if len(path) == 0 {
		return def
	}
	parent := doc
	if len(path) > 1 {
		parent = Map(doc, path[:len(path)-1]...)
	}
	if parent == nil {
		return def
	}
	switch v := parent[path[len(path)-1]].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Bool returns the boolean at the key path, or false.
func Bool(doc Document, path ...string) bool {
	if len(path) == 0 {
		return false
	}
	parent := doc
	if len(path) > 1 {
		parent = Map(doc, path[:len(path)-1]...)
	}
	if parent == nil {
		return false
	}
	b, _ := parent[path[len(path)-1]].(bool)
	return b
}

// Strings returns the list at the key path coerced to strings.
func Strings(doc Document, path ...string) []string {
	items := Slice(doc, path...)
	if items == nil {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// IsYAML reports whether a manifest map key names a YAML file. The analyzers
// only consider .yaml/.yml entries.
func IsYAML(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}
