// Package items reads input items and writes output items.
package items

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"infuranode/internal/dispatcher"
	"infuranode/internal/node"
)

// Format selects the output encoding
type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
)

// ParseFormat validates an output format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatNDJSON:
		return FormatNDJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Read decodes items from a JSON array of objects or from NDJSON.
// Empty input yields no items.
func Read(r io.Reader) ([]node.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var raw []map[string]interface{}
		if err := decode(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse items: %w", err)
		}
		return toItems(raw)
	}

	var raw []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var obj map[string]interface{}
		if err := decode(text, &obj); err != nil {
			return nil, fmt.Errorf("failed to parse item on line %d: %w", line, err)
		}
		raw = append(raw, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return toItems(raw)
}

// decode keeps numbers as json.Number so integers wider than a float64
// mantissa keep every digit. Trailing data is an error, as with json.Unmarshal.
func decode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}

func toItems(raw []map[string]interface{}) ([]node.Item, error) {
	out := make([]node.Item, len(raw))
	for i, obj := range raw {
		item := make(node.Item, len(obj))
		for k, v := range obj {
			s, err := stringify(v)
			if err != nil {
				return nil, fmt.Errorf("item %d, field %q: %w", i, k, err)
			}
			item[k] = s
		}
		out[i] = item
	}
	return out, nil
}

func stringify(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case json.Number:
		return t.String(), nil
	}
	return "", fmt.Errorf("unsupported value type %T", v)
}

// failure is written in place of a reply for items that failed
type failure struct {
	Error     string `json:"error"`
	ItemIndex int    `json:"itemIndex"`
}

// Write encodes results in order. Replies are written byte for byte.
func Write(w io.Writer, results []dispatcher.Result, format Format) error {
	payloads := make([]json.RawMessage, len(results))
	for i, r := range results {
		if !r.Failed() {
			payloads[i] = r.Response
			continue
		}
		b, err := json.Marshal(failure{Error: r.Err.Error(), ItemIndex: r.Index})
		if err != nil {
			return err
		}
		payloads[i] = b
	}

	bw := bufio.NewWriter(w)
	switch format {
	case FormatNDJSON:
		for _, p := range payloads {
			if _, err := bw.Write(compact(p)); err != nil {
				return err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	default:
		if err := bw.WriteByte('['); err != nil {
			return err
		}
		for i, p := range payloads {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.Write(p); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("]\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// compact keeps one payload per line; payloads that fail to compact are
// written as-is
func compact(p json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, p); err != nil {
		return p
	}
	return buf.Bytes()
}
