package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes an EDN rendering of v, covering the value shapes the
// commands emit (maps, vectors, strings, numbers, booleans, nil). Structs
// are routed through their JSON tags, so wire names stay authoritative;
// snake_case keys come out as idiomatic kebab-case keywords
// (profile_id -> :profile-id).
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}

	var buf bytes.Buffer
	writeEDNValue(&buf, x, pretty, "")
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

func writeEDNValue(buf *bytes.Buffer, v any, pretty bool, indent string) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("nil")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		buf.WriteString(strconv.Quote(t))
	case float64:
		// encoding/json hands every number over as float64.
		if t == float64(int64(t)) {
			buf.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		writeEDNVector(buf, t, pretty, indent)
	case map[string]any:
		writeEDNMap(buf, t, pretty, indent)
	default:
		buf.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func writeEDNVector(buf *bytes.Buffer, xs []any, pretty bool, indent string) {
	if len(xs) == 0 {
		buf.WriteString("[]")
		return
	}
	buf.WriteByte('[')
	inner := indent + " "
	for i, x := range xs {
		if i > 0 {
			if pretty {
				buf.WriteByte('\n')
				buf.WriteString(inner)
			} else {
				buf.WriteByte(' ')
			}
		}
		writeEDNValue(buf, x, pretty, inner)
	}
	buf.WriteByte(']')
}

func writeEDNMap(buf *bytes.Buffer, m map[string]any, pretty bool, indent string) {
	if len(m) == 0 {
		buf.WriteString("{}")
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	inner := indent + " "
	for i, k := range keys {
		if i > 0 {
			if pretty {
				buf.WriteByte('\n')
				buf.WriteString(inner)
			} else {
				buf.WriteString(", ")
			}
		}
		buf.WriteString(ednKeyword(k))
		buf.WriteByte(' ')
		writeEDNValue(buf, m[k], pretty, inner+strings.Repeat(" ", len(ednKeyword(k))+1))
	}
	buf.WriteByte('}')
}

// ednKeyword maps a JSON field name to an EDN keyword, folding snake_case
// and spaces into kebab-case.
func ednKeyword(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	return ":" + s
}
