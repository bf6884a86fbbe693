package environment

import (
	"strings"

	"github.com/joho/godotenv"

	"github.com/bianoble/envsel/internal/ordered"
)

// parseMultiple splits a KEY=value block into bindings, in the order they
// appear. Blank lines and # comments are skipped and an "export " prefix is
// allowed. Value unquoting and escapes follow dotenv rules.
func parseMultiple(field, block string) (*ordered.Map[string, string], error) {
	var keys []string
	for line := range strings.Lines(block) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		trimmed = strings.TrimPrefix(trimmed, "export ")

		key, _, ok := strings.Cut(trimmed, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, &MultiValueParseError{Field: field, Line: strings.TrimRight(line, "\r\n")}
		}
		keys = append(keys, key)
	}

	values, err := godotenv.Unmarshal(block)
	if err != nil {
		return nil, &MultiValueParseError{Field: field, Err: err}
	}

	out := ordered.New[string, string]()
	for _, key := range keys {
		out.Set(key, values[key])
	}
	return out, nil
}
