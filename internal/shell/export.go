package shell

import (
	"fmt"
	"strings"

	"github.com/bianoble/envsel/internal/environment"
)

// Export renders a script that, when sourced, sets every variable in env.
// Values are exported in full; masking only applies to display.
func (s *Shell) Export(env *environment.Environment) string {
	var b strings.Builder
	for name, v := range env.All() {
		switch s.Kind {
		case Fish:
			fmt.Fprintf(&b, "set -gx %s %s;\n", fishQuote(name), fishQuote(v.Value))
		default:
			fmt.Fprintf(&b, "export %s=%s;\n", posixQuote(name), posixQuote(v.Value))
		}
	}
	return b.String()
}

// posixQuote wraps s in single quotes. A single quote inside is written as
// '\'' (close, escaped quote, reopen).
func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// fishQuote wraps s in single quotes. Fish treats \\ and \' as escapes
// inside single quotes.
func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}

const posixHook = `%[1]s() {
  local source_file
  source_file="$(mktemp)"
  command %[1]s --source-file="$source_file" "$@"
  local status_code=$?
  if [ -s "$source_file" ]; then
    . "$source_file"
  fi
  rm -f "$source_file"
  return $status_code
}
`

const fishHook = `function %[1]s
    set -l source_file (mktemp)
    command %[1]s --source-file="$source_file" $argv
    set -l status_code $status
    if test -s "$source_file"
        source "$source_file"
    end
    rm -f "$source_file"
    return $status_code
end
`

// Hook renders a shell function named binary that wraps the binary and
// sources any export script it writes, so that "set" can modify the calling
// shell.
func (s *Shell) Hook(binary string) string {
	if s.Kind == Fish {
		return fmt.Sprintf(fishHook, binary)
	}
	return fmt.Sprintf(posixHook, binary)
}
