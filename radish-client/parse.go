package radish

import (
	"strconv"
	"strings"

	"github.com/go-radish/radish/message"
)

// ParseArg converts one command-line token into a Value, following
// original_source/radish-cli/src/main.rs's arg_to_value: a quoted token
// (single or double) becomes a Buffer with the quotes stripped; an
// unquoted token containing a '.' that parses as a float becomes a
// Float; the literals "nill"/"ok"/"true"/"false" become their matching
// Values; anything else that parses as an int64 becomes an Integer, and
// everything remaining falls back to a raw Buffer.
func ParseArg(arg string) message.Value {
	if len(arg) >= 2 {
		if (strings.HasPrefix(arg, "'") && strings.HasSuffix(arg, "'")) ||
			(strings.HasPrefix(arg, "\"") && strings.HasSuffix(arg, "\"")) {
			return message.Buffer([]byte(arg[1 : len(arg)-1]))
		}
	}

	if strings.Contains(arg, ".") {
		if f, err := strconv.ParseFloat(arg, 64); err == nil {
			return message.Float(f)
		}
	}

	switch arg {
	case "nill":
		return message.Nil()
	case "ok":
		return message.Ok()
	case "true":
		return message.Bool(true)
	case "false":
		return message.Bool(false)
	}

	if i, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return message.Integer(i)
	}
	return message.Buffer([]byte(arg))
}

// ParseCommand builds a Command from a command name and its raw
// argument tokens, converting each with ParseArg -- the Go analogue of
// new_command in original_source/radish-cli/src/main.rs.
func ParseCommand(name string, rawArgs []string) message.Command {
	args := make([]message.Value, len(rawArgs))
	for i, a := range rawArgs {
		args[i] = ParseArg(a)
	}
	return message.NewCommand(name, args)
}
