package message

import "strings"

// Command is one request frame: a command name and its positional
// arguments. Names are matched case-insensitively by the dispatcher, which
// normalises via Name().
type Command struct {
	Command   string
	Arguments []Value
}

// NewCommand constructs a Command, uppercasing name the way the dispatcher
// expects it.
func NewCommand(name string, args []Value) Command {
	return Command{Command: strings.ToUpper(name), Arguments: args}
}

// Name returns the uppercased command name.
func (c Command) Name() string {
	return strings.ToUpper(c.Command)
}

func (c Command) String() string {
	parts := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		parts[i] = a.String()
	}
	return c.Command + ": [" + strings.Join(parts, ",") + "]"
}
