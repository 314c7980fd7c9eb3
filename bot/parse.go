package bot

import "strings"

const commandPrefix = "!"

// ParseCommand normalizes a raw chat line and splits it into a command.
// Messages without the prefix are not commands (ok=false) and belong to the
// auto-shoutout and auto-response paths instead. A lone "!" parses to
// nothing. Leading "@" is stripped from arguments so "!so @friend" and
// "!so friend" are the same command.
func ParseCommand(raw string) (Command, bool) {
	text := foldASCII(raw)
	if !strings.HasPrefix(text, commandPrefix) {
		return Command{}, false
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, false
	}
	name := strings.TrimPrefix(fields[0], commandPrefix)
	if name == "" {
		return Command{}, false
	}
	args := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		args = append(args, strings.TrimPrefix(f, "@"))
	}
	return Command{Kind: commandKinds[name], Name: name, Args: args}, true
}
