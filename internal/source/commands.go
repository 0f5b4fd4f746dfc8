package source

import "strings"

// CommandKind identifies a periphery comment command
type CommandKind int

const (
	CommandIgnore CommandKind = iota
	CommandIgnoreAll
	CommandIgnoreParameters
)

const commandPrefix = "periphery:"

// CommentCommand is a `// periphery:...` directive attached to a
// declaration or file.
type CommentCommand struct {
	Kind   CommandKind
	Params []string
}

// ParseCommentCommand parses one comment. Text after " - " is a free-form
// explanation and is ignored.
func ParseCommentCommand(comment string) (CommentCommand, bool) {
	text := strings.TrimSpace(comment)
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, " - "); idx >= 0 {
		text = text[:idx]
	}
	if !strings.HasPrefix(text, commandPrefix) {
		return CommentCommand{}, false
	}

	fields := strings.Fields(strings.TrimPrefix(text, commandPrefix))
	if len(fields) == 0 {
		return CommentCommand{}, false
	}

	switch fields[0] {
	case "ignore":
		return CommentCommand{Kind: CommandIgnore}, true
	case "ignore:all":
		return CommentCommand{Kind: CommandIgnoreAll}, true
	case "ignore:parameters":
		var params []string
		for _, f := range fields[1:] {
			for _, p := range strings.Split(f, ",") {
				if p = strings.TrimSpace(p); p != "" {
					params = append(params, p)
				}
			}
		}
		return CommentCommand{Kind: CommandIgnoreParameters, Params: params}, true
	}
	return CommentCommand{}, false
}

// ParseCommentCommands parses every recognised command in comments
func ParseCommentCommands(comments []string) []CommentCommand {
	var out []CommentCommand
	for _, c := range comments {
		if cmd, ok := ParseCommentCommand(c); ok {
			out = append(out, cmd)
		}
	}
	return out
}
