package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeSub    Type = "sub"
	TypeRename Type = "rename"
	TypeRepeat Type = "repeat"
	TypeDone   Type = "done"
	TypeDelete Type = "delete"
)

var aliases = map[string]Type{
	"new":      TypeAdd,
	"subtask":  TypeSub,
	"mv":       TypeRename,
	"again":    TypeRepeat,
	"toggle":   TypeDone,
	"rm":       TypeDelete,
	"del":      TypeDelete,
	"complete": TypeDone,
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Name string
}

type SubArgs struct {
	Due  model.DueSelection
	Name string
}

type RenameArgs struct {
	Name string
}

// Command is a parsed palette line. Repeat, Done and Delete act on the
// current selection and carry no arguments.
type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Sub    *SubArgs
	Rename *RenameArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeSub:
		return parseSub(input, args)
	case TypeRename:
		return parseRename(input, args)
	case TypeRepeat, TypeDone, TypeDelete:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", typ)}
		}
		return Command{Type: typ, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a name"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name}}, nil
}

// parseSub accepts "sub 30m name" as well as "sub 2 hours name".
func parseSub(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sub requires a duration and a name"}
	}
	due, err := model.ParseDueSelection(args[0])
	rest := args[1:]
	if err != nil && len(args) >= 3 {
		due, err = model.ParseDueSelection(args[0] + " " + args[1])
		rest = args[2:]
	}
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad duration: %v", err)}
	}
	name := strings.TrimSpace(strings.Join(rest, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sub requires a name"}
	}
	return Command{Type: TypeSub, Raw: raw, Sub: &SubArgs{Due: due, Name: name}}, nil
}

func parseRename(raw string, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rename requires a name"}
	}
	return Command{Type: TypeRename, Raw: raw, Rename: &RenameArgs{Name: name}}, nil
}
