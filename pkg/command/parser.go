package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"digital.vasic.challengegame/pkg/challenge"
)

// Parse failure kinds. A *ParseError wraps exactly one of them.
var (
	ErrParse              = errors.New("malformed command")
	ErrUnknownCommandType = errors.New("unknown command type")
	ErrMissingData        = errors.New("missing command data")
	ErrInvalidData        = errors.New("invalid command data")
)

// ParseError reports why an external command representation could
// not be turned into a Command.
type ParseError struct {
	Kind  error
	Type  string
	Cause error
}

func (e *ParseError) Error() string {
	msg := "parse command"
	if e.Type != "" {
		msg += fmt.Sprintf(" %q", e.Type)
	}
	msg += ": " + e.Kind.Error()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to
// errors.Is and errors.As.
func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func parseErr(kind error, typ string, cause error) *ParseError {
	return &ParseError{Kind: kind, Type: typ, Cause: cause}
}

// envelope is the JSON wire form of a command.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type selectData struct {
	Index *int `json:"index"`
}

// Parse decodes the JSON wire form:
//
//	{"type": "next_challenge"}
//	{"type": "select_challenge", "data": {"index": 2}}
//	{"type": "solve_option", "data": {"kind": "multiple_choice", "options": [2]}}
func Parse(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, parseErr(ErrParse, "", err)
	}
	if env.Type == "" {
		return nil, parseErr(ErrMissingData, "", errors.New("type is required"))
	}

	switch t := GameCommandType(env.Type); t {
	case NextChallenge, PreviousChallenge:
		return GameCommand{Type: t}, nil
	case SelectChallenge:
		if !hasData(env.Data) {
			return nil, parseErr(ErrMissingData, env.Type, nil)
		}
		var sd selectData
		if err := json.Unmarshal(env.Data, &sd); err != nil {
			return nil, parseErr(ErrInvalidData, env.Type, err)
		}
		if sd.Index == nil {
			return nil, parseErr(ErrMissingData, env.Type, errors.New("index is required"))
		}
		return Select(*sd.Index), nil
	}

	switch t := ChallengeCommandType(env.Type); t {
	case StartChallenge, AbandonChallenge:
		return ChallengeCommand{Type: t}, nil
	case SolveOption:
		if !hasData(env.Data) {
			return nil, parseErr(ErrMissingData, env.Type, nil)
		}
		var in challenge.Input
		if err := json.Unmarshal(env.Data, &in); err != nil {
			return nil, parseErr(ErrInvalidData, env.Type, err)
		}
		if err := checkInput(in); err != nil {
			return nil, parseErr(ErrInvalidData, env.Type, err)
		}
		return Solve(in), nil
	}

	return nil, parseErr(ErrUnknownCommandType, env.Type, nil)
}

func hasData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func checkInput(in challenge.Input) error {
	if !in.Kind.Valid() {
		return fmt.Errorf("%w: %q", challenge.ErrUnknownKind, in.Kind)
	}
	if in.Empty() {
		return challenge.ErrEmptyInput
	}
	return nil
}

// Encode renders a command in the JSON wire form accepted by Parse.
func Encode(cmd Command) ([]byte, error) {
	env := envelope{}
	switch c := cmd.(type) {
	case GameCommand:
		env.Type = string(c.Type)
		if c.Type == SelectChallenge {
			raw, err := json.Marshal(selectData{Index: &c.Index})
			if err != nil {
				return nil, err
			}
			env.Data = raw
		}
	case ChallengeCommand:
		env.Type = string(c.Type)
		if c.Type == SolveOption {
			raw, err := json.Marshal(c.Input)
			if err != nil {
				return nil, err
			}
			env.Data = raw
		}
	default:
		return nil, fmt.Errorf("encode command: unsupported %T", cmd)
	}
	return json.Marshal(env)
}

// ParseText decodes the terminal form of a command. Recognised
// verbs:
//
//	next | prev | select <n> | start | abandon
//	choose <id>...        multiple choice answer
//	order <row>...        sort table answer
//	answer <text>         custom answer
func ParseText(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, parseErr(ErrParse, "", errors.New("empty line"))
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "next", "n":
		return Next(), nil
	case "prev", "previous", "p":
		return Previous(), nil
	case "start":
		return Start(), nil
	case "abandon", "skip":
		return Abandon(), nil
	case "select", "goto":
		if len(args) == 0 {
			return nil, parseErr(ErrMissingData, verb, nil)
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, parseErr(ErrInvalidData, verb, err)
		}
		return Select(i), nil
	case "choose", "solve":
		if len(args) == 0 {
			return nil, parseErr(ErrMissingData, verb, nil)
		}
		ids := make([]int, 0, len(args))
		for _, a := range args {
			for _, part := range strings.Split(a, ",") {
				if part == "" {
					continue
				}
				id, err := strconv.Atoi(part)
				if err != nil {
					return nil, parseErr(ErrInvalidData, verb, err)
				}
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return nil, parseErr(ErrMissingData, verb, nil)
		}
		return Solve(challenge.MultipleChoiceInput(ids...)), nil
	case "order", "sort":
		if len(args) == 0 {
			return nil, parseErr(ErrMissingData, verb, nil)
		}
		var rows []string
		for _, a := range args {
			for _, part := range strings.Split(a, ",") {
				if part != "" {
					rows = append(rows, part)
				}
			}
		}
		if len(rows) == 0 {
			return nil, parseErr(ErrMissingData, verb, nil)
		}
		return Solve(challenge.SortTableInput(rows...)), nil
	case "answer":
		text := strings.TrimSpace(strings.TrimPrefix(
			strings.TrimSpace(line), fields[0],
		))
		if text == "" {
			return nil, parseErr(ErrMissingData, verb, nil)
		}
		return Solve(challenge.CustomInput(text)), nil
	}

	return nil, parseErr(ErrUnknownCommandType, verb, nil)
}

// ParseLine accepts either form: lines starting with '{' are read
// as JSON, everything else as text.
func ParseLine(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		return Parse([]byte(trimmed))
	}
	return ParseText(trimmed)
}
