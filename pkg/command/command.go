// Package command defines the closed set of player intents the
// game controller accepts, and the stateless parsers that turn
// their wire and text forms into values.
package command

import (
	"fmt"

	"digital.vasic.challengegame/pkg/challenge"
)

// Command is a value describing player intent. The set is closed:
// only GameCommand and ChallengeCommand implement it.
type Command interface {
	// Name returns the wire name of the command.
	Name() string

	isCommand()
}

// GameCommandType enumerates navigation over the game path.
type GameCommandType string

const (
	NextChallenge     GameCommandType = "next_challenge"
	PreviousChallenge GameCommandType = "previous_challenge"
	SelectChallenge   GameCommandType = "select_challenge"
)

// GameCommand moves the cursor over the game path. Index is only
// meaningful for SelectChallenge.
type GameCommand struct {
	Type  GameCommandType `json:"type"`
	Index int             `json:"index,omitempty"`
}

// Name implements Command.
func (c GameCommand) Name() string { return string(c.Type) }

func (GameCommand) isCommand() {}

// ChallengeCommandType enumerates actions on the current
// challenge.
type ChallengeCommandType string

const (
	StartChallenge   ChallengeCommandType = "start_challenge"
	SolveOption      ChallengeCommandType = "solve_option"
	AbandonChallenge ChallengeCommandType = "abandon_challenge"
)

// ChallengeCommand acts on the challenge under the cursor. Input
// is only meaningful for SolveOption.
type ChallengeCommand struct {
	Type  ChallengeCommandType `json:"type"`
	Input challenge.Input      `json:"input,omitzero"`
}

// Name implements Command.
func (c ChallengeCommand) Name() string { return string(c.Type) }

func (ChallengeCommand) isCommand() {}

// Next moves the cursor to the following challenge.
func Next() GameCommand { return GameCommand{Type: NextChallenge} }

// Previous moves the cursor to the preceding challenge.
func Previous() GameCommand { return GameCommand{Type: PreviousChallenge} }

// Select moves the cursor to the challenge at index.
func Select(index int) GameCommand {
	return GameCommand{Type: SelectChallenge, Index: index}
}

// Start begins the challenge under the cursor.
func Start() ChallengeCommand {
	return ChallengeCommand{Type: StartChallenge}
}

// Solve submits an answer for the challenge under the cursor.
func Solve(in challenge.Input) ChallengeCommand {
	return ChallengeCommand{Type: SolveOption, Input: in}
}

// Abandon gives up on the in-progress challenge.
func Abandon() ChallengeCommand {
	return ChallengeCommand{Type: AbandonChallenge}
}

// Describe renders a command for logs and terminal output.
func Describe(cmd Command) string {
	switch c := cmd.(type) {
	case GameCommand:
		if c.Type == SelectChallenge {
			return fmt.Sprintf("%s(%d)", c.Type, c.Index)
		}
		return string(c.Type)
	case ChallengeCommand:
		if c.Type == SolveOption {
			return fmt.Sprintf("%s(%s)", c.Type, c.Input.Kind)
		}
		return string(c.Type)
	}
	return "unknown"
}
