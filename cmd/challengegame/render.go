package main

import (
	"fmt"
	"strings"
	"time"

	"digital.vasic.challengegame/pkg/challenge"
	"digital.vasic.challengegame/pkg/event"
	"digital.vasic.challengegame/pkg/game"
)

// describeEvent renders one event as a terminal line.
func describeEvent(e event.Event) string {
	switch ev := e.(type) {
	case event.GameEvent:
		return fmt.Sprintf("-> moved to challenge %d", ev.To+1)
	case event.ChallengeEvent:
		switch ev.Type {
		case event.TypeChallengeStarted:
			return fmt.Sprintf("-> %s started", ev.ChallengeID)
		case event.TypeSolvedCorrect:
			return "-> correct!"
		case event.TypeSolvedIncorrect:
			return "-> incorrect"
		case event.TypeAbandoned:
			return fmt.Sprintf("-> %s abandoned", ev.ChallengeID)
		case event.TypeFinish:
			if ev.Result == nil {
				return fmt.Sprintf("-> %s finished", ev.ChallengeID)
			}
			r := ev.Result
			return fmt.Sprintf("-> %s finished: %s after %d attempt(s) in %s",
				r.ChallengeID, r.Outcome(), r.Attempts, r.Duration.Round(time.Millisecond))
		}
	}
	return "-> " + string(e.EventType())
}

// describeCurrent renders the challenge under the cursor.
func describeCurrent(s game.GameState) string {
	c, ok := s.Current()
	if !ok {
		return "No challenges on this map.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n[%d/%d] %s (%s)", s.Position+1, len(s.Challenges), c.Name, c.Kind)
	if r, ok := s.ResultFor(s.Position); ok {
		fmt.Fprintf(&b, " - %s", r.Outcome())
	} else if c.Status == challenge.StatusInProgress {
		b.WriteString(" - in progress")
	}
	b.WriteString("\n")
	if c.Description != "" {
		fmt.Fprintf(&b, "%s\n", c.Description)
	}

	switch c.Kind {
	case challenge.KindMultipleChoice:
		if mc := c.MultipleChoice; mc != nil {
			fmt.Fprintf(&b, "%s\n", mc.Question)
			for _, o := range mc.Options {
				fmt.Fprintf(&b, "  %d) %s\n", o.ID, o.Text)
			}
		}
	case challenge.KindSortTable:
		if st := c.SortTable; st != nil {
			fmt.Fprintf(&b, "%s\n", st.Prompt)
			for _, r := range st.Rows {
				fmt.Fprintf(&b, "  %s: %s\n", r.ID, r.Label)
			}
		}
	case challenge.KindCustom:
		if cu := c.Custom; cu != nil {
			fmt.Fprintf(&b, "%s\n", cu.Prompt)
		}
	}
	if c.MaxAttempts > 0 {
		fmt.Fprintf(&b, "Attempts: %d/%d\n", c.Progress.Incorrect, c.MaxAttempts)
	}
	if c.Timed() {
		fmt.Fprintf(&b, "Time limit: %s\n", c.TimeLimit)
	}
	return b.String()
}
