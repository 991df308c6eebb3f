package report

import (
	"context"
	"errors"
)

var errScriptExhausted = errors.New("operator script exhausted")

type confirmCall struct {
	prompt string
	def    bool
}

type readCall struct {
	prompt string
	def    string
}

// scriptedOperator replays canned replies. A confirm reply of "" takes the
// default, running out of replies is an error so loops cannot spin forever.
type scriptedOperator struct {
	confirms []string
	replies  []string

	confirmCalls []confirmCall
	readCalls    []readCall
	shown        []string
}

func (s *scriptedOperator) Confirm(_ context.Context, prompt string, def bool) (bool, error) {
	s.confirmCalls = append(s.confirmCalls, confirmCall{prompt: prompt, def: def})
	if len(s.confirms) == 0 {
		return false, errScriptExhausted
	}
	reply := s.confirms[0]
	s.confirms = s.confirms[1:]
	switch reply {
	case "y":
		return true, nil
	case "n":
		return false, nil
	}
	return def, nil
}

func (s *scriptedOperator) ReadMultiline(_ context.Context, prompt, def string) (string, error) {
	s.readCalls = append(s.readCalls, readCall{prompt: prompt, def: def})
	if len(s.replies) == 0 {
		return "", errScriptExhausted
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func (s *scriptedOperator) Show(text string) {
	s.shown = append(s.shown, text)
}

func (s *scriptedOperator) readPrompts() []string {
	out := make([]string, len(s.readCalls))
	for i, c := range s.readCalls {
		out[i] = c.prompt
	}
	return out
}
