package script

import (
	"errors"
	"fmt"
	"strings"
)

// Persona selects which instruction template the composer uses.
type Persona int

const (
	PersonaRoast Persona = iota + 1
	PersonaHype
)

// ErrUnknownPersona is returned for input that names neither mode.
var ErrUnknownPersona = errors.New("unknown persona")

func (p Persona) String() string {
	switch p {
	case PersonaRoast:
		return "roast"
	case PersonaHype:
		return "hype"
	default:
		return "unknown"
	}
}

// ParsePersona maps user input to a persona. Accepts the menu numbers used
// by the terminal front end as well as the mode names. Anything else is a
// validation error rather than a silent default.
func ParsePersona(input string) (Persona, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1", "roast":
		return PersonaRoast, nil
	case "2", "hype":
		return PersonaHype, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPersona, input)
	}
}

// Prompt builds the generation instruction for this persona with the source
// text interpolated verbatim. The 3-sentence cap is a request to the model,
// not something enforced locally.
func (p Persona) Prompt(text string) string {
	if p == PersonaRoast {
		return "You are a sarcastic, deadpan tech critic. Read the following website text " +
			"and write a short script (max 3 sentences) roasting it. " +
			"Make fun of the buzzwords. Be funny but safe for work. " +
			"TEXT: " + text
	}
	return "You are an overly energetic infomercial host. Read the following website text " +
		"and write a short script (max 3 sentences) selling this concept like it's the future. " +
		"Use exclamation points! " +
		"TEXT: " + text
}
