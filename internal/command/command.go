// Package command interprets the line-oriented serial console.
//
// A line is tokenized, dispatched on its case-insensitive verb and applied to
// the clock models. All outcomes, including errors, produce reply lines for
// the console; nothing here is fatal.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"

	"github.com/sweeney/seg-clock/internal/clock"
	"github.com/sweeney/seg-clock/internal/display"
)

// MaxArgs caps the number of tokens on one line.
const MaxArgs = 16

var (
	// ErrParse is returned for an empty line or a malformed triplet.
	ErrParse = errors.New("parse error")
	// ErrArity is returned when a verb gets the wrong arguments.
	ErrArity = errors.New("wrong arguments")
	// ErrCapacity is returned when a line has more than MaxArgs tokens.
	ErrCapacity = errors.New("too many arguments")
	// ErrUnknown is returned for an unknown verb.
	ErrUnknown = errors.New("unknown command")
)

// Switcher changes the displayed screen.
type Switcher interface {
	SetMode(k display.Kind)
}

// Env is what commands act on. Execute must run inside the scheduler's
// critical section.
type Env struct {
	Calendar  *clock.Calendar
	Alarm     *clock.Alarm
	Countdown *clock.Countdown
	Screen    Switcher
}

type handler func(e *Env, args []string) ([]string, error)

type verb struct {
	arity   int // tokens including the verb
	usage   string
	handler handler
}

// verbs is filled in init because help lists the table it belongs to.
var verbs map[string]verb

func init() {
	verbs = map[string]verb{
		"?":       {1, "?", help},
		"init":    {2, "init clock", initClock},
		"get":     {2, "get time|date|alarm", get},
		"set":     {3, "set time <hh:mm:ss>|date <yyyy-mm-dd>|alarm <hh:mm:ss>", set},
		"run":     {2, "run time|date|cdown", run},
		"enable":  {2, "enable alarm|cdown", enable},
		"disable": {2, "disable alarm|cdown", disable},
	}
}

// order fixes the help listing.
var order = []string{"?", "init", "get", "set", "run", "enable", "disable"}

// Tokenize splits line on whitespace. Quoting follows shell rules: quotes
// group and are removed, a backslash escapes the next rune, and an unquoted
// # starts a comment that runs to the end of the line.
func Tokenize(line string) ([]string, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrParse)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty line: %w", ErrParse)
	}
	if len(tokens) > MaxArgs {
		return nil, fmt.Errorf("%d tokens, limit %d: %w", len(tokens), MaxArgs, ErrCapacity)
	}
	return tokens, nil
}

// Execute runs one command line and returns the reply lines. On failure the
// reply carries the error and, for grammar errors, the usage text.
func Execute(e *Env, line string) ([]string, error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return []string{"error: " + err.Error()}, err
	}

	name := strings.ToLower(tokens[0])
	v, ok := verbs[name]
	if !ok {
		err := fmt.Errorf("%q: %w", tokens[0], ErrUnknown)
		return append([]string{"error: " + err.Error()}, usage()...), err
	}
	if len(tokens) != v.arity {
		err := fmt.Errorf("%s: %w", name, ErrArity)
		return []string{"error: " + err.Error(), "usage: " + v.usage}, err
	}

	args := tokens[1:]
	if len(args) > 0 {
		args[0] = strings.ToLower(args[0])
	}
	reply, err := v.handler(e, args)
	if err != nil {
		reply = append(reply, "error: "+err.Error())
		if errors.Is(err, ErrArity) || errors.Is(err, ErrParse) {
			reply = append(reply, "usage: "+v.usage)
		}
	}
	return reply, err
}

func usage() []string {
	lines := make([]string, 0, len(order))
	for _, name := range order {
		lines = append(lines, "  "+verbs[name].usage)
	}
	return lines
}

func help(*Env, []string) ([]string, error) {
	return append([]string{"commands:"}, usage()...), nil
}

func badSubject(s string) error {
	return fmt.Errorf("unknown target %q: %w", s, ErrArity)
}

func initClock(e *Env, args []string) ([]string, error) {
	if args[0] != "clock" {
		return nil, badSubject(args[0])
	}
	*e.Calendar = *clock.DefaultCalendar()
	return []string{"clock reset to " + e.Calendar.String()}, nil
}

func get(e *Env, args []string) ([]string, error) {
	switch args[0] {
	case "time":
		return []string{"time " + e.Calendar.TimeString()}, nil
	case "date":
		return []string{"date " + e.Calendar.DateString()}, nil
	case "alarm":
		return []string{"alarm " + e.Alarm.String()}, nil
	}
	return nil, badSubject(args[0])
}

func set(e *Env, args []string) ([]string, error) {
	switch args[0] {
	case "time", "date", "alarm":
	default:
		return nil, badSubject(args[0])
	}

	a, b, c, err := ParseTriplet(args[1])
	if err != nil {
		return nil, err
	}

	switch args[0] {
	case "time":
		if err := e.Calendar.SetTime(c, b, a); err != nil {
			return nil, err
		}
		e.Screen.SetMode(display.KindTime)
		return []string{"time set to " + e.Calendar.TimeString()}, nil
	case "date":
		if err := e.Calendar.SetDate(c, b-1, a); err != nil {
			return nil, err
		}
		e.Screen.SetMode(display.KindDate)
		return []string{"date set to " + e.Calendar.DateString()}, nil
	default:
		if err := e.Alarm.SetTime(c, b, a); err != nil {
			return nil, err
		}
		return []string{"alarm set to " + e.Alarm.TimeString()}, nil
	}
}

func run(e *Env, args []string) ([]string, error) {
	switch args[0] {
	case "time":
		e.Screen.SetMode(display.KindTime)
		return []string{"showing time"}, nil
	case "date":
		e.Screen.SetMode(display.KindDate)
		return []string{"showing date"}, nil
	case "cdown":
		if e.Countdown.Zero() {
			return []string{"countdown is zero, not started"}, nil
		}
		e.Screen.SetMode(display.KindCountdown)
		if !e.Countdown.Enabled() {
			_ = e.Countdown.Start()
		}
		return []string{"countdown running " + e.Countdown.String()}, nil
	}
	return nil, badSubject(args[0])
}

func enable(e *Env, args []string) ([]string, error) {
	switch args[0] {
	case "alarm":
		e.Alarm.Enabled = true
		return []string{"alarm enabled " + e.Alarm.TimeString()}, nil
	case "cdown":
		switch err := e.Countdown.Start(); {
		case errors.Is(err, clock.ErrRunning):
			return []string{"countdown already running"}, nil
		case errors.Is(err, clock.ErrZero):
			return []string{"countdown is zero, not started"}, nil
		}
		return []string{"countdown started " + e.Countdown.String()}, nil
	}
	return nil, badSubject(args[0])
}

func disable(e *Env, args []string) ([]string, error) {
	switch args[0] {
	case "alarm":
		e.Alarm.Enabled = false
		return []string{"alarm disabled"}, nil
	case "cdown":
		e.Countdown.Stop()
		return []string{"countdown stopped " + e.Countdown.String()}, nil
	}
	return nil, badSubject(args[0])
}
