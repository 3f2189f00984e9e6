package detailed

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/dplace/pkg/errors"
)

// DefaultScript is the pass sequence used when none is given.
const DefaultScript = "mis -p 10 -t 0.005; gs -p 10 -t 0.005; vs -p 10 -t 0.005; " +
	"ro -p 10 -t 0.005; default -p 5 -f 20 -gen rng -obj hpwl -cost (hpwl);"

// DisallowOneSiteGapsDirective forbids one-site gaps for the whole run.
const DisallowOneSiteGapsDirective = "disallow_one_site_gaps"

// DefaultScriptFor returns DefaultScript, with the one-site gap directive
// appended when disallow is set.
func DefaultScriptFor(disallow bool) string {
	if disallow {
		return DefaultScript + " " + DisallowOneSiteGapsDirective + ";"
	}
	return DefaultScript
}

// Pass names.
const (
	PassMIS     = "mis"
	PassGlobal  = "gs"
	PassVert    = "vs"
	PassReorder = "ro"
	PassRandom  = "default"
)

// Generators for the default pass.
const (
	GenRandom       = "rng"
	GenDisplacement = "disp"
)

// Objectives available to cost expressions.
const (
	ObjHPWL = "hpwl"
	ObjDisp = "disp"
)

// Command is one pass invocation.
type Command struct {
	Name       string
	Passes     int
	Tolerance  float64
	Moves      int
	Generator  string
	Objectives []string
	Cost       *Expr
}

// String renders c in script syntax.
func (c Command) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s -p %d -t %g", c.Name, c.Passes, c.Tolerance)
	if c.Name == PassRandom {
		fmt.Fprintf(&b, " -f %d -gen %s -obj %s -cost %s",
			c.Moves, c.Generator, strings.Join(c.Objectives, ","), c.Cost)
	}
	return b.String()
}

// Script is a parsed pass sequence plus its terminal directives.
type Script struct {
	Commands            []Command
	DisallowOneSiteGaps bool
}

var passFlags = map[string][]string{
	PassMIS:     {"-p", "-t"},
	PassGlobal:  {"-p", "-t"},
	PassVert:    {"-p", "-t"},
	PassReorder: {"-p", "-t"},
	PassRandom:  {"-p", "-t", "-f", "-gen", "-obj", "-cost"},
}

// ParseScript parses s. Errors are INVALID_SCRIPT with id 501 for an unknown
// command, 502 for an unknown flag and 503 for a missing or bad value.
func ParseScript(s string) (*Script, error) {
	sc := &Script{}
	for _, raw := range strings.Split(s, ";") {
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		if name == DisallowOneSiteGapsDirective {
			if len(fields) > 1 {
				return nil, errors.New(errors.ErrCodeInvalidScript, 502,
					"%s takes no flags, got %q", name, fields[1])
			}
			sc.DisallowOneSiteGaps = true
			continue
		}
		flags, ok := passFlags[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidScript, 501, "unknown command %q", name)
		}
		cmd, err := parseCommand(name, fields[1:], flags)
		if err != nil {
			return nil, err
		}
		sc.Commands = append(sc.Commands, cmd)
	}
	return sc, nil
}

func parseCommand(name string, args, flags []string) (Command, error) {
	cmd := Command{Name: name, Passes: 1}
	if name == PassRandom {
		cmd.Moves = 20
		cmd.Generator = GenRandom
	}
	bad := func(format string, a ...any) error {
		return errors.New(errors.ErrCodeInvalidScript, 503, "%s: "+format, append([]any{name}, a...)...)
	}

	var costSrc string
	for i := 0; i < len(args); i++ {
		flag := args[i]
		if !slices.Contains(flags, flag) {
			return cmd, errors.New(errors.ErrCodeInvalidScript, 502, "%s: unknown flag %q", name, flag)
		}
		if i+1 >= len(args) {
			return cmd, bad("missing value for %s", flag)
		}
		val := args[i+1]
		i++

		switch flag {
		case "-p", "-f":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return cmd, bad("%s wants a non-negative integer, got %q", flag, val)
			}
			if flag == "-p" {
				cmd.Passes = n
			} else {
				cmd.Moves = n
			}
		case "-t":
			v, err := strconv.ParseFloat(val, 64)
			if err != nil || v < 0 {
				return cmd, bad("-t wants a non-negative number, got %q", val)
			}
			cmd.Tolerance = v
		case "-gen":
			if val != GenRandom && val != GenDisplacement {
				return cmd, bad("unknown generator %q", val)
			}
			cmd.Generator = val
		case "-obj":
			for _, o := range strings.Split(val, ",") {
				if o != ObjHPWL && o != ObjDisp {
					return cmd, bad("unknown objective %q", o)
				}
				if !slices.Contains(cmd.Objectives, o) {
					cmd.Objectives = append(cmd.Objectives, o)
				}
			}
		case "-cost":
			// The expression runs to the next flag so it may contain spaces.
			parts := []string{val}
			for i+1 < len(args) && !slices.Contains(flags, args[i+1]) {
				parts = append(parts, args[i+1])
				i++
			}
			costSrc = strings.Join(parts, " ")
		}
	}

	if name != PassRandom {
		return cmd, nil
	}
	if len(cmd.Objectives) == 0 {
		cmd.Objectives = []string{ObjHPWL}
	}
	if costSrc == "" {
		costSrc = strings.Join(cmd.Objectives, " + ")
	}
	expr, err := ParseCost(costSrc)
	if err != nil {
		return cmd, bad("%v", err)
	}
	for _, v := range expr.Vars() {
		if !slices.Contains(cmd.Objectives, v) {
			return cmd, bad("cost uses %q which is not an objective", v)
		}
	}
	cmd.Cost = expr
	return cmd, nil
}
