package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// choiceValue is a string flag restricted to a fixed set of values.
type choiceValue struct {
	value   string
	choices []string
}

var _ pflag.Value = (*choiceValue)(nil)

func newChoice(def string, choices ...string) *choiceValue {
	return &choiceValue{value: def, choices: choices}
}

func (c *choiceValue) String() string { return c.value }

func (c *choiceValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(c.choices, s) {
		return fmt.Errorf("must be one of %s", strings.Join(c.choices, ", "))
	}
	c.value = s
	return nil
}

func (c *choiceValue) Type() string { return "string" }

// choiceFlag registers a choiceValue on fs.
func choiceFlag(fs *pflag.FlagSet, name, def, usage string, choices ...string) *choiceValue {
	v := newChoice(def, choices...)
	fs.Var(v, name, fmt.Sprintf("%s (%s)", usage, strings.Join(choices, ", ")))
	return v
}
