package rfsend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/rfsend/pkg/rf"
	"github.com/robotalks/rfsend/pkg/toggle"
)

// Prompts of the test command.
const (
	PromptOnCodes  = "What are the on codes? (blank for default) "
	PromptOffCodes = "What are the off codes? "
	PromptCount    = "How many times to toggle on and off? (Default: indefinitely) "
)

// TestPlan is what the test command toggles.
type TestPlan struct {
	On    []rf.Code
	Off   []rf.Code
	Count int
}

// AskTestPlan asks for codes and count. ask prints a prompt and returns
// the answer. Blank on codes select both default codes without asking for
// off codes.
func AskTestPlan(ask func(prompt string) string) (plan TestPlan, err error) {
	if answer := strings.TrimSpace(ask(PromptOnCodes)); answer == "" {
		plan.On = []rf.Code{toggle.DefaultOnCode}
		plan.Off = []rf.Code{toggle.DefaultOffCode}
	} else {
		if plan.On, err = rf.ParseCodeList(answer); err != nil {
			return
		}
		if plan.Off, err = rf.ParseCodeList(ask(PromptOffCodes)); err != nil {
			return
		}
		if len(plan.Off) == 0 {
			err = &rf.ArgumentError{Arg: "off codes", Reason: "at least one code is required"}
			return
		}
	}
	if answer := strings.TrimSpace(ask(PromptCount)); answer != "" {
		n, convErr := strconv.Atoi(answer)
		if convErr != nil || n <= 0 {
			err = &rf.ArgumentError{Arg: "count", Reason: fmt.Sprintf("%q is not a positive number", answer)}
			return
		}
		plan.Count = n
	}
	return
}

// Toggler creates the Toggler running the plan.
func (p TestPlan) Toggler(send toggle.SendFunc) *toggle.Toggler {
	t := toggle.New(p.On, p.Off, send)
	t.Count = p.Count
	return t
}
