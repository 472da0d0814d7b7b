// Package rfsend provides the shell commands of rfsend.
package rfsend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rfsend/pkg/cli/sh"
	"github.com/robotalks/rfsend/pkg/rf"
	"github.com/robotalks/rfsend/pkg/sched"
)

// UsageCodes is the correction printed for arguments which are not codes.
const UsageCodes = "all arguments should be codes unless called with 'test'"

// SendOutput is the result of the send command.
type SendOutput struct {
	Codes     []rf.Code `json:"codes"`
	Elevation string    `json:"elevation"`
}

// SniffOutput is a decoded code.
type SniffOutput struct {
	Decimal     rf.Code `json:"decimal"`
	BitLength   int     `json:"bit-length"`
	PulseLength int     `json:"pulse-length"`
	Binary      string  `json:"binary"`
}

// SniffOutputFrom converts a received code.
func SniffOutputFrom(rcv rf.Received) SniffOutput {
	return SniffOutput{
		Decimal:     rcv.Code,
		BitLength:   rcv.BitLength,
		PulseLength: int(rcv.PulseLength / time.Microsecond),
		Binary:      rcv.Code.Binary(rcv.BitLength),
	}
}

// String formats as the classic sniffer does.
func (o SniffOutput) String() string {
	return fmt.Sprintf("Decimal: %d\nBit length: %d\nPulse length: %d\nBinary: %s",
		o.Decimal, o.BitLength, o.PulseLength, o.Binary)
}

func send(c *ishell.Context, codes []rf.Code) {
	s := sh.ShellFrom(c)
	sender, err := s.Sender(s.Background())
	if err != nil {
		sh.Fail(c, err)
		return
	}
	elevation, err := sender.Send(s.Config.Request(codes...))
	if err != nil {
		sh.Fail(c, err)
		return
	}
	out := SendOutput{Codes: codes, Elevation: elevation.String()}
	sh.Output(c, &out, func() {
		if elevation != sched.Elevated {
			sh.Printf(c, "sent (%s)\n", elevation)
		}
	})
}

// printer adapts the shell output to io.Writer.
type printer struct {
	c *ishell.Context
}

func (p printer) Write(b []byte) (int, error) {
	sh.Printf(p.c, "%s", b)
	return len(b), nil
}

// interruptible returns a context canceled by SIGINT or SIGTERM.
func interruptible(s *sh.Shell) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(s.Background(), os.Interrupt, syscall.SIGTERM)
}

var (
	// SwitchCmd sends the codes of a named switch.
	SwitchCmd = ishell.Cmd{
		Name:    "switch",
		Aliases: []string{"sw"},
		Help:    "NAME on|off",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				sh.Fail(c, errors.New("NAME and on|off required"))
				return
			}
			s := sh.ShellFrom(c)
			book, err := s.Switches()
			if err != nil {
				sh.Fail(c, err)
				return
			}
			codes, err := book.Codes(c.Args[0], c.Args[1])
			if err != nil {
				sh.Fail(c, err)
				return
			}
			send(c, codes)
		},
	}

	// SwitchesCmd lists named switches.
	SwitchesCmd = ishell.Cmd{
		Name: "switches",
		Help: "list named switches",
		Func: func(c *ishell.Context) {
			book, err := sh.ShellFrom(c).Switches()
			if err != nil {
				sh.Fail(c, err)
				return
			}
			sh.Output(c, book, func() {
				for _, name := range book.Names() {
					sh.Printf(c, "%s\ton: %v\toff: %v\n", name, book[name].On, book[name].Off)
				}
			})
		},
	}

	// SendCmd sends codes once.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "CODE [CODE...]",
		Func: func(c *ishell.Context) {
			codes, err := rf.ParseCodes(c.Args)
			if err == nil && len(codes) == 0 {
				err = errors.New("CODE required")
			}
			if err != nil {
				sh.Fail(c, errors.New(UsageCodes))
				return
			}
			send(c, codes)
		},
	}

	// TestCmd toggles codes on and off to measure reliability.
	TestCmd = ishell.Cmd{
		Name: "test",
		Help: "toggle on and off codes until interrupted",
		Func: func(c *ishell.Context) {
			c.ShowPrompt(false)
			defer c.ShowPrompt(true)
			plan, err := AskTestPlan(func(prompt string) string {
				return sh.Prompt(c, prompt)
			})
			if err != nil {
				sh.Fail(c, err)
				return
			}
			s := sh.ShellFrom(c)
			ctx, cancel := interruptible(s)
			defer cancel()
			sender, err := s.Sender(ctx)
			if err != nil {
				sh.Fail(c, err)
				return
			}
			t := plan.Toggler(func(codes []rf.Code) error {
				_, err := sender.Send(s.Config.Request(codes...))
				return err
			})
			t.Out = printer{c}
			completed, err := t.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				sh.Fail(c, err)
			}
			if plan.Count == 0 || errors.Is(err, context.Canceled) {
				sh.Printf(c, "\nThat ran %d times.\n", completed)
			}
		},
	}

	// SniffCmd prints codes received.
	SniffCmd = ishell.Cmd{
		Name: "sniff",
		Help: "print received codes until interrupted",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			rcv, err := s.Config.NewReceiver()
			if err != nil {
				sh.Fail(c, err)
				return
			}
			ctx, cancel := interruptible(s)
			defer cancel()
			if !s.OutputJSON {
				sh.Printf(c, "Sniffing GPIO%d, press a button on the remote.\n\n", rcv.Pin)
			}
			err = rcv.Run(ctx, func(r rf.Received) {
				out := SniffOutputFrom(r)
				sh.Output(c, &out, func() { sh.Println(c, out.String()+"\n") })
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				sh.Fail(c, err)
			}
		},
	}

	// SchedCmd prints priority ranges of scheduling policies.
	SchedCmd = ishell.Cmd{
		Name: "sched",
		Help: "print min and max priority of scheduling policies",
		Func: func(c *ishell.Context) {
			ranges, err := sched.PriorityRanges(sched.Host())
			if err != nil {
				sh.Fail(c, err)
				return
			}
			sh.Output(c, ranges, func() {
				for _, r := range ranges {
					sh.Printf(c, "%s min: %d\tmax: %d\n", r.Policy, r.Min, r.Max)
				}
			})
		},
	}
)

func init() {
	sh.AddCmds(
		&SendCmd,
		&TestCmd,
		&SniffCmd,
		&SchedCmd,
		&SwitchCmd,
		&SwitchesCmd,
	)
}
