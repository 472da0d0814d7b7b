package sh

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rfsend/pkg/radio"
	"github.com/robotalks/rfsend/pkg/rfd"
	"github.com/robotalks/rfsend/pkg/switches"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	// RemoteURL sends through an rfd daemon instead of local GPIO.
	RemoteURL string
	// SwitchesFile is the YAML book of named switches.
	SwitchesFile string

	Shell  *ishell.Shell
	Config *radio.Config

	// Out receives command output in place of the shell when set.
	Out io.Writer
	// Ask answers prompts in place of reading the shell when set.
	Ask func(prompt string) string
	// Context is the parent of command contexts.
	Context context.Context

	sender radio.Sender
	book   switches.Book
	failed bool
}

const (
	shellKey = "$shell"
	prompt   = "rfsend > "

	// DefaultCmd runs when the first argument isn't a command.
	DefaultCmd = "send"
)

var (
	// flags

	evalOnly     bool
	outputJSON   bool
	remoteURL    = os.Getenv("RFSEND_REMOTE")
	switchesFile = os.Getenv("RFSEND_SWITCHES")

	// commands
	commands []*ishell.Cmd

	// ErrFailed is returned by Run when a command reported an error.
	ErrFailed = errors.New("command failed")
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.StringVar(&switchesFile, "switches", switchesFile, "YAML file naming the on and off codes of switches.")
	flag.StringVar(&remoteURL, "remote", remoteURL, "Send through rfd: tcp://host:port, ws://host:port/ws or mqtt://host:port/prefix?id=ID.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *radio.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		RemoteURL:   remoteURL,

		SwitchesFile: switchesFile,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Fail reports err and marks the shell failed.
func Fail(c *ishell.Context, err error) {
	s := ShellFrom(c)
	s.failed = true
	if s.Out != nil {
		fmt.Fprintln(s.Out, "Error:", err)
		return
	}
	c.Err(err)
}

// Printf prints to Out or the shell.
func Printf(c *ishell.Context, format string, args ...interface{}) {
	if out := ShellFrom(c).Out; out != nil {
		fmt.Fprintf(out, format, args...)
		return
	}
	c.Printf(format, args...)
}

// Println prints a line to Out or the shell.
func Println(c *ishell.Context, args ...interface{}) {
	if out := ShellFrom(c).Out; out != nil {
		fmt.Fprintln(out, args...)
		return
	}
	c.Println(args...)
}

// Prompt asks the user with prompt and returns the answer line.
func Prompt(c *ishell.Context, prompt string) string {
	if ask := ShellFrom(c).Ask; ask != nil {
		return ask(prompt)
	}
	c.Print(prompt)
	return c.ReadLine()
}

// Background returns Context or context.Background.
func (s *Shell) Background() context.Context {
	if s.Context != nil {
		return s.Context
	}
	return context.Background()
}

// UseSender makes commands send through sender.
func (s *Shell) UseSender(sender radio.Sender) *Shell {
	s.sender = sender
	return s
}

// Output prints v as JSON when requested, otherwise calls text.
func Output(c *ishell.Context, v interface{}, text func()) {
	if !ShellFrom(c).OutputJSON {
		text()
		return
	}
	out, err := json.Marshal(v)
	if err != nil {
		Fail(c, err)
		return
	}
	Println(c, string(out))
}

// Sender returns the local transmitter or the remote daemon.
func (s *Shell) Sender(ctx context.Context) (radio.Sender, error) {
	if s.sender != nil {
		return s.sender, nil
	}
	var err error
	if s.RemoteURL != "" {
		s.sender, err = rfd.Dial(ctx, s.RemoteURL)
	} else {
		s.sender, err = s.Config.NewTransmitter()
	}
	if err != nil {
		s.sender = nil
	}
	return s.sender, err
}

// Switches loads the book of named switches.
func (s *Shell) Switches() (switches.Book, error) {
	if s.book != nil {
		return s.book, nil
	}
	if s.SwitchesFile == "" {
		return nil, fmt.Errorf("no switches file, use -switches")
	}
	book, err := switches.Load(s.SwitchesFile)
	if err != nil {
		return nil, err
	}
	s.book = book
	return book, nil
}

// ResolveArgs prefixes DefaultCmd unless args start with a command name.
func ResolveArgs(args []string, names ...string) []string {
	if len(args) == 0 {
		return args
	}
	for _, name := range names {
		if args[0] == name {
			return args
		}
	}
	return append([]string{DefaultCmd}, args...)
}

func (s *Shell) commandNames() []string {
	names := []string{"help", "exit", "clear"}
	for _, cmd := range commands {
		names = append(names, cmd.Name)
		names = append(names, cmd.Aliases...)
	}
	return names
}

// Run runs the shell. It returns ErrFailed if a command failed.
func (s *Shell) Run(args ...string) error {
	if len(args) > 0 {
		if err := s.Shell.Process(ResolveArgs(args, s.commandNames()...)...); err != nil {
			return err
		}
	} else if s.Interactive {
		s.Shell.Run()
	} else {
		return fmt.Errorf("command expected")
	}
	if s.failed {
		return ErrFailed
	}
	return nil
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	if err := New(radio.NewConfig()).Run(flag.Args()...); err != nil {
		if err != ErrFailed {
			log.Println(err)
		}
		os.Exit(1)
	}
}
