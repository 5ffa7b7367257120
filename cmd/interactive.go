package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/golang/glog"

	"github.com/bisegni/sds/pkg/catalog"
	"github.com/bisegni/sds/pkg/engine"
	"github.com/bisegni/sds/pkg/journal"
	"github.com/bisegni/sds/pkg/script"
)

const replHelp = `Statements are applied to the current container and their change
events are printed as they are delivered.

  INSERT <value> AT <s>,<r>           REMOVE <s>,<r>
  REPLACE <value> AT <s>,<r> [RELOAD] REMOVE SECTION <s>
  INSERT SECTION [<values>] [AT <s>] [NAMED '<n>'] [TITLE '<t>']
  REPLACE SECTION <s> WITH [<values>] APPEND [<values>] TO <s>
  CLEAR  FIND <cond>  FILTER <cond>  FILTER OFF  SHOW

Commands:
  .open NAME FILE   load FILE as container NAME and switch to it
  .use NAME         switch container
  .list             list containers (* marks the current one)
  help              show this text
  exit, quit        leave`

// session is the REPL state: named containers, each with its executor.
type session struct {
	containers *catalog.Catalog[*engine.Executor]
	out        io.Writer
}

func newSession(out io.Writer) *session {
	return &session{containers: catalog.New[*engine.Executor](), out: out}
}

func (s *session) open(name, source string) error {
	a, _, err := loadContainer(source)
	if err != nil {
		return err
	}
	a.SetDelegate(journal.New(s.out, eventFormat()))
	e := engine.NewExecutor(a, s.out)
	e.HideIDs = true
	s.containers.Register(name, e)
	return s.containers.Use(name)
}

// handle processes one input line and reports whether the REPL should go on.
func (s *session) handle(line string) (bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true, nil
	}
	if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
		return false, nil
	}
	if strings.EqualFold(trimmed, "help") {
		fmt.Fprintln(s.out, replHelp)
		return true, nil
	}
	if strings.HasPrefix(trimmed, ".") {
		return true, s.meta(strings.Fields(trimmed))
	}

	_, e, ok := s.containers.Current()
	if !ok {
		return true, fmt.Errorf("no container open; use .open NAME FILE")
	}
	stmts, err := script.Parse(trimmed)
	if err != nil {
		return true, err
	}
	for _, st := range stmts {
		if err := e.Execute(st); err != nil {
			glog.Warningf("rejected: %s", st)
			return true, err
		}
	}
	return true, nil
}

func (s *session) meta(fields []string) error {
	switch fields[0] {
	case ".open":
		if len(fields) != 3 {
			return fmt.Errorf("usage: .open NAME FILE")
		}
		return s.open(fields[1], fields[2])
	case ".use":
		if len(fields) != 2 {
			return fmt.Errorf("usage: .use NAME")
		}
		return s.containers.Use(fields[1])
	case ".list":
		current, _, _ := s.containers.Current()
		for _, name := range s.containers.Names() {
			e, err := s.containers.Get(name)
			if err != nil {
				return err
			}
			mark := " "
			if name == current {
				mark = "*"
			}
			a := e.Array()
			fmt.Fprintf(s.out, "%s %s sections=%d rows=%d\n", mark, name, a.NumberOfSections(), len(a.FetchedObjects()))
		}
		return nil
	default:
		return fmt.Errorf("unknown command %s", fields[0])
	}
}

func (s *session) prompt() string {
	if name, _, ok := s.containers.Current(); ok {
		return name + "> "
	}
	return "> "
}

func RunInteractive(filename string) error {
	fmt.Println("Interactive mode enabled. Type 'help' for statements, 'exit' or 'quit' to leave.")

	s := newSession(os.Stdout)
	if filename != "" {
		fmt.Printf("Reading from file: %s\n", filename)
		if err := s.open("main", filename); err != nil {
			return err
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		more, err := s.handle(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if !more {
			break
		}
		rl.SetPrompt(s.prompt())
	}
	return nil
}
