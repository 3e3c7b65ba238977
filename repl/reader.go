package repl

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/peterh/liner"
)

// Run drives an interactive liner-backed console loop against env until the
// user quits or aborts the prompt (Ctrl-D/Ctrl-C). historySize bounds how
// many prior commands are kept and re-offered to liner for recall.
func Run(env *Env, historySize int) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		return completeCommand(partial)
	})

	var history []string

	for {
		command, err := line.Prompt("rv64sim> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			slog.Error("error reading line", "error", err)
			return
		}

		history = append(history, command)
		if historySize > 0 && len(history) > historySize {
			history = history[len(history)-historySize:]
			line.ClearHistory()
			for _, h := range history {
				line.AppendHistory(h)
			}
		} else {
			line.AppendHistory(command)
		}

		quit, err := Dispatch(command, env)
		if err != nil {
			fmt.Fprintln(env.Out, "Error: "+err.Error())
		}
		if quit {
			return
		}
	}
}

// completeCommand lists command names partial could still expand to, for
// liner's tab-completion.
func completeCommand(partial string) []string {
	var names []string
	for _, c := range cmdTable {
		if len(partial) <= len(c.name) && c.name[:len(partial)] == partial {
			names = append(names, c.name)
		}
	}
	return names
}
