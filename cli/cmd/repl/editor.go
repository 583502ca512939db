package repl

import (
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultEditor = "vi"

// editedMsg is sent when the editor opened by the edit command exits.
type editedMsg struct{ err error }

// editor returns the user's editor command line.
func editor() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}

	return []string{defaultEditor}
}

// editCmd suspends the program and opens path in the user's editor.
func editCmd(path string) tea.Cmd {
	argv := append(editor(), path)

	return tea.ExecProcess(exec.Command(argv[0], argv[1:]...), func(err error) tea.Msg { //nolint:gosec
		return editedMsg{err: err}
	})
}
