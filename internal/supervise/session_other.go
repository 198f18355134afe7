//go:build !unix

package supervise

import (
	"os"

	"golang.org/x/term"
)

// HasControllingTerminal approximates the unix check with a terminal test on
// stdin; there is no session to detach from here.
func HasControllingTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
