package asyncsafe

import "os"

// StderrFD is the descriptor of the narrow error channel, resolved at init so
// reporting code never touches *os.File.
var StderrFD = int(os.Stderr.Fd())
