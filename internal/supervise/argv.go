package supervise

// MaxArgs is the argv buffer size reporting code reserves, terminating slot
// included, so templates may hold at most MaxArgs-1 entries.
const MaxArgs = 64

// CmdToken in a template is replaced by the command path itself, which lets
// a template wrap the command (for example "sh", "-c", ...).
const CmdToken = "$cmd"

// Substitution replaces a template argument equal to Token with Value.
type Substitution struct {
	Token string
	Value string
}

// BuildArgv copies template into dst, replacing every argument equal to
// CmdToken with command and every argument equal to a substitution token with
// its value. Matching is whole-argument: "$pidx" is not "$pid".
//
// It fails closed, returning nil and false, when command is empty, template is
// empty, or template has more than maxArgs-1 entries (or does not fit dst).
// It does not allocate.
func BuildArgv(dst []string, maxArgs int, command string, template []string, subs ...Substitution) ([]string, bool) {
	if command == "" || len(template) == 0 {
		return nil, false
	}
	if maxArgs > len(dst)+1 {
		maxArgs = len(dst) + 1
	}
	if len(template) > maxArgs-1 {
		return nil, false
	}

	for i, arg := range template {
		dst[i] = substitute(arg, command, subs)
	}
	return dst[:len(template)], true
}

func substitute(arg, command string, subs []Substitution) string {
	if arg == CmdToken {
		return command
	}
	for _, s := range subs {
		if arg == s.Token {
			return s.Value
		}
	}
	return arg
}
