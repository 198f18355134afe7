package postmortem

// tracerPid extracts the TracerPid field from a /proc/<pid>/status image.
// It returns 0 when the field is absent or malformed.
func tracerPid(status []byte) int {
	const key = "TracerPid:"
	for i := 0; i+len(key) <= len(status); {
		if string(status[i:i+len(key)]) == key {
			j := i + len(key)
			for j < len(status) && (status[j] == ' ' || status[j] == '\t') {
				j++
			}
			pid := 0
			for ; j < len(status) && status[j] >= '0' && status[j] <= '9'; j++ {
				pid = pid*10 + int(status[j]-'0')
			}
			return pid
		}
		// Advance to the next line.
		for i < len(status) && status[i] != '\n' {
			i++
		}
		i++
	}
	return 0
}
