package deploy

import "strings"

// Sentinel lines bounding darp's block in the system hosts file.
const (
	HostsBlockStart = "# --- DARP HOSTS START ---"
	HostsBlockEnd   = "# --- DARP HOSTS END ---"
)

// RewriteHostsBlock replaces the darp block in current with lines, appending a
// new block when none exists. Content outside the markers keeps its place.
func RewriteHostsBlock(current string, lines []string) string {
	current = strings.ReplaceAll(current, "\r\n", "\n")

	before, after := current, ""
	if s := strings.Index(current, HostsBlockStart); s >= 0 {
		before = current[:s]
		if e := strings.Index(current[s:], HostsBlockEnd); e >= 0 {
			after = current[s+e+len(HostsBlockEnd):]
		}
	}
	before = strings.TrimRight(before, "\n")
	after = strings.Trim(after, "\n")

	var b strings.Builder
	if before != "" {
		b.WriteString(before)
		b.WriteString("\n\n")
	}
	b.WriteString(HostsBlockStart + "\n")
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
	b.WriteString(HostsBlockEnd + "\n")
	if after != "" {
		b.WriteString("\n" + after + "\n")
	}
	return b.String()
}
