package osint

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarth-shah20/darp/internal/config"
)

// Markers delimiting darp's block in a shell rc file.
const (
	RCStartMarker = "# >>> darp completion start >>>"
	RCEndMarker   = "# <<< darp completion end <<<"
)

// Shell is a shell darp can install completions for.
type Shell string

const (
	Bash Shell = "bash"
	Zsh  Shell = "zsh"
	Fish Shell = "fish"
)

// DetectShell guesses the user's shell from a $SHELL value.
func DetectShell(shellPath string) (Shell, bool) {
	switch {
	case strings.HasSuffix(shellPath, "zsh"):
		return Zsh, true
	case strings.HasSuffix(shellPath, "bash"):
		return Bash, true
	case strings.HasSuffix(shellPath, "fish"):
		return Fish, true
	}
	return "", false
}

// CompletionTarget says where a shell's completion script and rc hook live.
type CompletionTarget struct {
	Script string
	RCFile string // empty when the shell autoloads Script
	RCBody string
}

// Target returns the completion locations for sh below home.
func (sh Shell) Target(home string) CompletionTarget {
	switch sh {
	case Bash:
		return CompletionTarget{
			Script: filepath.Join(home, ".local/share/bash-completion/completions/darp"),
			RCFile: filepath.Join(home, ".bashrc"),
			RCBody: `if command -v darp >/dev/null 2>&1; then
  source "${XDG_DATA_HOME:-$HOME/.local/share}/bash-completion/completions/darp"
fi`,
		}
	case Zsh:
		return CompletionTarget{
			Script: filepath.Join(home, ".zfunc/_darp"),
			RCFile: filepath.Join(home, ".zshrc"),
			RCBody: `if command -v darp >/dev/null 2>&1; then
  fpath+=("$HOME/.zfunc")
  autoload -Uz compinit
  compinit
fi`,
		}
	case Fish:
		return CompletionTarget{Script: filepath.Join(home, ".config/fish/completions/darp.fish")}
	}
	return CompletionTarget{}
}

// InstallCompletion writes the script produced by gen and hooks it into the rc file.
func InstallCompletion(t CompletionTarget, gen func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(t.Script), 0o755); err != nil {
		return config.IOError("completion", t.Script, err, "creating %s", filepath.Dir(t.Script))
	}
	f, err := os.Create(t.Script)
	if err != nil {
		return config.IOError("completion", t.Script, err, "creating %s", t.Script)
	}
	if err := gen(f); err != nil {
		f.Close()
		return config.IOError("completion", t.Script, err, "generating completions")
	}
	if err := f.Close(); err != nil {
		return config.IOError("completion", t.Script, err, "writing %s", t.Script)
	}
	if t.RCFile == "" {
		return nil
	}
	return EnsureRCBlock(t.RCFile, t.RCBody)
}

// UninstallCompletion removes the script and the rc block.
func UninstallCompletion(t CompletionTarget) error {
	if err := os.Remove(t.Script); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.IOError("completion", t.Script, err, "removing %s", t.Script)
	}
	if t.RCFile == "" {
		return nil
	}
	return RemoveRCBlock(t.RCFile)
}

// EnsureRCBlock appends body between the darp markers unless a block exists.
func EnsureRCBlock(rcPath, body string) error {
	data, err := os.ReadFile(rcPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.IOError("rc", rcPath, err, "reading %s", rcPath)
	}
	contents := string(data)
	if strings.Contains(contents, RCStartMarker) {
		return nil
	}

	var b strings.Builder
	b.WriteString(contents)
	if contents != "" && !strings.HasSuffix(contents, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(RCStartMarker + "\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(RCEndMarker + "\n")

	return config.WriteFileAtomic(rcPath, []byte(b.String()))
}

// RemoveRCBlock deletes darp's block. A missing file or block is not an error.
func RemoveRCBlock(rcPath string) error {
	data, err := os.ReadFile(rcPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return config.IOError("rc", rcPath, err, "reading %s", rcPath)
	}
	contents := string(data)

	start := strings.Index(contents, RCStartMarker)
	if start < 0 {
		return nil
	}
	end := len(contents)
	if e := strings.Index(contents[start:], RCEndMarker); e >= 0 {
		end = start + e + len(RCEndMarker)
	}

	var b strings.Builder
	head := strings.TrimRight(contents[:start], "\n")
	if head != "" {
		b.WriteString(head + "\n")
	}
	if tail := strings.TrimLeft(contents[end:], "\n"); tail != "" {
		if head != "" {
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimRight(tail, "\n") + "\n")
	}
	return config.WriteFileAtomic(rcPath, []byte(b.String()))
}
