package shell

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultPrompt is used when no prompt template is configured.
const DefaultPrompt = `\u@\h:\w\$ `

// PromptInfo holds the values substituted into a prompt template.
type PromptInfo struct {
	User string
	Host string
	Home string
	Dir  string
	Root bool
}

// PromptInfo snapshots the values for the prompt from the process.
func (s *State) PromptInfo() PromptInfo {
	info := PromptInfo{
		User: os.Getenv("USER"),
		Root: os.Geteuid() == 0,
	}
	info.Host, _ = os.Hostname()
	info.Home, _ = os.UserHomeDir()
	info.Dir, _ = s.Getwd()
	return info
}

// ExpandPrompt replaces the escapes \u, \h, \w and \$ in template.
func ExpandPrompt(template string, info PromptInfo) string {
	if template == "" {
		template = DefaultPrompt
	}

	dir := info.Dir
	if home := info.Home; home != "" {
		if dir == home {
			dir = "~"
		} else if strings.HasPrefix(dir, home+string(filepath.Separator)) {
			dir = "~" + strings.TrimPrefix(dir, home)
		}
	}

	sigil := "$"
	if info.Root {
		sigil = "#"
	}

	return strings.NewReplacer(
		`\u`, info.User,
		`\h`, info.Host,
		`\w`, dir,
		`\$`, sigil,
	).Replace(template)
}
