package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPrompt(t *testing.T) {
	info := PromptInfo{
		User: "ada",
		Host: "engine",
		Home: "/home/ada",
		Dir:  "/home/ada/notes",
	}

	cases := map[string]struct {
		template string
		info     PromptInfo
		want     string
	}{
		"default": {
			info: info,
			want: "ada@engine:~/notes$ ",
		},
		"root": {
			template: `\w\$ `,
			info:     PromptInfo{Dir: "/etc", Root: true},
			want:     "/etc# ",
		},
		"home itself": {
			template: `[\w]`,
			info:     PromptInfo{Home: "/home/ada", Dir: "/home/ada"},
			want:     "[~]",
		},
		"sibling of home": {
			template: `\w`,
			info:     PromptInfo{Home: "/home/ada", Dir: "/home/adam"},
			want:     "/home/adam",
		},
		"no home": {
			template: `\w`,
			info:     PromptInfo{Dir: "/tmp"},
			want:     "/tmp",
		},
		"literal": {
			template: "pipesh> ",
			info:     info,
			want:     "pipesh> ",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.want, ExpandPrompt(tc.template, tc.info))
		})
	}
}
