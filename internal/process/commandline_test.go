// SPDX-License-Identifier: MPL-2.0

package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		env      map[string]string
		wantPath string
		wantArgs []string
		wantErr  bool
	}{
		{name: "single word", line: "docker", wantPath: "docker", wantArgs: []string{}},
		{name: "plain arguments", line: "docker images -a", wantPath: "docker", wantArgs: []string{"images", "-a"}},
		{name: "double quotes", line: `echo "a b" c`, wantPath: "echo", wantArgs: []string{"a b", "c"}},
		{name: "single quotes keep dollar", line: `echo '$HOME'`, wantPath: "echo", wantArgs: []string{"$HOME"}},
		{name: "escaped space", line: `ls my\ dir`, wantPath: "ls", wantArgs: []string{"my dir"}},
		{name: "variable from env", line: "echo $TARGET", env: map[string]string{"TARGET": "x"}, wantPath: "echo", wantArgs: []string{"x"}},
		{name: "extra whitespace", line: "  git   status  ", wantPath: "git", wantArgs: []string{"status"}},
		{name: "unterminated quote", line: `echo "oops`, wantErr: true},
		{name: "empty", line: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path, args, err := ParseCommandLine(tt.line, tt.env)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestParseCommandLine_SyntaxErrorWrapsSentinel(t *testing.T) {
	t.Parallel()

	_, _, err := ParseCommandLine(`grep 'unclosed`, nil)
	require.ErrorIs(t, err, ErrInvalidCommandLine)

	_, _, err = ParseCommandLine("   ", nil)
	require.ErrorIs(t, err, ErrEmptyCommand)
}
