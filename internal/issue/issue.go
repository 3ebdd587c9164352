// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	ExecutableNotFoundId Id = iota + 1
	WorkingDirectoryNotFoundId
	InvalidCommandLineId
	ProcessFailedId
	ProcessCancelledId
	ContainerEngineNotFoundId
	ImageNotFoundId
	ConfigLoadFailedId
	PermissionDeniedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // documentation for this issue type
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown using the given glamour
// style ("auto", "dark", "light", "notty" or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	executableNotFoundIssue = &Issue{
		id: ExecutableNotFoundId,
		mdMsg: `
# Executable not found

The program could not be started because it was not found.

## Things you can try
- Check the spelling of the command.
- Use an absolute path, or make sure the program's directory is on your ` + "`PATH`" + `:
~~~
$ command -v <program>
~~~`,
	}

	workingDirectoryNotFoundIssue = &Issue{
		id: WorkingDirectoryNotFoundId,
		mdMsg: `
# Working directory not found

The directory passed with ` + "`--dir`" + ` does not exist or is not a directory.

## Things you can try
- Create the directory first, or pass an existing one.
- Relative paths are resolved from the current directory.`,
	}

	invalidCommandLineIssue = &Issue{
		id: InvalidCommandLineId,
		mdMsg: `
# Invalid command line

The command line could not be split into words. It is parsed with POSIX shell
quoting rules, but no shell is run.

## Things you can try
- Close every single or double quote.
- Command substitution (` + "`$(...)`" + `) and pipes are not supported; run a shell explicitly:
~~~
$ procline run -- sh -c 'ls | wc -l'
~~~`,
	}

	processFailedIssue = &Issue{
		id: ProcessFailedId,
		mdMsg: `
# The process failed

A process fails when its exit code is not in the acceptable set (default ` + "`{0}`" + `)
**or** when it writes anything to standard error.

## Things you can try
- Accept additional exit codes:
~~~
$ procline run --ok-exit-code 0 --ok-exit-code 1 -- grep foo file.txt
~~~
- Keep stderr as data instead of failing:
~~~
$ procline run --dual -- <command>
~~~
- Set ` + "`acceptable_exit_codes`" + ` in your config file to change the default.`,
	}

	processCancelledIssue = &Issue{
		id: ProcessCancelledId,
		mdMsg: `
# The process was cancelled

The process was killed before it finished, either by an interrupt or because
the ` + "`--timeout`" + ` elapsed.

## Things you can try
- Increase ` + "`--timeout`" + `, or set ` + "`timeout`" + ` in your config file.`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found

Neither Docker nor Podman could be reached.

## Things you can try
- Install Docker or Podman.
- Start the Docker daemon, or the Podman socket for rootless setups:
~~~
$ systemctl --user start podman.socket
~~~
- Select an engine explicitly with ` + "`--engine`" + ` or ` + "`container_engine`" + ` in your config file.`,
		extLinks: []HttpLink{
			"https://docs.docker.com/get-docker/",
			"https://podman.io/docs/installation",
		},
	}

	imageNotFoundIssue = &Issue{
		id: ImageNotFoundId,
		mdMsg: `
# Image not found

The engine does not know the image you asked to remove.

## Things you can try
- List local images, optionally filtered:
~~~
$ procline images --filter 'debian*'
~~~
- Use the full ` + "`repository:tag`" + ` reference or the image ID.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

Your configuration file could not be loaded or does not match the schema.

## Things you can try
- Print the effective configuration:
~~~
$ procline config show
~~~
- Recreate a default configuration file:
~~~
$ procline config init
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied

The program exists but could not be executed.

## Things you can try
- Make the file executable:
~~~
$ chmod +x <program>
~~~
- For container commands, make sure your user may access the engine socket.`,
	}

	issues = map[Id]*Issue{
		executableNotFoundIssue.Id():       executableNotFoundIssue,
		workingDirectoryNotFoundIssue.Id(): workingDirectoryNotFoundIssue,
		invalidCommandLineIssue.Id():       invalidCommandLineIssue,
		processFailedIssue.Id():            processFailedIssue,
		processCancelledIssue.Id():         processCancelledIssue,
		containerEngineNotFoundIssue.Id():  containerEngineNotFoundIssue,
		imageNotFoundIssue.Id():            imageNotFoundIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		permissionDeniedIssue.Id():         permissionDeniedIssue,
	}
)

// Values returns every catalogued issue ordered by id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id - b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
