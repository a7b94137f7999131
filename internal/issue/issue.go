// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	DescriptorParseErrorId
	PomParseErrorId
	FragmentParseErrorId
	WriteFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation for the file format involved
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue guide as terminal Markdown. stylePath is a glamour
// standard style name ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# Input file not found!

archrel was given a path that does not exist. Nothing was modified.

## Things you can try:
- Check the path passed on the command line (paths are relative to the working directory)
- Make sure the archetype was generated before this step runs:
~~~
$ mvn archetype:create-from-project
~~~
- The generated files usually live under:
  - target/generated-sources/archetype/pom.xml
  - target/generated-sources/archetype/src/main/resources/META-INF/maven/archetype-metadata.xml`,
	}

	descriptorParseErrorIssue = &Issue{
		id: DescriptorParseErrorId,
		mdMsg: `
# Failed to parse the archetype descriptor!

The archetype-metadata.xml file is not well-formed XML.

## Things you can try:
- Check the error message above for the offending line
- Regenerate the archetype and run the prune step again
- Validate the file with an XML linter:
~~~
$ xmllint --noout archetype-metadata.xml
~~~`,
		docLinks: []HttpLink{"https://maven.apache.org/archetype/archetype-models/archetype-descriptor/archetype-descriptor.html"},
	}

	pomParseErrorIssue = &Issue{
		id: PomParseErrorId,
		mdMsg: `
# Failed to parse the POM!

The generated pom.xml is not well-formed XML, so no fragment could be merged.

## Things you can try:
- Check the error message above for the offending line
- Validate the file:
~~~
$ xmllint --noout pom.xml
~~~`,
		docLinks: []HttpLink{"https://maven.apache.org/pom.html"},
	}

	fragmentParseErrorIssue = &Issue{
		id: FragmentParseErrorId,
		mdMsg: `
# Failed to parse the POM fragment!

The fragment file must be a single XML element whose children are POM sections.

## Example fragment:
~~~xml
<fragment>
  <name>My Archetype</name>
  <url>https://example.org</url>
  <scm>
    <url>https://github.com/example/archetype</url>
  </scm>
</fragment>
~~~`,
	}

	writeFailedIssue = &Issue{
		id: WriteFailedId,
		mdMsg: `
# Failed to write the result!

The transformation succeeded in memory but the file could not be replaced.

## Things you can try:
- Check that the directory is writable by the CI user
- Set ` + "`output: atomic: false`" + ` if the filesystem does not support renames into the target directory`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the archrel configuration file.

## Configuration file locations:
- Linux: ~/.config/archrel/config.cue
- macOS: ~/Library/Application Support/archrel/config.cue
- Windows: %APPDATA%\archrel\config.cue
- ./archrel.cue in the working directory

## Example configuration:
~~~cue
prune: {
  excluded_directories: [".github", ".idea", ".vscode", ".settings", "target"]
  exclude_patterns: ["**/node_modules"]
}
output: {
  indent: 0
  atomic: true
}
~~~`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():         fileNotFoundIssue,
		descriptorParseErrorIssue.Id(): descriptorParseErrorIssue,
		pomParseErrorIssue.Id():        pomParseErrorIssue,
		fragmentParseErrorIssue.Id():   fragmentParseErrorIssue,
		writeFailedIssue.Id():          writeFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
	}
)

// Values returns every registered issue ordered by id.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id - b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
