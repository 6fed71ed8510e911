package auth

import (
	"regexp"
	"strings"
)

var (
	// groupIDPattern matches group ids that get a workspace: an uppercase
	// letter, four digits, an uppercase letter. Anything else (including
	// lowercase variants) is skipped entirely.
	groupIDPattern = regexp.MustCompile(`^[A-Z][0-9]{4}[A-Z]`)

	// remoteIDPattern matches an already resolved directory member id.
	remoteIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

	// contactAliasPattern collapses separator runs and the literal _gouw_
	// token when deriving a workspace contact alias from its title.
	contactAliasPattern = regexp.MustCompile(`((_gouw_)|[\$#@~!&*()\[\];.,:?^ ` + "`" + `'\\/ ])+`)
)

// ValidGroupID reports whether the group id gets a workspace.
func ValidGroupID(id string) bool {
	return groupIDPattern.MatchString(id)
}

// NormalizeGroupName turns a directory group name into a workspace title.
// Underscores become spaces. Names that are entirely uppercase or entirely
// lowercase are title-cased; mixed case names keep their casing as someone
// chose it on purpose.
func NormalizeGroupName(name string) string {
	name = strings.ReplaceAll(name, "_", " ")

	if name == strings.ToUpper(name) || name == strings.ToLower(name) {
		name = titleWords(strings.ToLower(name))
	}

	return name
}

// titleWords uppercases the first letter of every space separated word.
func titleWords(s string) string {
	out := []rune(s)
	up := true

	for i, r := range out {
		if up && r != ' ' {
			out[i] = []rune(strings.ToUpper(string(r)))[0]
		}

		up = r == ' '
	}

	return string(out)
}

// ContactAlias derives the workspace contact address from its title and
// group id at the given domain.
func ContactAlias(title, groupID, domain string) string {
	local := contactAliasPattern.ReplaceAllString(title, "_") + "_" + groupID

	return strings.ToLower(local) + "@" + domain
}
