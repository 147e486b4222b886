package markup

import "strings"

// Rule maps a line marker to the block it produces.
type Rule struct {
	Marker string
	Kind   BlockKind
	Level  int
}

// rules is evaluated top-down with early exit. "#" is a prefix of "##",
// "###" and "####", so the longest heading marker must come first.
var rules = []Rule{
	{Marker: "#### ", Kind: KindHeading, Level: 4},
	{Marker: "### ", Kind: KindHeading, Level: 3},
	{Marker: "## ", Kind: KindHeading, Level: 2},
	{Marker: "# ", Kind: KindHeading, Level: 1},
	{Marker: "- ", Kind: KindBullet},
}

// Rules returns a copy of the ordered classification table.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Classify returns the block kind for a trimmed line together with the
// remainder after its marker. Lines matching no rule are paragraphs and
// keep their full text.
func Classify(line string) (BlockKind, int, string) {
	for _, r := range rules {
		if strings.HasPrefix(line, r.Marker) {
			return r.Kind, r.Level, line[len(r.Marker):]
		}
	}
	return KindParagraph, 0, line
}
