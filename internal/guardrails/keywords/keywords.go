// Package keywords holds the lexical injection pre-filter shared by the
// hybrid client-side guard and the in-process prompt injection scanner.
package keywords

import "regexp"

// injectionPatterns are high-recall phrasings of instruction-override,
// jailbreak and system-prompt-reveal attempts. They deliberately
// over-match; a precision gate decides what happens on a hit.
var injectionPatterns = compile([]string{
	`\bignore\b.*\binstructions?\b`,
	`\bsystem\s*prompt\b`,
	`\byou\s*are\s*now\b`,
	`\bact\s*as\b.*\bno\s*restrict`,
	`\bjailbreak\b`,
	`\bDAN\b`,
	`\bbypass\b.*\b(filter|guard|safe|restrict)`,
	`\bpretend\b.*\b(evil|unrestrict|no\s*rules)`,
	`\bforget\b.*\b(rules|instructions|previous)`,
	`\bdisregard\b.*\b(previous|above|all)`,
	`\boverride\b.*\b(safe|policy|rules)`,
	`\bdo\s*anything\s*now\b`,
	`\brole\s*play\b.*\b(evil|hack|malicious)`,
	`\brepeat\b.*\bsystem\b`,
	`\breveal\b.*\b(prompt|instructions|config)`,
})

func compile(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return compiled
}

// MatchInjection returns the source patterns that match the text, in
// pattern order. An empty result means the pre-filter found nothing.
func MatchInjection(text string) []string {
	var matched []string
	for _, p := range injectionPatterns {
		if p.MatchString(text) {
			matched = append(matched, p.String())
		}
	}
	return matched
}
