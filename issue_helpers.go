package edikit

import "github.com/reoring/edikit/i18n"

// IssueAt creates an Issue at the given path with a localized message.
// expected is embedded into messages that mention it and kept on the Issue.
func IssueAt(p PathRef, code, expected string) Issue {
	it := p.Issue(code, i18n.T(code, map[string]string{"expected": expected}))
	it.Expected = expected
	return it
}

// singleIssue wraps one issue into Issues; the engines are fail-fast so a
// parse or format error always carries exactly one issue.
func singleIssue(it Issue) Issues { return Issues{it} }
