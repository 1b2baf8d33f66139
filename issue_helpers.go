package gokata

import "github.com/reoring/gokata/i18n"

// issueAt creates an Issue at the given path, resolving the message through the
// current translator. data feeds both the message template and Params.
func issueAt(path, code string, data map[string]string) Issue {
	return Issue{Path: path, Code: code, Message: i18n.T(code, data), Offset: -1, Params: data}
}

// ruleIssue is issueAt with the failing constraint recorded.
func ruleIssue(path, code, rule string, data map[string]string) Issue {
	is := issueAt(path, code, data)
	is.Rule = rule
	return is
}

// structuralIssue creates a fatal parse-level Issue carrying a byte offset.
func structuralIssue(path, code string, offset int64, detail string, cause error) Issue {
	var data map[string]string
	if detail != "" {
		data = map[string]string{"detail": detail}
	}
	is := issueAt(path, code, data)
	is.Offset = offset
	is.Cause = cause
	return is
}
