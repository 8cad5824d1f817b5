package schema

import "regexp"

// Generated statements interpolate table and column names as literal
// text, so names are restricted to the grammar every supported engine
// treats as a plain identifier. The length cap leaves room for the
// longest generated prefix (insert_split_result_<kind>_) inside the
// 128-byte limits of current engine versions.
const identPattern = `^[A-Za-z_][A-Za-z0-9_]*$`

const maxIdentLen = 64

var identRe = regexp.MustCompile(identPattern)

// ValidateIdentifier rejects any name outside the safe identifier
// grammar. There is no escaping fallback: a name that needs quoting to
// be safe is refused outright.
func ValidateIdentifier(name string) error {
	if name == "" || len(name) > maxIdentLen || !identRe.MatchString(name) {
		return &IdentifierError{Name: name}
	}
	return nil
}
