// internal/ids/doc.go

/*
Package ids provides distinct identifier types for blueprints, steps and runs.

Every identifier is validated once, at the parse boundary, and then carried as
its own named type so that a step id can never be passed where a run id is
expected. The canonical format is a non-empty token of letters, digits and the
separators `_`, `.`, `:` and `-`, starting with a letter or digit.
*/
package ids
