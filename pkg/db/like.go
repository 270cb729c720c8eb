package db

import "strings"

// LikeEscape is the ESCAPE clause matching ContainsPattern.
const LikeEscape = `ESCAPE '\'`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns term into a LIKE pattern matching it anywhere, with the
// wildcards in term taken literally. Use it with LikeEscape.
func ContainsPattern(term string) string {
	return "%" + likeReplacer.Replace(term) + "%"
}
