// Package results extracts match summaries from match-history pages.
//
// A Getter opens one page session per match, navigates to the match URL, waits for the scoreboard
// to render, then reads the roster, the first objective and the game date from a single snapshot
// of the page. The session is closed on every exit path, including failures and cancellation.
package results
