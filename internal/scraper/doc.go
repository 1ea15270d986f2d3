// Package scraper extracts match facts from a rendered match-history page.
//
// The scraper package reads timeline markers, player nameplates and the game date header from a
// goquery snapshot of the page. Every extractor is a pure function over a selection, so it can run
// against a document produced by a headless browser, a plain HTTP fetch, or a saved file.
package scraper
