// Package session drives the page sessions that load and render match-history pages.
//
// A Session navigates to a URL, waits for an element to appear and exposes the rendered DOM as a
// goquery document. Two engines are provided: "chrome", which renders pages in a headless Chrome
// through chromedp, and "http", which fetches static HTML or reads saved pages from disk.
// Extraction functions never talk to the engine directly, they receive a goquery selection.
package session
