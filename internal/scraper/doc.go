// Package scraper mirrors the application workbooks published on a CTCAC
// index page.
//
// The index is plain HTML, so links are read with goquery rather than a
// browser. Every request waits on a shared rate limiter. Workbooks already
// present in the download directory are skipped, which makes a rerun pick
// up only what failed or was newly posted. Files are written through
// files.Manager, so an interrupted download never leaves a partial
// workbook behind.
package scraper
