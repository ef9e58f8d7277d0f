// Package files finds application workbooks on disk and stores downloaded
// ones.
//
// Discovery lists .xlsx, .xlsm and .xls files in a directory, sorted by
// name, skipping the "~$" lock files Excel creates. Manager writes files
// into one directory atomically so interrupted downloads leave nothing
// behind.
package files
