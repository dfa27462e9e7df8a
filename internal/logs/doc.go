// Package logs reads the JSON log file written alongside console output.
//
// It tails the file with bounded memory usage, supports negative offsets for
// "last N lines" reads and follow mode for `trackmatch logs --follow`, and
// narrows records to one batch run or one track through Filter. Run ids may
// be given as the 8-character prefix shown in console output.
package logs
