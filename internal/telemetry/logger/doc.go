// Package logger provides structured logging for keva on top of
// log/slog.
//
// Entries encode as JSON by default (text is available for terminals)
// and secret-bearing attribute values are masked before they reach the
// output, so passphrases and key material never land in log files.
// Components receive a Logger explicitly; Default covers the ones that
// were not handed one.
package logger
