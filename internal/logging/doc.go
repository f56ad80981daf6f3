// Package logging provides leveled logging for the photo-gallery
// application on top of the standard library log package.
//
// The level is chosen once from the environment: DEBUG=true forces the
// debug level, otherwise LOG_LEVEL selects debug/info/warn/error
// (default info). When LOG_FILE is set, output is duplicated to a
// size-rotated log file.
package logging
