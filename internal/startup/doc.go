// Package startup loads photo-gallery configuration from the
// environment (with optional .env file support), prepares the uploads
// directory, and provides startup/shutdown logging helpers.
package startup
