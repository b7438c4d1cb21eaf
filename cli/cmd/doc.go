// Package cmd provides the check and fmt subcommands for evaluating and
// formatting requirement expression files.
package cmd
