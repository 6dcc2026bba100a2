// Package mailing implements the campaign send pipeline: recipient
// resolution, content composition, SMTP delivery through a bounded worker
// pool, and per-recipient event recording. The dispatcher owns all
// campaign status transitions past draft/scheduled.
package mailing
