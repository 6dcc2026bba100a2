// Package template implements reusable campaign content: CRUD plus a
// Liquid-based preview renderer for authors to test personalization before
// a template is copied into a campaign.
package template
