// Package services implements the driving ports.
//
//   - AnalysisService: extract, reconcile and rank stored transcripts
//   - EnrichService: search plus hosted-model enrichment of one query
//   - CaptureService: run a query across models and store the transcripts
//   - Scheduler: cron-driven re-analysis while serving
//
// Services only talk to infrastructure through driven ports, so every
// adapter here can be swapped for an in-memory fake in tests.
package services
