package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType names the decision being logged.
	FieldDecisionType = "decision_type"
	// FieldDecisionSource records which path produced a result (upstream, fallback).
	FieldDecisionSource = "decision_source"
	// FieldEpisodeKey is the standardized structured logging key for episode keys (e.g. 03).
	FieldEpisodeKey = "episode_key"
	// FieldEpisodeCount is the standardized structured logging key for total episodes in a batch.
	FieldEpisodeCount = "episode_count"
	// FieldRunID identifies a persisted match run.
	FieldRunID = "run_id"
	// FieldPolicy records the alignment policy in use.
	FieldPolicy = "policy"
)
