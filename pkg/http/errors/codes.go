package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"
	ErrCodeInvalidSessionID = "invalid_session_id"

	// Resource errors
	ErrCodeNotFound         = "not_found"
	ErrCodeTopicNotFound    = "topic_not_found"
	ErrCodeExerciseNotFound = "exercise_not_found"
	ErrCodeSessionNotFound  = "session_not_found"

	// Interaction errors
	ErrCodeInvalidTransition  = "invalid_transition"
	ErrCodeIncompleteResponse = "incomplete_response"
	ErrCodeInvalidValue       = "invalid_value"
	ErrCodeNotGradeable       = "not_gradeable"
	ErrCodeNoAudio            = "no_audio"

	// Progress errors
	ErrCodeProgressFetchFailed = "progress_fetch_failed"
	ErrCodeResetFailed         = "reset_failed"
	ErrCodeExportFailed        = "export_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
