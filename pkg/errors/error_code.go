package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidThreshold     ErrorCode = 103
	ErrCodeInvalidSensitivity   ErrorCode = 104
	ErrCodeInvalidReserve       ErrorCode = 105

	// Indicator errors (200-299)
	ErrCodeIndicatorBuildFailed ErrorCode = 200

	// Pipeline errors (300-399)
	ErrCodePipelineBuildFailed ErrorCode = 300
	ErrCodeOutOfOrderBar       ErrorCode = 301
	ErrCodeMixedBatch          ErrorCode = 302

	// Portfolio errors (400-499)
	ErrCodeRotatorBuildFailed ErrorCode = 400

	// Schema errors (500-599)
	ErrCodeSchemaGeneration ErrorCode = 500
)
