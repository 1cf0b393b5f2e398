package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPosition      ErrorCode = 102
	ErrCodeInvalidDirection     ErrorCode = 103
	ErrCodeInsufficientData     ErrorCode = 104
	ErrCodeInvalidPeriod        ErrorCode = 105
	ErrCodeInvalidVersion       ErrorCode = 106
	ErrCodeInvalidMultiplier    ErrorCode = 107
	ErrCodeInvalidCapital       ErrorCode = 108

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound       ErrorCode = 200
	ErrCodeEmptySeries        ErrorCode = 201
	ErrCodeUnorderedSeries    ErrorCode = 202
	ErrCodeDataParseFailed    ErrorCode = 203
	ErrCodeDataSourceFailed   ErrorCode = 204
	ErrCodeDataDownloadFailed ErrorCode = 205
	ErrCodeDataQueryFailed    ErrorCode = 206
	ErrCodeDataExportFailed   ErrorCode = 207

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300
	ErrCodeIndicatorUnavailable ErrorCode = 301

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound     ErrorCode = 400
	ErrCodeStrategyConfigError  ErrorCode = 401
	ErrCodeStrategyRuntimeError ErrorCode = 402
	ErrCodeVersionMismatch      ErrorCode = 403

	// Risk/Portfolio errors (500-599)
	ErrCodeDegenerateStop    ErrorCode = 500
	ErrCodePositionNotFound  ErrorCode = 501
	ErrCodePositionDuplicate ErrorCode = 502

	// Backtest errors (600-699)
	ErrCodeBacktestNoData       ErrorCode = 600
	ErrCodeBacktestEmptySymbol  ErrorCode = 601
	ErrCodeBacktestConfigError  ErrorCode = 602
	ErrCodeBacktestCancelled    ErrorCode = 603
	ErrCodeBacktestLedgerFailed ErrorCode = 604

	// Live feed errors (700-799)
	ErrCodeFeedConnectFailed ErrorCode = 700
	ErrCodeFeedParseFailed   ErrorCode = 701
	ErrCodeFeedClosed        ErrorCode = 702
)
