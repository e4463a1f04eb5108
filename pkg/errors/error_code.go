package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

// Kind groups error codes into the failure categories callers branch on.
type Kind string

const (
	KindUnknown           Kind = "UNKNOWN"
	KindInvalidArgument   Kind = "INVALID_ARGUMENT"
	KindNotFound          Kind = "NOT_FOUND"
	KindOutOfRange        Kind = "OUT_OF_RANGE"
	KindInvalidOperation  Kind = "INVALID_OPERATION"
	KindInconsistentState Kind = "INCONSISTENT_STATE"
	KindEmptyCollection   Kind = "EMPTY_COLLECTION"
	KindTrader            Kind = "TRADER"
	KindStorage           Kind = "STORAGE"
	KindConfiguration     Kind = "CONFIGURATION"
)

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Invalid argument errors (100-199)
	ErrCodeInvalidArgument  ErrorCode = 100
	ErrCodeInvalidSize      ErrorCode = 101
	ErrCodeInvalidDate      ErrorCode = 102
	ErrCodeInvalidPrice     ErrorCode = 103
	ErrCodeInvalidPriceType ErrorCode = 104
	ErrCodeInvalidWeight    ErrorCode = 105
	ErrCodeInvalidPeriod    ErrorCode = 106
	ErrCodeNegativeCapital  ErrorCode = 107

	// Not found errors (200-299)
	ErrCodeDataNotFound      ErrorCode = 200
	ErrCodeSymbolNotFound    ErrorCode = 201
	ErrCodeDateNotFound      ErrorCode = 202
	ErrCodePositionNotFound  ErrorCode = 203
	ErrCodeExecutionNotFound ErrorCode = 204
	ErrCodeEmptySeries       ErrorCode = 205
	ErrCodeDateBeforeEntry   ErrorCode = 206

	// Out of range errors (300-399)
	ErrCodeOutOfRange       ErrorCode = 300
	ErrCodePeriodOutOfRange ErrorCode = 301
	ErrCodeMonthOutOfRange  ErrorCode = 302

	// Invalid operation errors (400-499)
	ErrCodeInvalidOperation   ErrorCode = 400
	ErrCodePositionClosed     ErrorCode = 401
	ErrCodeWrongPositionType  ErrorCode = 402
	ErrCodeNotComposite       ErrorCode = 403
	ErrCodeNoSingleEntryPrice ErrorCode = 404

	// Inconsistent state errors (500-599)
	ErrCodeInconsistentState    ErrorCode = 500
	ErrCodeExecutionCollision   ErrorCode = 501
	ErrCodeInvalidPositionState ErrorCode = 502
	ErrCodeRegistryUpdateFailed ErrorCode = 503
	ErrCodeRegistryInsertFailed ErrorCode = 504

	// Empty collection errors (600-699)
	ErrCodeEmptyCollection   ErrorCode = 600
	ErrCodeEmptyFactorSet    ErrorCode = 601
	ErrCodeEmptyPositionSet  ErrorCode = 602
	ErrCodeNoExcursionPeriod ErrorCode = 603
	ErrCodeEmptyLedger       ErrorCode = 604

	// Trader errors (700-799)
	ErrCodeTraderFailed ErrorCode = 700

	// Storage errors (800-899)
	ErrCodeDataSourceUnavailable ErrorCode = 800
	ErrCodeQueryFailed           ErrorCode = 801
	ErrCodeJournalWriteFailed    ErrorCode = 802
	ErrCodeSeriesParseFailed     ErrorCode = 803
	ErrCodeStatisticsWriteFailed ErrorCode = 804

	// Configuration errors (900-999)
	ErrCodeInvalidConfiguration ErrorCode = 900
	ErrCodeVersionMismatch      ErrorCode = 901
	ErrCodeUnsupportedStrategy  ErrorCode = 902
	ErrCodeUnsupportedLoader    ErrorCode = 903
)

// KindOf maps an error code to its failure kind by code range.
func KindOf(code ErrorCode) Kind {
	switch {
	case code >= 100 && code < 200:
		return KindInvalidArgument
	case code >= 200 && code < 300:
		return KindNotFound
	case code >= 300 && code < 400:
		return KindOutOfRange
	case code >= 400 && code < 500:
		return KindInvalidOperation
	case code >= 500 && code < 600:
		return KindInconsistentState
	case code >= 600 && code < 700:
		return KindEmptyCollection
	case code >= 700 && code < 800:
		return KindTrader
	case code >= 800 && code < 900:
		return KindStorage
	case code >= 900 && code < 1000:
		return KindConfiguration
	default:
		return KindUnknown
	}
}
