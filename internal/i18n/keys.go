package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
)

// Chat reply translation keys.
const (
	KeyMenuPrompt = "menu.prompt"

	KeyButtonSnapshot = "button.snapshot"
	KeyButtonUsers    = "button.users"
	KeyButtonCrypto   = "button.crypto"
	KeyButtonCharts   = "button.charts"
	KeyButtonChatID   = "button.chatid"
	KeyButtonRefresh  = "button.refresh"
	KeyButtonBack     = "button.back"

	KeyRefreshing       = "callback.refreshing"
	KeyRefreshingCharts = "callback.refreshing_charts"

	// KeyUsersBody takes the formatted user and juiced counters.
	KeyUsersBody = "users.body"
	// KeyUsersBodyPercent also takes the juiced share.
	KeyUsersBodyPercent = "users.body_percent"
	KeyUsersFailed      = "users.failed"
	KeyUsersRefreshFail = "users.refresh_failed"

	// KeyCryptoLine takes the coin, price and 24h change.
	KeyCryptoLine        = "crypto.line"
	KeyCryptoFXLine      = "crypto.fx_line"
	KeyCryptoFailed      = "crypto.failed"
	KeyCryptoRefreshFail = "crypto.refresh_failed"

	KeySnapshotBody   = "snapshot.body"
	KeySnapshotFailed = "snapshot.failed"

	KeyChartsFooter = "charts.footer"
	KeyChartsNoData = "charts.no_data"
	KeyChartsFailed = "charts.failed"
	// KeyChartWindowPrefix is joined with a window label, e.g. "chart.window.1h".
	KeyChartWindowPrefix = "chart.window."

	KeyConvertUsage       = "convert.usage"
	KeyConvertUnsupported = "convert.unsupported"
	KeyConvertNoRates     = "convert.no_rates"
	KeyConvertResult      = "convert.result"

	KeyChatIDBody = "chatid.body"
)
