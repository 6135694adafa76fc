package config

const (
	HCType           = "Content-Type"
	HContentEncoding = "Content-Encoding"
	HAcceptEncoding  = "Accept-Encoding"
	HCacheControl    = "Cache-Control"

	CTypeJSON = "application/json"
	CTypeCSV  = "text/csv"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)
