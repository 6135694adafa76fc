package config

// User-facing error messages. The panel's operators work in Spanish, so
// every message that reaches the browser stays in Spanish like the
// original panel did.
const (
	ErrNotAuthorized   = "No autorizado"
	ErrInvalidLogin    = "Credenciales inválidas"
	ErrSessionFailure  = "Error validando sesión"
	ErrInvalidID       = "ID inválido"
	ErrRecordGone      = "El registro ya no existe"
	ErrNothingToSave   = "No hay cambios para guardar"
	ErrMethodSpanish   = "Método no permitido"
	ErrInternalGeneric = "Error inesperado"
)
