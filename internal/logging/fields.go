package logging

// Field names for structured logging.
const (
	FieldError    = "error"
	FieldPath     = "path"
	FieldLanguage = "language"
	FieldLexer    = "lexer"

	// Build fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Cache fields.
	FieldPos       = "pos"
	FieldFirst     = "first"
	FieldLast      = "last"
	FieldCount     = "count"
	FieldFetchSize = "fetch_size"

	// Document fields.
	FieldDocument = "document"
	FieldLength   = "length"
	FieldTokens   = "tokens"
)
