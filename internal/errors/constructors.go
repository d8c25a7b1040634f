package errors

// Convenience functions for common error patterns

// Config and input errors

func ConfigInvalid(path string, cause error) *MetaError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "invalid configuration file").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *MetaError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Document processing errors

func VersionFormat(version string, cause error) *MetaError {
	return Wrap(cause, CategoryVersion, SeverityError, "malformed version string").
		WithContext("version", version)
}

func MetadataParse(path string, cause error) *MetaError {
	return Wrap(cause, CategoryParse, SeverityWarning, "malformed metadata block").
		WithContext("path", path)
}

func EncodingFailed(path string, cause error) *MetaError {
	return Wrap(cause, CategoryEncoding, SeverityError, "content is not valid text").
		WithContext("path", path)
}

// File system errors

func ReadFailed(path string, cause error) *MetaError {
	return Wrap(cause, CategoryFileSystem, SeverityError, "file read failed").
		WithContext("path", path)
}

func WriteFailed(path string, cause error) *MetaError {
	return Wrap(cause, CategoryFileSystem, SeverityError, "file write failed").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *MetaError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
