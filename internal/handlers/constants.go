package handlers

const (
	ContentTypeJSON = "application/json"
	ContentTypeMP3  = "audio/mpeg"

	// maxBodyBytes caps JSON request bodies; backups get maxBackupBytes
	maxBodyBytes   = 64 << 10
	maxBackupBytes = 32 << 20

	ErrInvalidJSON         = "Invalid JSON body"
	ErrNotFound            = "Not found"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"
	ErrAudioDisabled       = "Audio is not enabled"
)
