/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Conversation and Content Business Logic Errors
const (
	// ErrConversationNotFound indicates the conversation being operated on does not exist.
	ErrConversationNotFound = 2101

	// ErrMessageContentTooLong indicates that the user's message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrFileSizeTooLarge indicates the upload exceeds the per-file size limit.
	ErrFileSizeTooLarge = 2301

	// ErrFileTypeInvalid indicates the upload's name or MIME type is not an allowed image type.
	ErrFileTypeInvalid = 2302
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrAlreadyLoggedIn indicates a register/login attempt from an authenticated session.
	ErrAlreadyLoggedIn = 3001

	// ErrInvalidUsername indicates the username fails format validation.
	ErrInvalidUsername = 3002

	// ErrInvalidPassword indicates the password fails length validation.
	ErrInvalidPassword = 3003

	// ErrInvalidEmail indicates the email fails format validation.
	ErrInvalidEmail = 3004

	// ErrUserAlreadyExists indicates the username or email is already taken.
	ErrUserAlreadyExists = 3005

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = 3006

	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = 3007

	// ErrUnauthorized indicates the request requires an authenticated caller.
	ErrUnauthorized = 3008

	// ErrSessionKicked indicates that the current client connection has been terminated.
	ErrSessionKicked = 3009
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates the storage backend rejected an upload operation.
	ErrFileStorageFailed = 5001
)
