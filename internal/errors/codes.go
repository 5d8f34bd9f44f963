package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK               Code = "OK"
	CodeCanceled         Code = "CANCELED"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded Code = "DEADLINE_EXCEEDED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInternal         Code = "INTERNAL"

	// Loot resolution pipeline codes
	CodeNetwork      Code = "NETWORK"
	CodeProtocol     Code = "PROTOCOL"
	CodeEncoding     Code = "ENCODING"
	CodeDecode       Code = "DECODE"
	CodeNameNotFound Code = "NAME_NOT_FOUND"
	CodeResolution   Code = "RESOLUTION"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Kind returns the human facing name of the error kind, e.g. "NetworkError"
func (c Code) Kind() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeCanceled:
		return "CanceledError"
	case CodeInvalidArgument:
		return "InvalidArgumentError"
	case CodeDeadlineExceeded:
		return "DeadlineExceededError"
	case CodeNotFound:
		return "NotFoundError"
	case CodeNetwork:
		return "NetworkError"
	case CodeProtocol:
		return "ProtocolError"
	case CodeEncoding:
		return "EncodingError"
	case CodeDecode:
		return "DecodeError"
	case CodeNameNotFound:
		return "NameNotFoundError"
	case CodeResolution:
		return "ResolutionError"
	default:
		return "InternalError"
	}
}
