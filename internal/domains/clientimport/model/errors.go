package model

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"iptv-manager/internal/shared/response"
)

// Error codes returned to API clients.
const (
	CodeInvalidExtension = "INVALID_EXTENSION"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeEmptySheet       = "EMPTY_SHEET"
	CodeTooManyRows      = "TOO_MANY_ROWS"
	CodeUnreadableFile   = "UNREADABLE_FILE"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeSessionBusy      = "SESSION_BUSY"
	CodeRecordNotFound   = "RECORD_NOT_FOUND"
	CodeUnknownField     = "UNKNOWN_FIELD"
	CodeNothingToImport  = "NOTHING_TO_IMPORT"
	CodeSubmitFailed     = "SUBMIT_FAILED"
)

// ImportError is a failure of the import pipeline that the caller can act on.
// Two ImportErrors match under errors.Is when their codes are equal.
type ImportError struct {
	Code    string
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ImportError) Unwrap() error { return e.Err }

func (e *ImportError) Is(target error) bool {
	t, ok := target.(*ImportError)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidExtension = &ImportError{Code: CodeInvalidExtension, Message: "only .xlsx and .csv files are accepted"}
	ErrFileTooLarge     = &ImportError{Code: CodeFileTooLarge, Message: "file exceeds the maximum size"}
	ErrEmptySheet       = &ImportError{Code: CodeEmptySheet, Message: "the sheet has no data rows"}
	ErrTooManyRows      = &ImportError{Code: CodeTooManyRows, Message: "the sheet has too many rows"}
	ErrUnreadableFile   = &ImportError{Code: CodeUnreadableFile, Message: "the file could not be read"}
	ErrSessionNotFound  = &ImportError{Code: CodeSessionNotFound, Message: "import session not found or expired"}
	ErrSessionBusy      = &ImportError{Code: CodeSessionBusy, Message: "import session is being changed by another request, try again"}
	ErrRecordNotFound   = &ImportError{Code: CodeRecordNotFound, Message: "record not found"}
	ErrUnknownField     = &ImportError{Code: CodeUnknownField, Message: "field cannot be edited"}
	ErrNothingToImport  = &ImportError{Code: CodeNothingToImport, Message: "Nenhum registro válido para importar"}
)

// Unreadable wraps a parser failure.
func Unreadable(err error) error {
	return &ImportError{Code: CodeUnreadableFile, Message: ErrUnreadableFile.Message, Err: err}
}

// SubmitFailed wraps a backend failure; the backend message is kept verbatim.
func SubmitFailed(err error) error {
	return &ImportError{Code: CodeSubmitFailed, Message: err.Error(), Err: err}
}

var importErrorStatus = map[string]int{
	CodeInvalidExtension: http.StatusBadRequest,
	CodeFileTooLarge:     http.StatusBadRequest,
	CodeEmptySheet:       http.StatusBadRequest,
	CodeTooManyRows:      http.StatusBadRequest,
	CodeUnreadableFile:   http.StatusBadRequest,
	CodeUnknownField:     http.StatusBadRequest,
	CodeSessionNotFound:  http.StatusNotFound,
	CodeRecordNotFound:   http.StatusNotFound,
	CodeSessionBusy:      http.StatusConflict,
	CodeNothingToImport:  http.StatusUnprocessableEntity,
	CodeSubmitFailed:     http.StatusBadGateway,
}

// HandleImportError writes err to the response and reports whether it did.
func HandleImportError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var ie *ImportError
	if errors.As(err, &ie) {
		if status, ok := importErrorStatus[ie.Code]; ok {
			response.ErrorResponse(c, status, ie.Code, ie.Message)
			return true
		}
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled import error")
	response.InternalServerError(c, "internal server error")
	return true
}
