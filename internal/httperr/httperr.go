package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFoundResponse(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

var kindStatus = map[Kind]int{
	KindValidation:        http.StatusBadRequest,
	KindNotFound:          http.StatusNotFound,
	KindConflict:          http.StatusConflict,
	KindInvalidTransition: http.StatusConflict,
	KindAlreadyTaken:      http.StatusConflict,
	KindNoAvailableSlots:  http.StatusNotFound,
}

var kindMessage = map[Kind]string{
	KindValidation:        "Dados inválidos.",
	KindNotFound:          "Registro não encontrado.",
	KindConflict:          "Conflito com o estado atual.",
	KindInvalidTransition: "Operação não permitida para o status atual do horário.",
	KindAlreadyTaken:      "Horário já foi ocupado por outra operação.",
	KindNoAvailableSlots:  "Nenhum horário disponível no intervalo.",
}

// StatusFor returns the HTTP status for a business kind.
func StatusFor(kind Kind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// FromError writes err as a JSON error. Business errors keep their code;
// anything else is logged and answered with a 500.
func FromError(c *gin.Context, logger *zap.Logger, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		c.JSON(StatusFor(be.Kind), HTTPError{
			Code:    be.Code,
			Message: kindMessage[be.Kind],
			Detail:  be.Detail,
		})
		return
	}

	if logger != nil {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	Internal(c, "internal_error", "Erro interno.")
}
