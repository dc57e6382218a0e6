package utils

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

const (
	_ = iota
	CANNOT_CONNECT_TO_MONGODB
	INVALID_REQUEST_DATA

	CANNOT_HASH_PASSWORD
	CANNOT_ISSUE_TOKEN
	CANNOT_REVOKE_TOKEN
	CANNOT_FIND_USERS_IN_MONGODB
	CANNOT_FIND_USER_BY_ID_IN_MONGODB
	CANNOT_INSERT_USER_TO_MONGODB
	CANNOT_UPDATE_USER_IN_MONGODB
	CANNOT_DELETE_USER_FROM_MONGODB

	CANNOT_FIND_PROSPECTS_IN_MONGODB
	CANNOT_FIND_PROSPECT_BY_ID_IN_MONGODB
	CANNOT_INSERT_PROSPECT_TO_MONGODB
	CANNOT_UPDATE_PROSPECT_IN_MONGODB
	CANNOT_DELETE_PROSPECT_FROM_MONGODB
	CANNOT_CONVERT_PROSPECT

	CANNOT_FIND_OPPORTUNITIES_IN_MONGODB
	CANNOT_FIND_OPPORTUNITY_BY_ID_IN_MONGODB
	CANNOT_INSERT_OPPORTUNITY_TO_MONGODB
	CANNOT_UPDATE_OPPORTUNITY_IN_MONGODB
	CANNOT_DELETE_OPPORTUNITY_FROM_MONGODB

	CANNOT_FIND_CLIENTS_IN_MONGODB
	CANNOT_FIND_CLIENT_BY_ID_IN_MONGODB
	CANNOT_INSERT_CLIENT_TO_MONGODB
	CANNOT_UPDATE_CLIENT_IN_MONGODB
	CANNOT_DELETE_CLIENT_FROM_MONGODB

	CANNOT_FIND_TICKETS_IN_MONGODB
	CANNOT_FIND_TICKET_BY_ID_IN_MONGODB
	CANNOT_INSERT_TICKET_TO_MONGODB
	CANNOT_UPDATE_TICKET_IN_MONGODB
	CANNOT_DELETE_TICKET_FROM_MONGODB

	CANNOT_FIND_INVOICES_IN_MONGODB
	CANNOT_FIND_INVOICE_BY_ID_IN_MONGODB
	CANNOT_INSERT_INVOICE_TO_MONGODB
	CANNOT_UPDATE_INVOICE_IN_MONGODB
	CANNOT_DELETE_INVOICE_FROM_MONGODB
	CANNOT_RENDER_INVOICE_PDF
	CANNOT_SEND_INVOICE_EMAIL

	CANNOT_AGGREGATE_ANALYTICS
	CANNOT_FIND_REPORT_DATA_IN_MONGODB
	CANNOT_RENDER_REPORT

	CANNOT_QUERY_LEGACY_MYSQL
	CANNOT_IMPORT_LEGACY_PROSPECT
)

func SendInternalError(internalErrorCode int) string {
	return fmt.Sprintf("Une erreur interne est survenue sur le serveur. Veuillez réessayer plus tard (Cod: %d)", internalErrorCode)
}

// SendFailure logs err under its internal code and answers with the
// generic internal error message.
func SendFailure(w http.ResponseWriter, r *http.Request, statusCode int, internalErrorCode int, err error) {
	zap.L().Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("code", internalErrorCode),
		zap.Error(err),
	)
	SendResponse(w, statusCode, "", nil, internalErrorCode)
}
