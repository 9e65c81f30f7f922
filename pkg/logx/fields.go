package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldAuctionID       = "auction-id"
	FieldBidAmount       = "bid-amount"
	FieldBidSeq          = "bid-seq"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldEventID         = "event-id"
	FieldLotID           = "lot-id"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldMessageID       = "message-id"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
	FieldUserID          = "user-id"
)
