package models

// Requests for estimation endpoints and messages. Defined in domain so the
// HTTP handler and the Kafka worker validate the same way.

type CAPMRequest struct {
	Asset    string `query:"asset" json:"asset" validate:"required,max=32"`
	Market   string `query:"market" json:"market" default:"^GSPC" validate:"required,max=32"`
	RiskFree string `query:"riskfree" json:"riskfree" default:"^IRX" validate:"required,max=32"`
	Period   string `query:"period" json:"period" default:"5y" validate:"required,max=8"`
	Interval string `query:"interval" json:"interval" default:"monthly" validate:"required"`
}

// EstimateMessage is the payload of an estimation request on the queue.
type EstimateMessage struct {
	RequestID string `json:"request_id"`
	CAPMRequest
}

// EstimateReply is published once per EstimateMessage.
type EstimateReply struct {
	RequestID string      `json:"request_id"`
	Result    *CAPMResult `json:"result,omitempty"`
	Error     *ReplyError `json:"error,omitempty"`
}

type ReplyError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}
