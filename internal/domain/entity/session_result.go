package entity

// FailureReason enumerates why a checkout or portal session was not issued.
type FailureReason string

const (
	ReasonNone               FailureReason = ""
	ReasonUnauthenticated    FailureReason = "unauthenticated"
	ReasonAccountNotFound    FailureReason = "account_not_found"
	ReasonCustomerNotFound   FailureReason = "customer_not_found"
	ReasonAlreadySubscribed  FailureReason = "already_subscribed"
	ReasonInvalidRequest     FailureReason = "invalid_request"
	ReasonPriceNotFound      FailureReason = "price_not_found"
	ReasonSessionUnavailable FailureReason = "session_unavailable"
)

// SessionResult is either a redirect URL or the reason no session was created.
type SessionResult struct {
	URL    string
	Reason FailureReason
}

// OK reports whether a session URL was issued.
func (r *SessionResult) OK() bool {
	return r != nil && r.Reason == ReasonNone && r.URL != ""
}

func Issued(url string) *SessionResult {
	return &SessionResult{URL: url}
}

func Refused(reason FailureReason) *SessionResult {
	return &SessionResult{Reason: reason}
}
