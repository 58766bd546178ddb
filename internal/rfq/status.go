package rfq

import "tradehub-be/internal/apperr"

type Status string

const (
	StatusNew       Status = "new"
	StatusReviewing Status = "reviewing"
	StatusQuoted    Status = "quoted"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
)

// OpenStatuses are the statuses an RFQ can still expire from.
var OpenStatuses = []Status{StatusNew, StatusReviewing, StatusQuoted}

var transitions = map[Status][]Status{
	StatusNew:       {StatusReviewing, StatusQuoted, StatusExpired},
	StatusReviewing: {StatusQuoted, StatusExpired},
	StatusQuoted:    {StatusQuoted, StatusAccepted, StatusRejected, StatusExpired},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusReviewing, StatusQuoted, StatusAccepted, StatusRejected, StatusExpired:
		return true
	}
	return false
}

func (s Status) IsOpen() bool {
	return s == StatusNew || s == StatusReviewing || s == StatusQuoted
}

// Transition checks an RFQ status change. quoted to quoted is a re-quote.
func Transition(from, to Status) error {
	for _, s := range transitions[from] {
		if s == to {
			return nil
		}
	}
	return apperr.InvalidTransition("status", from, to)
}
