package authz

import "net/http"

// Decision is the result of a resource-level authorization check: either the
// acting user id or an HTTP status plus message for the caller to return.
// Handlers consume it with an explicit Allowed() check instead of juggling an
// (id, status, message) triple.
type Decision struct {
	UserID  string
	Status  int
	Message string
}

func Authorized(userID string) Decision {
	return Decision{UserID: userID}
}

func Denied(status int, message string) Decision {
	return Decision{Status: status, Message: message}
}

func (d Decision) Allowed() bool {
	return d.Status == 0
}

// OwnerOrModerator authorizes writes on owned resources: the owner may always
// act, staff roles may act on anything.
func OwnerOrModerator(userID, role, ownerID string) Decision {
	if userID == "" {
		return Denied(http.StatusUnauthorized, "authentication required")
	}
	if userID == ownerID || IsStaff(role) {
		return Authorized(userID)
	}
	return Denied(http.StatusForbidden, "forbidden")
}
