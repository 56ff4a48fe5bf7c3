package common

// UserHeaderName is the HTTP header carrying the acting username on every
// request to the backend. The backend creates the user on first sight.
const UserHeaderName = "X-User"
