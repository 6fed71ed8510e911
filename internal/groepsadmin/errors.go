package groepsadmin

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when the webservice answered without a usable body.
	ErrEmptyResponse = errors.New("groepsadmin returned an empty response")
)

// Fault is a SOAP fault raised by the webservice, decoded straight from the
// response envelope. Its details are meant for the logs, never for end users.
type Fault struct {
	Code    string `xml:"faultcode"`
	Message string `xml:"faultstring"`
}

func (f *Fault) Error() string {
	return fmt.Sprintf("groepsadmin fault %s: %s", f.Code, f.Message)
}
