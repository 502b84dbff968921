package heater

import (
	"net/http"

	"github.com/ansel1/merry"
)

// Failures are matched with merry.Is against these sentinels.
var (
	ErrValidation   = merry.New("invalid parameters").WithHTTPCode(http.StatusBadRequest)
	ErrComputation  = merry.New("computation error").WithHTTPCode(http.StatusUnprocessableEntity)
	ErrCollaborator = merry.New("saturation pressure lookup failed").WithHTTPCode(http.StatusBadGateway)
)
