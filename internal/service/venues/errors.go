package venues

import "errors"

var (
	ErrVenueConflict = errors.New("venue already exists")
	ErrVenueNotFound = errors.New("venue not found")
	ErrInvalidVenue  = errors.New("invalid venue")
)
