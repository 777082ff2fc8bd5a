package appointment

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

func isBusiness(err error) bool {
	_, ok := httperr.BusinessCode(err)
	return ok
}
