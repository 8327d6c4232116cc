package export

import (
	"errors"
	"fmt"
)

// Export precondition failures. No file is produced for either.
var (
	ErrNoData         = errors.New("no data to export")
	ErrNoCategoryData = fmt.Errorf("%w: no data found for the selected categories", ErrNoData)
)
