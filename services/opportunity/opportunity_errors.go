package opportunity

import "fmt"

var (
	ErrOpportunityNotFound = fmt.Errorf("opportunity not found")
)
