package generator

import (
	"fmt"
	"strings"
)

// InvalidConstraint is returned when the caller's FingerprintConstraints
// name a combination the network can never legally produce — e.g.
// restricting browsers to ["safari"] while also restricting
// operating_systems to a platform Safari never ships on (spec §7,
// Testable Property 6 / scenario S6).
type InvalidConstraint struct {
	Fields  []string
	Message string
}

func (e *InvalidConstraint) Error() string {
	return fmt.Sprintf("invalid constraint combination (%s): %s", strings.Join(e.Fields, ", "), e.Message)
}
