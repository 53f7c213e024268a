package message

import (
	"fmt"
	"math/rand/v2"
)

// newID is a package-level variable for testability.
// Tests can replace it to get predictable message IDs.
//
// IDs are not checked for collisions against stored records: two messages
// with the same ID share one record file.
var newID = func() string {
	return fmt.Sprintf("%010d", rand.Int64N(10_000_000_000))
}
