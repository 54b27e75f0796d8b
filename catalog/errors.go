package catalog

import "errors"

// errContinuationWithoutCursor is reported when a page claims more results
// exist but carries no cursor to resume from. Treated as a malformed page.
var errContinuationWithoutCursor = errors.New("storefront page reports more results but no continuation cursor")
