package scan

import "errors"

// Validation errors: reported immediately, the scan never starts and no
// session is created. Picking an instance instead of the component it came
// from is the single most common user mistake, so it gets its own message.
var (
	ErrNoSelection           = errors.New("nothing selected: select a component definition to track")
	ErrSelectionIsInstance   = errors.New("the selected node is an instance: select its main component definition instead")
	ErrSelectionNotComponent = errors.New("the selected node is not a component definition")
)

// Configuration errors: terminal failure for remote scopes, no partial
// session survives them.
var (
	ErrMissingToken   = errors.New("remote scanning requires an access token")
	ErrNoFiles        = errors.New("no files to scan")
	ErrScanInProgress = errors.New("a scan is already in progress")
)
