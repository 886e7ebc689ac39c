package scan

// Stage identifies what the orchestrator is currently doing.
type Stage string

const (
	StageInitializing Stage = "initializing"
	StageLoadingPages Stage = "loading-pages"
	StageListingFiles Stage = "listing-files"
	StageFetching     Stage = "fetching"
	StageScanning     Stage = "scanning"
	StageComplete     Stage = "complete"
	StageAborted      Stage = "aborted"
	StageFailed       Stage = "failed"
)

// Progress is a best-effort notification to the presentation layer. Emitted
// on stage transitions, on page/file boundaries, and at minimum every
// progressEvery newly found occurrences. Delivery is non-blocking: if the
// receiver is gone or slow, events are dropped. Never a synchronization
// point.
type Progress struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`

	PagesDone  int `json:"pagesDone,omitempty"`
	PagesTotal int `json:"pagesTotal,omitempty"`
	FilesDone  int `json:"filesDone,omitempty"`
	FilesTotal int `json:"filesTotal,omitempty"`

	Found   int `json:"found"`
	Skipped int `json:"skipped,omitempty"`
}
