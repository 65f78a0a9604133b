package domain

type RunStatus string

const (
	RunStatusNoChangeDetected    RunStatus = "no_change_detected"
	RunStatusHasChanges          RunStatus = "has_changes"
	RunStatusCompletedWithErrors RunStatus = "completed_with_errors"
	RunStatusCancelled           RunStatus = "cancelled"
)

// RunPhase names the orchestrator's steps, in execution order.
type RunPhase string

const (
	PhaseLoadCache     RunPhase = "LOAD_CACHE"
	PhaseBuildVariants RunPhase = "BUILD_VARIANTS"
	PhaseDiff          RunPhase = "DIFF"
	PhaseDeleteStale   RunPhase = "DELETE_STALE"
	PhaseUploadChanged RunPhase = "UPLOAD_CHANGED"
	PhaseDone          RunPhase = "DONE"
)

// Disposition is what a sync run decided for one variant.
type Disposition string

const (
	DispositionRejected  Disposition = "rejected"
	DispositionUnchanged Disposition = "unchanged"
	DispositionEnqueued  Disposition = "enqueued"
	DispositionStale     Disposition = "stale"
)

// Reasons attached to a Disposition.
const (
	ReasonNewOffer         = "new_offer"
	ReasonContentChanged   = "content_changed"
	ReasonNoChange         = "no_change_detected"
	ReasonValidationFailed = "validation_failed"
	ReasonAbsentFromFeed   = "absent_from_feed"
)
