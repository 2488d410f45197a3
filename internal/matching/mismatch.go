package matching

// MismatchKind tags which part of a request/response a Mismatch concerns.
type MismatchKind string

const (
	MismatchMethod   MismatchKind = "Method"
	MismatchPath     MismatchKind = "Path"
	MismatchQuery    MismatchKind = "Query"
	MismatchHeader   MismatchKind = "Header"
	MismatchBody     MismatchKind = "Body"
	MismatchBodyType MismatchKind = "BodyType"
	MismatchStatus   MismatchKind = "Status"
	MismatchMetadata MismatchKind = "Metadata"
)

// Mismatch is one accumulated matching failure. The engine never throws
// on a per-field mismatch; it accumulates these and lets the caller
// decide the overall verdict.
type Mismatch struct {
	Kind   MismatchKind
	Path   string
	Detail string
}

func newMismatch(kind MismatchKind, path, detail string) Mismatch {
	return Mismatch{Kind: kind, Path: path, Detail: detail}
}
