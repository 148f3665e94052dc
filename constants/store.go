package constants

// SourceBucket is the bucket all namespaces live in.
const SourceBucket = "invoices"

// Prefix-delimited namespaces inside the source bucket.
const (
	IntakePrefix = "json/"            // producer-written document JSON awaiting extraction
	OutputPrefix = "json-line-items/" // successful extraction results
	ErrorPrefix  = "error/"           // relocated original bytes on processing failure
)

// InUseSuffix marks a claimed intake object. The suffixed copy is the
// only claim signal; there is no separate lock table.
const InUseSuffix = ".in-use"
