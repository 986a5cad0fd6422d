package fleet

// Fleet is a named group of drivers and viewers sharing a join code.
// The code is the primary identity; a fleet is immutable once created.
type Fleet struct {
	Code        string
	Name        string
	CreatorName string
	CreatedAt   int64 // epoch millis
}
