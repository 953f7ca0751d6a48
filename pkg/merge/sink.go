package merge

// Sink receives the diagnostics produced while merging. Implementations must
// be safe for use by one job at a time; the engine never calls a sink
// concurrently for the same job.
type Sink interface {
	// Notice reports progress, such as a source file being appended.
	Notice(msg string)
	// Warn reports a discarded or merged line.
	Warn(msg string)
}

type nopSink struct{}

func (nopSink) Notice(string) {}
func (nopSink) Warn(string)   {}

// NopSink discards every diagnostic.
var NopSink Sink = nopSink{}
