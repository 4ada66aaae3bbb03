package report

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"canarycast/internal/errors"
)

// Reporter receives classified cache errors for logging and analytics. The
// cache hands errors sideways through this interface instead of returning
// them; implementations must never panic and their results are ignored.
type Reporter interface {
	Report(err *errors.CastError, detail string)
}

// Report is one captured error occurrence
type Report struct {
	ID     string
	Time   time.Time
	Err    *errors.CastError
	Detail string
}

// LogReporter writes each report to a standard logger with a correlation ID
type LogReporter struct {
	logger *log.Logger
}

// NewLogReporter creates a reporter over the given logger; nil means stderr
func NewLogReporter(logger *log.Logger) *LogReporter {
	if logger == nil {
		logger = log.New(os.Stderr, "canarycast: ", log.LstdFlags)
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Report(err *errors.CastError, detail string) {
	if err == nil {
		return
	}
	id := uuid.NewString()
	if detail != "" {
		r.logger.Printf("cache error [%s] type=%s: %s (%s)", id, err.Type, err.Error(), detail)
		return
	}
	r.logger.Printf("cache error [%s] type=%s: %s", id, err.Type, err.Error())
}

// Recorder captures reports in memory for tests
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Report(err *errors.CastError, detail string) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, Report{
		ID:     uuid.NewString(),
		Time:   time.Now(),
		Err:    err,
		Detail: detail,
	})
}

// Reports returns a copy of everything captured so far
func (r *Recorder) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// ByType counts captured reports of the given error type
func (r *Recorder) ByType(t errors.ErrorType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rep := range r.reports {
		if rep.Err.Type == t {
			n++
		}
	}
	return n
}

// Nop discards every report
type Nop struct{}

func (Nop) Report(*errors.CastError, string) {}

var (
	_ Reporter = (*LogReporter)(nil)
	_ Reporter = (*Recorder)(nil)
	_ Reporter = Nop{}
)
