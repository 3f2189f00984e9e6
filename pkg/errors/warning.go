package errors

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Warning is a degraded-but-continue condition. The run proceeds; warnings
// are logged and collected in results so callers can inspect them.
type Warning struct {
	Num     int    `json:"num"`
	Message string `json:"message"`
}

// String formats the warning as DPO-NNNN: message.
func (w Warning) String() string {
	return fmt.Sprintf("DPO-%04d: %s", w.Num, w.Message)
}

// Warnings collects warnings and mirrors each one to a logger.
type Warnings struct {
	Logger *log.Logger
	List   []Warning
}

// Add records a warning and logs it at warn level with its id under "code".
func (ws *Warnings) Add(num int, format string, args ...any) {
	w := Warning{Num: num, Message: fmt.Sprintf(format, args...)}
	ws.List = append(ws.List, w)
	if ws.Logger != nil {
		ws.Logger.Warn(w.Message, "code", num)
	}
}

// Has reports whether a warning with the given id was recorded.
func (ws *Warnings) Has(num int) bool {
	for _, w := range ws.List {
		if w.Num == num {
			return true
		}
	}
	return false
}
