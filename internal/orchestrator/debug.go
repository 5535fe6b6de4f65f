package orchestrator

import (
	"log"
	"os"
)

// debugEnabled gates verbose loop logging.
var debugEnabled = os.Getenv("CONCIERGE_DEBUG") != ""

func debugLogf(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf(format, args...)
	}
}
