package constants

import (
	"os"
	"time"
)

func GetOutputDir() string {
	path := os.Getenv("OUTPUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

const DefaultAddr = ":8080"

// local dynamodb, as started by `docker run amazon/dynamodb-local`
const DefaultStoreEndpoint = "http://localhost:8000"
const DefaultStoreRegion = "localhost"
const DefaultStoreTable = "earworm-reports"

const DefaultWatchDebounce = 500 * time.Millisecond

// MaxUploadSize bounds request bodies of the http api. Piano transcriptions
// are rarely above a few hundred KB.
const MaxUploadSize = 8 * 1024 * 1024
